package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
)

// Частичный уникальный индекс: не больше одной неотменённой записи на слот
const activeAppointmentIndex = "appointments_active_slot_idx"

const appointmentColumns = `id, staff_id, availability_slot_id, visitor_name, student_name, phone_number,
	email, purpose, status, created_at, updated_at`

type PgAppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(db base.DBTX) *PgAppointmentRepository {
	return &PgAppointmentRepository{Repository: base.NewRepository(db)}
}

func scanAppointment(row rowScanner) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.StaffID,
		&a.SlotID,
		&a.VisitorName,
		&a.StudentName,
		&a.PhoneNumber,
		&a.Email,
		&a.Purpose,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create создаёт новую запись
func (r *PgAppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (staff_id, availability_slot_id, visitor_name, student_name, phone_number,
			email, purpose, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		a.StaffID,
		a.SlotID,
		a.VisitorName,
		a.StudentName,
		a.PhoneNumber,
		a.Email,
		a.Purpose,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, activeAppointmentIndex) {
			return apperrors.ErrSlotUnavailable
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *PgAppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}
	return a, nil
}

// ListByStaff записи к сотруднику, новые первыми
func (r *PgAppointmentRepository) ListByStaff(ctx context.Context, staffID int64) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		WHERE staff_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by staff: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get appointments by staff: %w", err)
	}

	return appointments, nil
}

// Update сохраняет данные посетителя и статус
func (r *PgAppointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	query := `
		UPDATE appointments
		SET visitor_name = $1, student_name = $2, phone_number = $3, email = $4, purpose = $5,
			status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, a.VisitorName, a.StudentName, a.PhoneNumber, a.Email, a.Purpose, a.Status, a.ID).
		Scan(&a.UpdatedAt)
	if err != nil {
		if base.IsUniqueViolation(err, activeAppointmentIndex) {
			return apperrors.ErrSlotUnavailable
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

// Delete удаляет запись
func (r *PgAppointmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM appointments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

func (r *PgAppointmentRepository) ExistsForSlot(ctx context.Context, slotID int64) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE availability_slot_id = $1)`, slotID).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot appointments: %w", err)
	}
	return exists, nil
}
