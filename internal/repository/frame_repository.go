package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const frameColumns = `id, staff_id, date, title, day, start_time, end_time, duration_minutes, interval_minutes,
	is_recurring, repeat_group_id, status, visibility, created_at, updated_at`

const insertFrameQuery = `
	INSERT INTO availability_frames (staff_id, date, title, day, start_time, end_time, duration_minutes,
		interval_minutes, is_recurring, repeat_group_id, status, visibility)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id, created_at, updated_at
`

// PgFrameRepository окна доступности в PostgreSQL
type PgFrameRepository struct {
	*base.Repository
}

func NewFrameRepository(db base.DBTX) *PgFrameRepository {
	return &PgFrameRepository{Repository: base.NewRepository(db)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFrame(row rowScanner) (*model.Frame, error) {
	var (
		frame   model.Frame
		groupID pgtype.UUID
	)
	err := row.Scan(
		&frame.ID,
		&frame.StaffID,
		&frame.Date,
		&frame.Title,
		&frame.Day,
		&frame.StartTime,
		&frame.EndTime,
		&frame.DurationMinutes,
		&frame.IntervalMinutes,
		&frame.IsRecurring,
		&groupID,
		&frame.Status,
		&frame.Visibility,
		&frame.CreatedAt,
		&frame.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	frame.RepeatGroupID = base.UUIDPtr(groupID)
	return &frame, nil
}

func frameArgs(f *model.Frame) []any {
	return []any{
		f.StaffID,
		f.Date,
		f.Title,
		f.Day,
		f.StartTime,
		f.EndTime,
		f.DurationMinutes,
		f.IntervalMinutes,
		f.IsRecurring,
		base.UUID(f.RepeatGroupID),
		f.Status,
		f.Visibility,
	}
}

func (r *PgFrameRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Frame, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var frames []*model.Frame
	for rows.Next() {
		frame, err := scanFrame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		frames = append(frames, frame)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return frames, nil
}

// Create создаёт новое окно
func (r *PgFrameRepository) Create(ctx context.Context, frame *model.Frame) error {
	err := r.QueryRow(ctx, insertFrameQuery, frameArgs(frame)...).
		Scan(&frame.ID, &frame.CreatedAt, &frame.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	return nil
}

// CreateBatch вставляет экземпляры серии одним round trip
func (r *PgFrameRepository) CreateBatch(ctx context.Context, frames []*model.Frame) error {
	if len(frames) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, frame := range frames {
		batch.Queue(insertFrameQuery, frameArgs(frame)...).QueryRow(func(row pgx.Row) error {
			return row.Scan(&frame.ID, &frame.CreatedAt, &frame.UpdatedAt)
		})
	}

	if err := r.DB().SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("create frames batch: %w", err)
	}
	return nil
}

// GetByID получает окно по ID
func (r *PgFrameRepository) GetByID(ctx context.Context, id int64) (*model.Frame, error) {
	query := `SELECT ` + frameColumns + ` FROM availability_frames WHERE id = $1`

	frame, err := scanFrame(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get frame by id: %w", err)
	}
	return frame, nil
}

// ListByStaff все окна сотрудника
func (r *PgFrameRepository) ListByStaff(ctx context.Context, staffID int64) ([]*model.Frame, error) {
	query := `SELECT ` + frameColumns + ` FROM availability_frames
		WHERE staff_id = $1
		ORDER BY date NULLS FIRST, start_time`
	return r.list(ctx, "list frames by staff", query, staffID)
}

// ListByStaffAndDate окна сотрудника на конкретную дату
func (r *PgFrameRepository) ListByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*model.Frame, error) {
	query := `SELECT ` + frameColumns + ` FROM availability_frames
		WHERE staff_id = $1 AND date = $2
		ORDER BY start_time`
	return r.list(ctx, "list frames by staff and date", query, staffID, date)
}

// ListPublicByStaff активные публичные окна начиная с from
func (r *PgFrameRepository) ListPublicByStaff(ctx context.Context, staffID int64, from time.Time) ([]*model.Frame, error) {
	query := `SELECT ` + frameColumns + ` FROM availability_frames
		WHERE staff_id = $1 AND status = $2 AND visibility = $3 AND date >= $4
		ORDER BY date, start_time`
	return r.list(ctx, "list public frames", query, staffID, model.FrameStatusActive, model.VisibilityPublic, from)
}

// ListByRepeatGroup окна одной серии
func (r *PgFrameRepository) ListByRepeatGroup(ctx context.Context, groupID uuid.UUID) ([]*model.Frame, error) {
	query := `SELECT ` + frameColumns + ` FROM availability_frames
		WHERE repeat_group_id = $1
		ORDER BY date NULLS FIRST`
	return r.list(ctx, "list frames by repeat group", query, base.UUID(&groupID))
}

// Update сохраняет все изменяемые поля окна
func (r *PgFrameRepository) Update(ctx context.Context, frame *model.Frame) error {
	query := `
		UPDATE availability_frames
		SET staff_id = $1, date = $2, title = $3, day = $4, start_time = $5, end_time = $6,
			duration_minutes = $7, interval_minutes = $8, is_recurring = $9, repeat_group_id = $10,
			status = $11, visibility = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at
	`

	args := append(frameArgs(frame), frame.ID)
	if err := r.QueryRow(ctx, query, args...).Scan(&frame.UpdatedAt); err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update frame %d: %w", frame.ID, err)
		}
		return fmt.Errorf("update frame: %w", err)
	}
	return nil
}

// Delete удаляет окно, слоты и записи удаляются каскадно
func (r *PgFrameRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM availability_frames WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete frame: %w", err)
	}
	return affected > 0, nil
}

// DeleteByRepeatGroup удаляет всю серию
func (r *PgFrameRepository) DeleteByRepeatGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM availability_frames WHERE repeat_group_id = $1`, base.UUID(&groupID))
	if err != nil {
		return 0, fmt.Errorf("delete frames by repeat group: %w", err)
	}
	return affected, nil
}

func (r *PgFrameRepository) DeleteGroupAfter(ctx context.Context, groupID uuid.UUID, after time.Time, exclude int64) (int64, error) {
	query := `
		DELETE FROM availability_frames
		WHERE repeat_group_id = $1 AND date > $2 AND id <> $3
	`
	affected, err := r.ExecAffected(ctx, query, base.UUID(&groupID), after, exclude)
	if err != nil {
		return 0, fmt.Errorf("delete future frames of group: %w", err)
	}
	return affected, nil
}

func (r *PgFrameRepository) DetachGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	query := `
		UPDATE availability_frames
		SET repeat_group_id = NULL, is_recurring = FALSE, updated_at = NOW()
		WHERE repeat_group_id = $1
	`
	affected, err := r.ExecAffected(ctx, query, base.UUID(&groupID))
	if err != nil {
		return 0, fmt.Errorf("detach repeat group: %w", err)
	}
	return affected, nil
}
