package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
)

type PgStaffRepository struct {
	*base.Repository
}

func NewStaffRepository(db base.DBTX) *PgStaffRepository {
	return &PgStaffRepository{Repository: base.NewRepository(db)}
}

const staffQuery = `
	SELECT id, name, email, phone, department, position, created_at
	FROM staff
	WHERE id = $1
`

func (r *PgStaffRepository) get(ctx context.Context, op, query string, id int64) (*model.Staff, error) {
	var staff model.Staff
	err := r.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.Phone,
		&staff.Department,
		&staff.Position,
		&staff.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &staff, nil
}

// GetByID получает сотрудника по ID
func (r *PgStaffRepository) GetByID(ctx context.Context, id int64) (*model.Staff, error) {
	return r.get(ctx, "get staff by id", staffQuery, id)
}

// Lock получает сотрудника с FOR UPDATE
func (r *PgStaffRepository) Lock(ctx context.Context, id int64) (*model.Staff, error) {
	return r.get(ctx, "lock staff", staffQuery+" FOR UPDATE", id)
}
