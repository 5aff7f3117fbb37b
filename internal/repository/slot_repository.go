package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `id, availability_frame_id, start_time, end_time, status, created_at, updated_at`

type PgSlotRepository struct {
	*base.Repository
}

func NewSlotRepository(db base.DBTX) *PgSlotRepository {
	return &PgSlotRepository{Repository: base.NewRepository(db)}
}

func scanSlot(row rowScanner) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.FrameID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *PgSlotRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Slot, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slots, nil
}

// Create создаёт новый слот
func (r *PgSlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO availability_slots (availability_frame_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query, slot.FrameID, slot.StartTime, slot.EndTime, slot.Status).
		Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

// CreateBatch массовая вставка слотов через COPY
func (r *PgSlotRepository) CreateBatch(ctx context.Context, slots []*model.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	now := time.Now()
	copied, err := r.DB().CopyFrom(
		ctx,
		pgx.Identifier{"availability_slots"},
		[]string{"availability_frame_id", "start_time", "end_time", "status", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(slots), func(i int) ([]any, error) {
			s := slots[i]
			return []any{s.FrameID, s.StartTime, s.EndTime, string(s.Status), now, now}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy slots: %w", err)
	}
	return copied, nil
}

// GetByID получает слот по ID
func (r *PgSlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return slot, nil
}

// LockByID получает слот с FOR UPDATE
func (r *PgSlotRepository) LockByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1 FOR UPDATE`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock slot: %w", err)
	}
	return slot, nil
}

// ListByFrame слоты окна по времени начала
func (r *PgSlotRepository) ListByFrame(ctx context.Context, frameID int64) ([]*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots
		WHERE availability_frame_id = $1
		ORDER BY start_time`
	return r.list(ctx, "list slots by frame", query, frameID)
}

// ListByFrames слоты нескольких окон
func (r *PgSlotRepository) ListByFrames(ctx context.Context, frameIDs []int64) ([]*model.Slot, error) {
	if len(frameIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + slotColumns + ` FROM availability_slots
		WHERE availability_frame_id = ANY($1)
		ORDER BY availability_frame_id, start_time`
	return r.list(ctx, "list slots by frames", query, frameIDs)
}

const updateSlotQuery = `
	UPDATE availability_slots
	SET start_time = $1, end_time = $2, status = $3, updated_at = NOW()
	WHERE id = $4
	RETURNING updated_at
`

// Update сохраняет время и статус слота
func (r *PgSlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	err := r.QueryRow(ctx, updateSlotQuery, slot.StartTime, slot.EndTime, slot.Status, slot.ID).Scan(&slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	return nil
}

// UpdateBatch сохраняет несколько слотов одним пакетом
func (r *PgSlotRepository) UpdateBatch(ctx context.Context, slots []*model.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, slot := range slots {
		batch.Queue(updateSlotQuery, slot.StartTime, slot.EndTime, slot.Status, slot.ID).QueryRow(func(row pgx.Row) error {
			return row.Scan(&slot.UpdatedAt)
		})
	}

	if err := r.DB().SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("update slots batch: %w", err)
	}
	return nil
}

// UpdateStatus обновляет статус слота
func (r *PgSlotRepository) UpdateStatus(ctx context.Context, id int64, status model.SlotStatus) error {
	query := `
		UPDATE availability_slots
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update slot status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update slot status: slot %d not found", id)
	}
	return nil
}

// Delete удаляет слот
func (r *PgSlotRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM availability_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (r *PgSlotRepository) DeleteUnbookedByFrame(ctx context.Context, frameID int64) (int64, error) {
	query := `
		DELETE FROM availability_slots s
		WHERE s.availability_frame_id = $1
			AND NOT EXISTS (SELECT 1 FROM appointments a WHERE a.availability_slot_id = s.id)
	`
	affected, err := r.ExecAffected(ctx, query, frameID)
	if err != nil {
		return 0, fmt.Errorf("delete unbooked slots: %w", err)
	}
	return affected, nil
}
