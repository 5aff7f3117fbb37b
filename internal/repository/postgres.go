package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres хранилище поверх пула соединений
type Postgres struct {
	pool *pgxpool.Pool
	store
}

type store struct {
	frames       *PgFrameRepository
	slots        *PgSlotRepository
	appointments *PgAppointmentRepository
	staff        *PgStaffRepository
}

func newStore(db base.DBTX) store {
	return store{
		frames:       NewFrameRepository(db),
		slots:        NewSlotRepository(db),
		appointments: NewAppointmentRepository(db),
		staff:        NewStaffRepository(db),
	}
}

func (s store) Frames() FrameRepository             { return s.frames }
func (s store) Slots() SlotRepository               { return s.slots }
func (s store) Appointments() AppointmentRepository { return s.appointments }
func (s store) Staff() StaffRepository              { return s.staff }

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, store: newStore(pool)}
}

// WithinTx выполняет fn в транзакции READ COMMITTED.
// Сериализация конкурентных изменений обеспечивается блокировками строк (FOR UPDATE).
func (p *Postgres) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, newStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
