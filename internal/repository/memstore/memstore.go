// Package memstore хранилище в памяти с той же семантикой, что и PostgreSQL-реализация.
// Транзакции выполняются строго последовательно над копией состояния
// и применяются целиком только при успехе.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/google/uuid"
)

type state struct {
	frames       map[int64]*model.Frame
	slots        map[int64]*model.Slot
	appointments map[int64]*model.Appointment
	staff        map[int64]*model.Staff

	frameSeq       int64
	slotSeq        int64
	appointmentSeq int64
}

func newState() *state {
	return &state{
		frames:       make(map[int64]*model.Frame),
		slots:        make(map[int64]*model.Slot),
		appointments: make(map[int64]*model.Appointment),
		staff:        make(map[int64]*model.Staff),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, f := range s.frames {
		c.frames[id] = f.Clone()
	}
	for id, sl := range s.slots {
		c.slots[id] = copySlot(sl)
	}
	for id, a := range s.appointments {
		c.appointments[id] = copyAppointment(a)
	}
	for id, st := range s.staff {
		cp := *st
		c.staff[id] = &cp
	}
	c.frameSeq, c.slotSeq, c.appointmentSeq = s.frameSeq, s.slotSeq, s.appointmentSeq
	return c
}

func copySlot(s *model.Slot) *model.Slot {
	c := *s
	return &c
}

func copyAppointment(a *model.Appointment) *model.Appointment {
	c := *a
	c.Slot, c.Frame = nil, nil
	if a.StudentName != nil {
		name := *a.StudentName
		c.StudentName = &name
	}
	return &c
}

// runner выполняет операцию над состоянием
type runner func(fn func(st *state) error) error

// Store реализация repository.UnitOfWork в памяти
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

var _ repository.UnitOfWork = (*Store)(nil)

func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// AddStaff добавляет сотрудника, управление сотрудниками вне сервиса
func (s *Store) AddStaff(staff *model.Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *staff
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
	}
	s.st.staff[cp.ID] = &cp
}

func (s *Store) direct(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) Frames() repository.FrameRepository { return &frames{run: s.direct, now: s.now} }
func (s *Store) Slots() repository.SlotRepository   { return &slots{run: s.direct, now: s.now} }
func (s *Store) Appointments() repository.AppointmentRepository {
	return &appointments{run: s.direct, now: s.now}
}
func (s *Store) Staff() repository.StaffRepository { return &staff{run: s.direct} }

// WithinTx держит блокировку всё время транзакции
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	work := s.st.clone()
	if err := fn(ctx, &txStore{st: work, now: s.now}); err != nil {
		return err
	}

	s.st = work
	return nil
}

type txStore struct {
	st  *state
	now func() time.Time
}

func (t *txStore) run(fn func(st *state) error) error { return fn(t.st) }

func (t *txStore) Frames() repository.FrameRepository { return &frames{run: t.run, now: t.now} }
func (t *txStore) Slots() repository.SlotRepository   { return &slots{run: t.run, now: t.now} }
func (t *txStore) Appointments() repository.AppointmentRepository {
	return &appointments{run: t.run, now: t.now}
}
func (t *txStore) Staff() repository.StaffRepository { return &staff{run: t.run} }

// frames

type frames struct {
	run runner
	now func() time.Time
}

func insertFrame(st *state, f *model.Frame, now time.Time) {
	st.frameSeq++
	f.ID = st.frameSeq
	f.CreatedAt, f.UpdatedAt = now, now
	st.frames[f.ID] = f.Clone()
}

func (r *frames) Create(_ context.Context, frame *model.Frame) error {
	return r.run(func(st *state) error {
		insertFrame(st, frame, r.now())
		return nil
	})
}

func (r *frames) CreateBatch(_ context.Context, list []*model.Frame) error {
	return r.run(func(st *state) error {
		now := r.now()
		for _, f := range list {
			insertFrame(st, f, now)
		}
		return nil
	})
}

func (r *frames) GetByID(_ context.Context, id int64) (*model.Frame, error) {
	var out *model.Frame
	err := r.run(func(st *state) error {
		if f, ok := st.frames[id]; ok {
			out = f.Clone()
		}
		return nil
	})
	return out, err
}

func (r *frames) filter(keep func(f *model.Frame) bool) ([]*model.Frame, error) {
	var out []*model.Frame
	err := r.run(func(st *state) error {
		for _, f := range st.frames {
			if keep(f) {
				out = append(out, f.Clone())
			}
		}
		return nil
	})
	slices.SortFunc(out, compareFrames)
	return out, err
}

// compareFrames порядок как ORDER BY date NULLS FIRST, start_time, id
func compareFrames(a, b *model.Frame) int {
	switch {
	case a.Date == nil && b.Date != nil:
		return -1
	case a.Date != nil && b.Date == nil:
		return 1
	case a.Date != nil && b.Date != nil && !a.Date.Equal(*b.Date):
		return a.Date.Compare(*b.Date)
	case a.StartTime != b.StartTime:
		return int(a.StartTime - b.StartTime)
	default:
		return int(a.ID - b.ID)
	}
}

func (r *frames) ListByStaff(_ context.Context, staffID int64) ([]*model.Frame, error) {
	return r.filter(func(f *model.Frame) bool { return f.StaffID == staffID })
}

func (r *frames) ListByStaffAndDate(_ context.Context, staffID int64, date time.Time) ([]*model.Frame, error) {
	return r.filter(func(f *model.Frame) bool {
		return f.StaffID == staffID && f.Date != nil && timerange.SameDate(*f.Date, date)
	})
}

func (r *frames) ListPublicByStaff(_ context.Context, staffID int64, from time.Time) ([]*model.Frame, error) {
	from = timerange.DateOf(from)
	return r.filter(func(f *model.Frame) bool {
		return f.StaffID == staffID && f.IsActive() && f.IsPublic() && f.Date != nil && !f.Date.Before(from)
	})
}

func (r *frames) ListByRepeatGroup(_ context.Context, groupID uuid.UUID) ([]*model.Frame, error) {
	return r.filter(func(f *model.Frame) bool { return inGroup(f, groupID) })
}

func inGroup(f *model.Frame, groupID uuid.UUID) bool {
	return f.RepeatGroupID != nil && *f.RepeatGroupID == groupID
}

func (r *frames) Update(_ context.Context, frame *model.Frame) error {
	return r.run(func(st *state) error {
		if _, ok := st.frames[frame.ID]; !ok {
			return fmt.Errorf("update frame %d: no rows", frame.ID)
		}
		frame.UpdatedAt = r.now()
		st.frames[frame.ID] = frame.Clone()
		return nil
	})
}

// deleteFrame каскадно удаляет слоты и записи
func deleteFrame(st *state, id int64) {
	delete(st.frames, id)
	for sid, s := range st.slots {
		if s.FrameID == id {
			deleteSlot(st, sid)
		}
	}
}

func deleteSlot(st *state, id int64) {
	delete(st.slots, id)
	for aid, a := range st.appointments {
		if a.SlotID == id {
			delete(st.appointments, aid)
		}
	}
}

func (r *frames) Delete(_ context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.run(func(st *state) error {
		if _, ok := st.frames[id]; ok {
			deleteFrame(st, id)
			deleted = true
		}
		return nil
	})
	return deleted, err
}

func (r *frames) deleteWhere(match func(f *model.Frame) bool) (int64, error) {
	var count int64
	err := r.run(func(st *state) error {
		for id, f := range st.frames {
			if match(f) {
				deleteFrame(st, id)
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *frames) DeleteByRepeatGroup(_ context.Context, groupID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(f *model.Frame) bool { return inGroup(f, groupID) })
}

func (r *frames) DeleteGroupAfter(_ context.Context, groupID uuid.UUID, after time.Time, exclude int64) (int64, error) {
	return r.deleteWhere(func(f *model.Frame) bool {
		return inGroup(f, groupID) && f.ID != exclude && f.Date != nil && f.Date.After(after)
	})
}

func (r *frames) DetachGroup(_ context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.run(func(st *state) error {
		now := r.now()
		for _, f := range st.frames {
			if inGroup(f, groupID) {
				f.Detach()
				f.UpdatedAt = now
				count++
			}
		}
		return nil
	})
	return count, err
}

// slots

type slots struct {
	run runner
	now func() time.Time
}

func insertSlot(st *state, s *model.Slot, now time.Time) error {
	if _, ok := st.frames[s.FrameID]; !ok {
		return fmt.Errorf("create slot: frame %d does not exist", s.FrameID)
	}
	st.slotSeq++
	s.ID = st.slotSeq
	s.CreatedAt, s.UpdatedAt = now, now
	st.slots[s.ID] = copySlot(s)
	return nil
}

func (r *slots) Create(_ context.Context, slot *model.Slot) error {
	return r.run(func(st *state) error {
		return insertSlot(st, slot, r.now())
	})
}

func (r *slots) CreateBatch(_ context.Context, list []*model.Slot) (int64, error) {
	var count int64
	err := r.run(func(st *state) error {
		now := r.now()
		for _, s := range list {
			// COPY не возвращает ID, поэтому вставляется копия
			if err := insertSlot(st, copySlot(s), now); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

func (r *slots) GetByID(_ context.Context, id int64) (*model.Slot, error) {
	var out *model.Slot
	err := r.run(func(st *state) error {
		if s, ok := st.slots[id]; ok {
			out = copySlot(s)
		}
		return nil
	})
	return out, err
}

func (r *slots) LockByID(ctx context.Context, id int64) (*model.Slot, error) {
	return r.GetByID(ctx, id)
}

func (r *slots) filter(keep func(s *model.Slot) bool) ([]*model.Slot, error) {
	var out []*model.Slot
	err := r.run(func(st *state) error {
		for _, s := range st.slots {
			if keep(s) {
				out = append(out, copySlot(s))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *model.Slot) int {
		if a.FrameID != b.FrameID {
			return int(a.FrameID - b.FrameID)
		}
		if a.StartTime != b.StartTime {
			return int(a.StartTime - b.StartTime)
		}
		return int(a.ID - b.ID)
	})
	return out, err
}

func (r *slots) ListByFrame(_ context.Context, frameID int64) ([]*model.Slot, error) {
	return r.filter(func(s *model.Slot) bool { return s.FrameID == frameID })
}

func (r *slots) ListByFrames(_ context.Context, frameIDs []int64) ([]*model.Slot, error) {
	if len(frameIDs) == 0 {
		return nil, nil
	}
	return r.filter(func(s *model.Slot) bool { return slices.Contains(frameIDs, s.FrameID) })
}

func updateSlot(st *state, slot *model.Slot, now time.Time) error {
	cur, ok := st.slots[slot.ID]
	if !ok {
		return fmt.Errorf("update slot %d: no rows", slot.ID)
	}
	cur.StartTime, cur.EndTime, cur.Status = slot.StartTime, slot.EndTime, slot.Status
	cur.UpdatedAt = now
	slot.UpdatedAt = now
	return nil
}

func (r *slots) Update(_ context.Context, slot *model.Slot) error {
	return r.run(func(st *state) error {
		return updateSlot(st, slot, r.now())
	})
}

func (r *slots) UpdateBatch(_ context.Context, list []*model.Slot) error {
	return r.run(func(st *state) error {
		now := r.now()
		for _, s := range list {
			if err := updateSlot(st, s, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *slots) UpdateStatus(_ context.Context, id int64, status model.SlotStatus) error {
	return r.run(func(st *state) error {
		s, ok := st.slots[id]
		if !ok {
			return fmt.Errorf("update slot status: slot %d not found", id)
		}
		s.Status = status
		s.UpdatedAt = r.now()
		return nil
	})
}

func (r *slots) Delete(_ context.Context, id int64) error {
	return r.run(func(st *state) error {
		deleteSlot(st, id)
		return nil
	})
}

func (r *slots) DeleteUnbookedByFrame(_ context.Context, frameID int64) (int64, error) {
	var count int64
	err := r.run(func(st *state) error {
		for id, s := range st.slots {
			if s.FrameID == frameID && !slotHasAppointment(st, id) {
				delete(st.slots, id)
				count++
			}
		}
		return nil
	})
	return count, err
}

func slotHasAppointment(st *state, slotID int64) bool {
	for _, a := range st.appointments {
		if a.SlotID == slotID {
			return true
		}
	}
	return false
}

// appointments

type appointments struct {
	run runner
	now func() time.Time
}

// activeTaken эмулирует частичный уникальный индекс по неотменённым записям
func activeTaken(st *state, a *model.Appointment) bool {
	if !a.Status.HoldsSlot() {
		return false
	}
	for _, other := range st.appointments {
		if other.ID != a.ID && other.SlotID == a.SlotID && other.Status.HoldsSlot() {
			return true
		}
	}
	return false
}

func (r *appointments) Create(_ context.Context, a *model.Appointment) error {
	return r.run(func(st *state) error {
		if _, ok := st.slots[a.SlotID]; !ok {
			return fmt.Errorf("create appointment: slot %d does not exist", a.SlotID)
		}
		if activeTaken(st, a) {
			return apperrors.ErrSlotUnavailable
		}
		now := r.now()
		st.appointmentSeq++
		a.ID = st.appointmentSeq
		a.CreatedAt, a.UpdatedAt = now, now
		st.appointments[a.ID] = copyAppointment(a)
		return nil
	})
}

func (r *appointments) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	var out *model.Appointment
	err := r.run(func(st *state) error {
		if a, ok := st.appointments[id]; ok {
			out = copyAppointment(a)
		}
		return nil
	})
	return out, err
}

func (r *appointments) ListByStaff(_ context.Context, staffID int64) ([]*model.Appointment, error) {
	var out []*model.Appointment
	err := r.run(func(st *state) error {
		for _, a := range st.appointments {
			if a.StaffID == staffID {
				out = append(out, copyAppointment(a))
			}
		}
		return nil
	})
	// created_at DESC, id DESC
	slices.SortFunc(out, func(a, b *model.Appointment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	return out, err
}

func (r *appointments) Update(_ context.Context, a *model.Appointment) error {
	return r.run(func(st *state) error {
		cur, ok := st.appointments[a.ID]
		if !ok {
			return fmt.Errorf("update appointment %d: no rows", a.ID)
		}
		if activeTaken(st, a) {
			return apperrors.ErrSlotUnavailable
		}
		cur.VisitorName = a.VisitorName
		cur.StudentName = a.StudentName
		cur.PhoneNumber = a.PhoneNumber
		cur.Email = a.Email
		cur.Purpose = a.Purpose
		cur.Status = a.Status
		cur.UpdatedAt = r.now()
		a.UpdatedAt = cur.UpdatedAt
		return nil
	})
}

func (r *appointments) Delete(_ context.Context, id int64) error {
	return r.run(func(st *state) error {
		delete(st.appointments, id)
		return nil
	})
}

func (r *appointments) ExistsForSlot(_ context.Context, slotID int64) (bool, error) {
	var exists bool
	err := r.run(func(st *state) error {
		exists = slotHasAppointment(st, slotID)
		return nil
	})
	return exists, err
}

// staff

type staff struct {
	run runner
}

func (r *staff) GetByID(_ context.Context, id int64) (*model.Staff, error) {
	var out *model.Staff
	err := r.run(func(st *state) error {
		if s, ok := st.staff[id]; ok {
			cp := *s
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *staff) Lock(ctx context.Context, id int64) (*model.Staff, error) {
	return r.GetByID(ctx, id)
}
