package state

import (
	"sync"
	"time"
)

// DefaultTTL время жизни диалога без ответов
const DefaultTTL = 30 * time.Minute

// Manager хранит по одному диалогу записи на чат. Диалог без ответов дольше ttl считается брошенным.
type Manager struct {
	mu      sync.Mutex
	dialogs map[int64]*dialog
	ttl     time.Duration
	now     func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		dialogs: make(map[int64]*dialog),
		ttl:     ttl,
		now:     time.Now,
	}
}

// active диалог чата; просроченный удаляется. Вызывать под mu.
func (m *Manager) active(chatID int64) *dialog {
	d, ok := m.dialogs[chatID]
	if !ok {
		return nil
	}
	if m.now().Sub(d.touchedAt) > m.ttl {
		delete(m.dialogs, chatID)
		return nil
	}
	return d
}

// Begin начинает запись на слот, предыдущий диалог чата отбрасывается
func (m *Manager) Begin(chatID, staffID, slotID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dialogs[chatID] = &dialog{
		step:      StepName,
		draft:     BookingDraft{StaffID: staffID, SlotID: slotID},
		touchedAt: m.now(),
	}
}

func (m *Manager) Step(chatID int64) Step {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d := m.active(chatID); d != nil {
		return d.step
	}
	return StepNone
}

// Advance применяет ответ к черновику, если диалог всё ещё на шаге from, и переходит дальше.
// На последнем шаге диалог снимается и возвращается итоговый черновик.
func (m *Manager) Advance(chatID int64, from Step, apply func(*BookingDraft)) (Step, BookingDraft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.active(chatID)
	if d == nil || d.step != from {
		return StepNone, BookingDraft{}, false
	}

	if apply != nil {
		apply(&d.draft)
	}
	d.step = from.Next()
	d.touchedAt = m.now()

	if d.step == StepNone {
		delete(m.dialogs, chatID)
	}
	return d.step, d.draft, true
}

func (m *Manager) Draft(chatID int64) (BookingDraft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d := m.active(chatID); d != nil {
		return d.draft, true
	}
	return BookingDraft{}, false
}

// Clear отменяет диалог. Возвращает false, если активного диалога не было.
func (m *Manager) Clear(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.active(chatID)
	delete(m.dialogs, chatID)
	return d != nil
}
