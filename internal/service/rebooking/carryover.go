package rebooking

import (
	"sync"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// Carryover хранит предзаполненный выбор для повторной записи.
// Выбор выдаётся один раз: Take удаляет его, чтобы следующая сессия начиналась с чистого листа.
type Carryover struct {
	mu        sync.Mutex
	snapshots map[string]domain.Selection
}

// NewCarryover создает пустое хранилище
func NewCarryover() *Carryover {
	return &Carryover{
		snapshots: make(map[string]domain.Selection),
	}
}

// SnapshotForRebooking строит выбор из прошлой записи: центр, услуга, доп. услуги,
// мастер (одним элементом, если был назначен) и текст заметки
func SnapshotForRebooking(appointment *domain.Appointment) domain.Selection {
	sel := domain.Selection{
		Center: &domain.Center{
			ID:   appointment.CenterID,
			Name: appointment.CenterName,
		},
		Treatment: &domain.Treatment{
			ID:       appointment.TreatmentID,
			CenterID: appointment.CenterID,
			Name:     appointment.TreatmentName,
		},
		Addons:     domain.Unset[domain.Addon](),
		Therapists: domain.Unset[domain.Therapist](),
		Notes:      appointment.Note,
	}

	if len(appointment.AddonIDs) > 0 {
		addons := make([]domain.Addon, 0, len(appointment.AddonIDs))
		for _, id := range appointment.AddonIDs {
			addons = append(addons, domain.Addon{ID: id})
		}
		sel.Addons = domain.Selected(addons...)
	}

	if appointment.TherapistID != "" {
		sel.Therapists = domain.Selected(domain.Therapist{
			ID:   appointment.TherapistID,
			Name: appointment.TherapistName,
		})
	}

	return sel
}

// Put сохраняет выбор для повторной записи, заменяя предыдущий
func (c *Carryover) Put(customerID string, appointment *domain.Appointment) domain.Selection {
	sel := SnapshotForRebooking(appointment)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[customerID] = sel
	return sel
}

// Take возвращает сохранённый выбор и удаляет его
func (c *Carryover) Take(customerID string) (domain.Selection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sel, ok := c.snapshots[customerID]
	if ok {
		delete(c.snapshots, customerID)
	}
	return sel, ok
}
