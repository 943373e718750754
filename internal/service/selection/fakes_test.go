package selection

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
	"github.com/m04kA/SMC-SpaBooking/internal/service/availability"
	"github.com/m04kA/SMC-SpaBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SpaBooking/pkg/logger"
)

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type noopMetrics struct {
	mu         sync.Mutex
	superseded map[string]int
}

func (m *noopMetrics) ObserveSupersededFetch(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.superseded == nil {
		m.superseded = make(map[string]int)
	}
	m.superseded[stage]++
}

func (m *noopMetrics) ObserveDroppedRecord(string) {}

// fakeCatalog отдаёт фиксированный каталог; загрузка услуг центра может быть заблокирована
type fakeCatalog struct {
	mu sync.Mutex

	centers    []domain.Center
	treatments map[string][]domain.Treatment // по центру
	addons     map[string][]domain.Addon     // по услуге
	therapists map[string][]domain.Therapist // по услуге
	slotDates  []domain.RawScheduleDate
	timeSlots  []domain.RawLocation

	calls        map[string]int
	slotQueries  []spaapi.SlotQuery
	addonQueries [][]string

	// treatmentsGate блокирует FetchTreatments для центра до закрытия канала
	treatmentsGate map[string]chan struct{}
	// honorContext выходит из блокировки по отмене контекста
	honorContext bool
	entered      chan string
	fetchErr     error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		centers: []domain.Center{
			{ID: "c1", Name: "Downtown", Bookable: true},
			{ID: "c2", Name: "Uptown", Bookable: true},
		},
		treatments: map[string][]domain.Treatment{
			"c1": {{ID: "t1", CenterID: "c1", Name: "Swedish", DurationMinutes: 60}, {ID: "t2", CenterID: "c1", Name: "Facial", DurationMinutes: 45}},
			"c2": {{ID: "t3", CenterID: "c2", Name: "Hot Stone", DurationMinutes: 90}},
		},
		addons: map[string][]domain.Addon{
			"t1": {{ID: "a1", Name: "Aromatherapy"}, {ID: "a2", Name: "Scalp"}},
			"t2": {{ID: "a3", Name: "Mask"}},
			"t3": {},
		},
		therapists: map[string][]domain.Therapist{
			"t1": {{ID: "th1", Name: "Anna"}, {ID: "th2", Name: "Boris"}},
			"t2": {{ID: "th3", Name: "Clara"}},
			"t3": {{ID: "th1", Name: "Anna"}},
		},
		slotDates: []domain.RawScheduleDate{
			{Date: "2024-05-01", Locations: []domain.RawLocation{{ID: "l1", Therapists: []domain.RawTherapistSlots{{TherapistID: "th1", Times: []string{"08:00", "10:00"}}}}}},
			{Date: "2024-05-02", Locations: []domain.RawLocation{{ID: "l1", Therapists: []domain.RawTherapistSlots{{TherapistID: "th1", Times: []string{"08:00"}}}}}},
		},
		timeSlots: []domain.RawLocation{
			{ID: "l1", Name: "Main", Therapists: []domain.RawTherapistSlots{
				{TherapistID: "th1", TherapistName: "Anna", Times: []string{"10:00", "14:15"}},
				{TherapistID: "th2", TherapistName: "Boris", Times: []string{"11:00"}},
			}},
		},
		calls:          make(map[string]int),
		treatmentsGate: make(map[string]chan struct{}),
		entered:        make(chan string, 8),
	}
}

func (f *fakeCatalog) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCatalog) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.fetchErr
}

func (f *fakeCatalog) FetchCenters(_ context.Context) ([]domain.Center, error) {
	if err := f.record("centers"); err != nil {
		return nil, err
	}
	return f.centers, nil
}

func (f *fakeCatalog) FetchTreatments(ctx context.Context, centerID string) ([]domain.Treatment, error) {
	if err := f.record("treatments"); err != nil {
		return nil, err
	}

	f.mu.Lock()
	gate := f.treatmentsGate[centerID]
	f.mu.Unlock()

	if gate != nil {
		f.entered <- centerID
		if f.honorContext {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			<-gate
		}
	}
	return f.treatments[centerID], nil
}

func (f *fakeCatalog) FetchAddons(_ context.Context, _, treatmentID string) ([]domain.Addon, error) {
	if err := f.record("addons"); err != nil {
		return nil, err
	}
	return f.addons[treatmentID], nil
}

func (f *fakeCatalog) FetchTherapists(_ context.Context, _, treatmentID string, addonIDs []string) ([]domain.Therapist, error) {
	if err := f.record("therapists"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.addonQueries = append(f.addonQueries, addonIDs)
	f.mu.Unlock()
	return f.therapists[treatmentID], nil
}

func (f *fakeCatalog) FetchSlotDates(_ context.Context, q spaapi.SlotQuery) ([]domain.RawScheduleDate, error) {
	if err := f.record("slot_dates"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.slotQueries = append(f.slotQueries, q)
	f.mu.Unlock()
	return f.slotDates, nil
}

func (f *fakeCatalog) FetchTimeSlots(_ context.Context, _ spaapi.SlotQuery, _ time.Time) ([]domain.RawLocation, error) {
	if err := f.record("time_slots"); err != nil {
		return nil, err
	}
	return f.timeSlots, nil
}

type fakeBooker struct {
	requests []*create_booking.Request
	err      error
}

func (f *fakeBooker) Execute(_ context.Context, req *create_booking.Request) (*create_booking.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &create_booking.Response{Appointment: &domain.Appointment{ID: "a-100", CustomerID: req.CustomerID}, Stored: true}, nil
}

type fakeCarryover struct {
	selections map[string]domain.Selection
}

func (f *fakeCarryover) Take(customerID string) (domain.Selection, bool) {
	sel, ok := f.selections[customerID]
	delete(f.selections, customerID)
	return sel, ok
}

func newTestController(catalog *fakeCatalog, booker *fakeBooker) (*Controller, *noopMetrics) {
	m := &noopMetrics{}
	log := logger.NewNop()
	c := NewController("cust-1", catalog, availability.NewAggregator(time.UTC, m, log), booker, m, time.UTC, log)
	c.timeProvider = fixedTime{now: testNow}
	return c, m
}
