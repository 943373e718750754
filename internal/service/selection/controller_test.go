package selection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
	"github.com/m04kA/SMC-SpaBooking/pkg/types"
)

// selectThroughDate проходит каскад до выбора даты 2024-05-02
func selectThroughDate(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.SetCenter(ctx, "c1"))
	require.NoError(t, c.SetTreatment(ctx, "t1"))
	require.NoError(t, c.SetAddons(ctx, domain.Selected(domain.Addon{ID: "a1"})))
	require.NoError(t, c.SetTherapists(ctx, domain.Selected(domain.Therapist{ID: "th1"})))
	require.NoError(t, c.SetDate(ctx, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
}

func TestController_SetCenterClearsDownstream(t *testing.T) {
	catalog := newFakeCatalog()
	c, _ := newTestController(catalog, &fakeBooker{})
	ctx := context.Background()

	selectThroughDate(t, c)
	require.NoError(t, c.SetTimeSlot("l1", "th1", types.MustParseTimeSlot("14:15")))

	require.NoError(t, c.SetCenter(ctx, "c2"))

	state := c.Snapshot()
	require.NotNil(t, state.Selection.Center)
	assert.Equal(t, "c2", state.Selection.Center.ID)
	assert.Nil(t, state.Selection.Treatment)
	assert.Equal(t, domain.ChoiceUnset, state.Selection.Addons.Kind())
	assert.Empty(t, state.Selection.Addons.Items())
	assert.Equal(t, domain.ChoiceUnset, state.Selection.Therapists.Kind())
	assert.Empty(t, state.Selection.Therapists.Items())
	assert.Nil(t, state.Selection.TimeSlot)
	assert.Nil(t, state.Selection.Therapist)

	// зависимые списки перезагружены для нового центра
	assert.Equal(t, []string{"t3"}, treatmentIDs(state.Treatments))
	assert.Nil(t, state.Addons)
	assert.Nil(t, state.Therapists)
	assert.Nil(t, state.SlotDates)
	assert.Nil(t, state.TimeSlots)
}

func TestController_SetTreatmentClearsAddonsAndTherapists(t *testing.T) {
	catalog := newFakeCatalog()
	c, _ := newTestController(catalog, &fakeBooker{})
	ctx := context.Background()

	selectThroughDate(t, c)
	require.NoError(t, c.SetTreatment(ctx, "t2"))

	state := c.Snapshot()
	assert.Equal(t, "t2", state.Selection.Treatment.ID)
	assert.False(t, state.Selection.Addons.IsDecided())
	assert.False(t, state.Selection.Therapists.IsDecided())
	// дата сохраняется, слоты на неё перезагружены
	require.NotNil(t, state.Selection.Date)
	assert.NotNil(t, state.TimeSlots)
	assert.Equal(t, []domain.Addon{{ID: "a3", Name: "Mask"}}, state.Addons)
	assert.Equal(t, []domain.Therapist{{ID: "th3", Name: "Clara"}}, state.Therapists)
}

func TestController_SetAddonsClearsTherapistsAndRefetches(t *testing.T) {
	catalog := newFakeCatalog()
	c, _ := newTestController(catalog, &fakeBooker{})
	ctx := context.Background()

	require.NoError(t, c.SetCenter(ctx, "c1"))
	require.NoError(t, c.SetTreatment(ctx, "t1"))
	require.NoError(t, c.SetTherapists(ctx, domain.Selected(domain.Therapist{ID: "th2"})))
	require.NoError(t, c.SetAddons(ctx, domain.Selected(domain.Addon{ID: "a1"}, domain.Addon{ID: "a2"})))

	state := c.Snapshot()
	assert.False(t, state.Selection.Therapists.IsDecided())
	assert.Equal(t, []domain.Addon{{ID: "a1", Name: "Aromatherapy"}, {ID: "a2", Name: "Scalp"}}, state.Selection.Addons.Items())

	catalog.mu.Lock()
	lastAddons := catalog.addonQueries[len(catalog.addonQueries)-1]
	lastSlots := catalog.slotQueries[len(catalog.slotQueries)-1]
	catalog.mu.Unlock()
	assert.Equal(t, []string{"a1", "a2"}, lastAddons)
	assert.Equal(t, []string{"a1", "a2"}, lastSlots.AddonIDs)
	assert.Empty(t, lastSlots.TherapistIDs)
}

func TestController_NoPreferenceIsDistinctFromUnset(t *testing.T) {
	catalog := newFakeCatalog()
	c, _ := newTestController(catalog, &fakeBooker{})
	ctx := context.Background()

	require.NoError(t, c.SetCenter(ctx, "c1"))
	require.NoError(t, c.SetTreatment(ctx, "t1"))
	require.NoError(t, c.SetAddons(ctx, domain.NoPreference[domain.Addon]()))

	state := c.Snapshot()
	assert.Equal(t, domain.ChoiceNoPreference, state.Selection.Addons.Kind())
	assert.True(t, state.Selection.Addons.IsDecided())
	assert.Equal(t, domain.ChoiceUnset, state.Selection.Therapists.Kind())
}

func TestController_SetDateFetchesOnlyTimeSlots(t *testing.T) {
	catalog := newFakeCatalog()
	c, _ := newTestController(catalog, &fakeBooker{})
	ctx := context.Background()

	require.NoError(t, c.SetCenter(ctx, "c1"))
	require.NoError(t, c.SetTreatment(ctx, "t1"))

	before := map[string]int{
		"treatments": catalog.count("treatments"),
		"addons":     catalog.count("addons"),
		"therapists": catalog.count("therapists"),
		"slot_dates": catalog.count("slot_dates"),
	}
	require.NoError(t, c.SetDate(ctx, time.Date(2024, 5, 2, 15, 30, 0, 0, time.UTC)))

	for name, n := range before {
		assert.Equal(t, n, catalog.count(name), name)
	}
	assert.Equal(t, 1, catalog.count("time_slots"))

	state := c.Snapshot()
	assert.Equal(t, "t1", state.Selection.Treatment.ID)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), *state.Selection.Date)
	require.NotNil(t, state.TimeSlots)
	assert.Len(t, state.TimeSlots.Locations, 1)
	assert.NotEmpty(t, state.SlotDates)
}

func TestController_SetDateRejectsPast(t *testing.T) {
	c, _ := newTestController(newFakeCatalog(), &fakeBooker{})
	ctx := context.Background()

	require.NoError(t, c.SetCenter(ctx, "c1"))
	require.NoError(t, c.SetTreatment(ctx, "t1"))

	err := c.SetDate(ctx, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestController_OutOfOrderAndUnknownOptions(t *testing.T) {
	c, _ := newTestController(newFakeCatalog(), &fakeBooker{})
	ctx := context.Background()

	assert.ErrorIs(t, c.SetTreatment(ctx, "t1"), ErrOutOfOrder)
	assert.ErrorIs(t, c.SetCenter(ctx, "missing"), ErrUnknownOption)

	require.NoError(t, c.SetCenter(ctx, "c1"))
	assert.ErrorIs(t, c.SetAddons(ctx, domain.NoPreference[domain.Addon]()), ErrOutOfOrder)
	assert.ErrorIs(t, c.SetTreatment(ctx, "t3"), ErrUnknownOption)

	require.NoError(t, c.SetTreatment(ctx, "t1"))
	assert.ErrorIs(t, c.SetAddons(ctx, domain.Selected(domain.Addon{ID: "a3"})), ErrUnknownOption)
	assert.ErrorIs(t, c.SetTimeSlot("l1", "th1", types.MustParseTimeSlot("10:00")), ErrOutOfOrder)
}

func TestController_SetTimeSlotValidatesAgainstLoadedSlots(t *testing.T) {
	c, _ := newTestController(newFakeCatalog(), &fakeBooker{})
	selectThroughDate(t, c)

	assert.ErrorIs(t, c.SetTimeSlot("l2", "th1", types.MustParseTimeSlot("10:00")), ErrUnknownOption)
	assert.ErrorIs(t, c.SetTimeSlot("l1", "th2", types.MustParseTimeSlot("10:00")), ErrUnknownOption)
	assert.False(t, c.IsReadyToSubmit())

	require.NoError(t, c.SetTimeSlot("l1", "th2", types.MustParseTimeSlot("11:00")))
	assert.True(t, c.IsReadyToSubmit())

	state := c.Snapshot()
	assert.Equal(t, "Boris", state.Selection.Therapist.Name)
	assert.Equal(t, "l1", state.Selection.LocationID)
}

func TestController_StaleFetchIsDiscarded(t *testing.T) {
	catalog := newFakeCatalog()
	gate := make(chan struct{})
	catalog.treatmentsGate["c1"] = gate

	c, m := newTestController(catalog, &fakeBooker{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- c.SetCenter(ctx, "c1")
	}()
	require.Equal(t, "c1", <-catalog.entered)

	// более позднее изменение завершается раньше
	require.NoError(t, c.SetCenter(ctx, "c2"))
	close(gate)

	assert.ErrorIs(t, <-done, ErrSuperseded)

	state := c.Snapshot()
	assert.Equal(t, "c2", state.Selection.Center.ID)
	assert.Equal(t, []string{"t3"}, treatmentIDs(state.Treatments))

	m.mu.Lock()
	assert.Equal(t, 1, m.superseded["treatments"])
	m.mu.Unlock()
}

func TestController_NewerChangeCancelsInflightFetch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.honorContext = true
	catalog.treatmentsGate["c1"] = make(chan struct{}) // никогда не открывается

	c, _ := newTestController(catalog, &fakeBooker{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- c.SetCenter(ctx, "c1")
	}()
	<-catalog.entered

	require.NoError(t, c.SetCenter(ctx, "c2"))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight fetch was not cancelled")
	}
}

func TestController_CloseCancelsInflightFetch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.honorContext = true
	catalog.treatmentsGate["c1"] = make(chan struct{})

	c, _ := newTestController(catalog, &fakeBooker{})

	done := make(chan error, 1)
	go func() {
		done <- c.SetCenter(context.Background(), "c1")
	}()
	<-catalog.entered

	c.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSessionClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight fetch was not cancelled")
	}
	assert.ErrorIs(t, c.SetNotes("late"), ErrSessionClosed)
}

func TestController_FetchErrorSurfaced(t *testing.T) {
	catalog := newFakeCatalog()
	c, _ := newTestController(catalog, &fakeBooker{})
	ctx := context.Background()

	require.NoError(t, c.SetCenter(ctx, "c1"))

	serverErr := &spaapi.ServerError{StatusCode: 503, Message: "Treatment catalogue unavailable"}
	catalog.mu.Lock()
	catalog.fetchErr = serverErr
	catalog.mu.Unlock()

	err := c.SetTreatment(ctx, "t1")
	require.Error(t, err)
	assert.Equal(t, "Treatment catalogue unavailable", err.Error())
	// выбор применён, списки не загружены
	assert.Equal(t, "t1", c.Snapshot().Selection.Treatment.ID)
}

func TestController_SubmitIncompleteNeverSent(t *testing.T) {
	booker := &fakeBooker{}
	c, _ := newTestController(newFakeCatalog(), booker)
	selectThroughDate(t, c)

	_, err := c.Submit(context.Background(), "")
	require.ErrorIs(t, err, ErrIncompleteSelection)
	assert.Contains(t, err.Error(), "time slot")
	assert.Empty(t, booker.requests)
}

func TestController_RejectedSubmitKeepsStoredNotes(t *testing.T) {
	booker := &fakeBooker{err: &spaapi.ServerError{StatusCode: 409, Message: "Slot already taken"}}
	c, _ := newTestController(newFakeCatalog(), booker)
	selectThroughDate(t, c)
	require.NoError(t, c.SetNotes("quiet room"))

	_, err := c.Submit(context.Background(), "hot stones")
	require.ErrorIs(t, err, ErrIncompleteSelection)
	assert.Equal(t, "quiet room", c.Snapshot().Selection.Notes)

	require.NoError(t, c.SetTimeSlot("l1", "th1", types.MustParseTimeSlot("14:15")))
	_, err = c.Submit(context.Background(), "hot stones")
	require.Error(t, err)
	require.Len(t, booker.requests, 1)
	assert.Equal(t, "hot stones", booker.requests[0].Selection.Notes)
	assert.Equal(t, "quiet room", c.Snapshot().Selection.Notes)
}

func TestController_SubmitSuccessResetsSelection(t *testing.T) {
	booker := &fakeBooker{}
	c, _ := newTestController(newFakeCatalog(), booker)
	selectThroughDate(t, c)
	require.NoError(t, c.SetTimeSlot("l1", "th1", types.MustParseTimeSlot("14:15")))

	appointment, err := c.Submit(context.Background(), "please use lavender oil")
	require.NoError(t, err)
	assert.Equal(t, "a-100", appointment.ID)

	require.Len(t, booker.requests, 1)
	req := booker.requests[0]
	assert.Equal(t, "cust-1", req.CustomerID)
	assert.Equal(t, "please use lavender oil", req.Selection.Notes)
	assert.Equal(t, "14:15", req.Selection.TimeSlot.Raw)
	assert.Equal(t, []string{"a1"}, domain.AddonIDs(req.Selection.Addons.Items()))

	state := c.Snapshot()
	assert.Nil(t, state.Selection.Center)
	assert.Nil(t, state.Selection.Treatment)
	assert.Empty(t, state.Selection.Notes)
	assert.False(t, state.Ready)
	assert.Nil(t, state.TimeSlots)
}

func TestController_SubmitServerErrorKeepsSelection(t *testing.T) {
	booker := &fakeBooker{err: &spaapi.ServerError{StatusCode: 409, Message: "Slot already taken"}}
	c, _ := newTestController(newFakeCatalog(), booker)
	selectThroughDate(t, c)
	require.NoError(t, c.SetTimeSlot("l1", "th1", types.MustParseTimeSlot("14:15")))

	_, err := c.Submit(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "Slot already taken", err.Error())

	var serverErr *spaapi.ServerError
	assert.True(t, errors.As(err, &serverErr))
	assert.True(t, c.IsReadyToSubmit())
}

func TestController_NotesTooLong(t *testing.T) {
	c, _ := newTestController(newFakeCatalog(), &fakeBooker{})

	long := make([]rune, domain.MaxNotesLength+1)
	for i := range long {
		long[i] = 'я'
	}
	assert.ErrorIs(t, c.SetNotes(string(long)), ErrNotesTooLong)
	assert.NoError(t, c.SetNotes(string(long[:domain.MaxNotesLength])))
}

func treatmentIDs(treatments []domain.Treatment) []string {
	ids := make([]string, 0, len(treatments))
	for _, t := range treatments {
		ids = append(ids, t.ID)
	}
	return ids
}
