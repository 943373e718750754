package selection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/service/availability"
	"github.com/m04kA/SMC-SpaBooking/pkg/logger"
)

func newTestSessions(catalog *fakeCatalog, carryover *fakeCarryover) *Sessions {
	m := &noopMetrics{}
	log := logger.NewNop()
	return NewSessions(catalog, availability.NewAggregator(time.UTC, m, log), &fakeBooker{}, carryover, m, time.UTC, log)
}

func rebookSelection() domain.Selection {
	return domain.Selection{
		Center:     &domain.Center{ID: "c1", Name: "Downtown"},
		Treatment:  &domain.Treatment{ID: "t1", CenterID: "c1", Name: "Swedish"},
		Addons:     domain.Selected(domain.Addon{ID: "a1"}),
		Therapists: domain.Selected(domain.Therapist{ID: "th1"}),
		Notes:      "left shoulder",
	}
}

func TestSessions_CarryoverSeedsSessionOnce(t *testing.T) {
	carryover := &fakeCarryover{selections: map[string]domain.Selection{"cust-1": rebookSelection()}}
	sessions := newTestSessions(newFakeCatalog(), carryover)
	ctx := context.Background()

	c, err := sessions.Start(ctx, "cust-1")
	require.NoError(t, err)

	state := c.Snapshot()
	assert.True(t, state.Carryover)
	assert.Equal(t, "c1", state.Selection.Center.ID)
	// услуга и доп. услуги заменены записями из свежего каталога
	assert.Equal(t, 60, state.Selection.Treatment.DurationMinutes)
	assert.Equal(t, []domain.Addon{{ID: "a1", Name: "Aromatherapy"}}, state.Selection.Addons.Items())
	assert.Equal(t, []domain.Therapist{{ID: "th1", Name: "Anna"}}, state.Selection.Therapists.Items())
	assert.Equal(t, "left shoulder", state.Selection.Notes)
	assert.NotEmpty(t, state.Treatments)
	assert.NotEmpty(t, state.Addons)

	// следующая сессия начинается с чистого выбора
	next, err := sessions.Start(ctx, "cust-1")
	require.NoError(t, err)
	assert.False(t, next.Snapshot().Carryover)
	assert.Nil(t, next.Snapshot().Selection.Center)
}

func TestSessions_SetCenterAfterCarryoverMatchesFreshSession(t *testing.T) {
	ctx := context.Background()

	carryover := &fakeCarryover{selections: map[string]domain.Selection{"cust-1": rebookSelection()}}
	seeded, err := newTestSessions(newFakeCatalog(), carryover).Start(ctx, "cust-1")
	require.NoError(t, err)

	fresh, err := newTestSessions(newFakeCatalog(), &fakeCarryover{}).Start(ctx, "cust-1")
	require.NoError(t, err)

	for _, centerID := range []string{"c1", "c2"} {
		t.Run(centerID, func(t *testing.T) {
			require.NoError(t, seeded.SetCenter(ctx, centerID))
			require.NoError(t, fresh.SetCenter(ctx, centerID))

			assert.Equal(t, fresh.Snapshot(), seeded.Snapshot())
		})
	}
}

func TestSessions_DropsOptionsNoLongerOffered(t *testing.T) {
	sel := rebookSelection()
	sel.Addons = domain.Selected(domain.Addon{ID: "a1"}, domain.Addon{ID: "gone"})
	sel.Therapists = domain.Selected(domain.Therapist{ID: "retired"})

	carryover := &fakeCarryover{selections: map[string]domain.Selection{"cust-1": sel}}
	c, err := newTestSessions(newFakeCatalog(), carryover).Start(context.Background(), "cust-1")
	require.NoError(t, err)

	state := c.Snapshot()
	assert.Equal(t, []string{"a1"}, domain.AddonIDs(state.Selection.Addons.Items()))
	assert.Equal(t, domain.ChoiceUnset, state.Selection.Therapists.Kind())
}

func TestSessions_TreatmentNoLongerOffered(t *testing.T) {
	sel := rebookSelection()
	sel.Treatment = &domain.Treatment{ID: "discontinued"}

	carryover := &fakeCarryover{selections: map[string]domain.Selection{"cust-1": sel}}
	c, err := newTestSessions(newFakeCatalog(), carryover).Start(context.Background(), "cust-1")
	require.NoError(t, err)

	state := c.Snapshot()
	assert.Equal(t, "c1", state.Selection.Center.ID)
	assert.Nil(t, state.Selection.Treatment)
	assert.False(t, state.Selection.Addons.IsDecided())
	assert.False(t, state.Selection.Therapists.IsDecided())
	assert.Nil(t, state.Addons)
	assert.NotEmpty(t, state.Treatments)
}

func TestSessions_StartGetEnd(t *testing.T) {
	sessions := newTestSessions(newFakeCatalog(), &fakeCarryover{})
	ctx := context.Background()

	_, err := sessions.Get("cust-1")
	assert.ErrorIs(t, err, ErrNoSession)

	first, err := sessions.Start(ctx, "cust-1")
	require.NoError(t, err)
	second, err := sessions.Start(ctx, "cust-1")
	require.NoError(t, err)

	// предыдущая сессия закрыта
	assert.ErrorIs(t, first.SetNotes("x"), ErrSessionClosed)

	got, err := sessions.Get("cust-1")
	require.NoError(t, err)
	assert.Same(t, second, got)

	assert.True(t, sessions.End("cust-1"))
	assert.False(t, sessions.End("cust-1"))
	assert.ErrorIs(t, second.SetNotes("x"), ErrSessionClosed)

	_, err = sessions.Get("cust-1")
	assert.ErrorIs(t, err, ErrNoSession)
}
