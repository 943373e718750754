package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func event(customerID, appointmentID string, start time.Time) domain.MirrorEvent {
	return domain.MirrorEvent{
		Title:   "Massage at Downtown",
		StartAt: start,
		EndAt:   start.Add(time.Hour),
		Alarms:  []time.Duration{24 * time.Hour, time.Hour},
		Notes:   "Therapist: Anna",
		Tag:     domain.MirrorTag{CustomerID: customerID, AppointmentID: appointmentID},
	}
}

func TestRedisCalendar_CreateSearch(t *testing.T) {
	client, _ := newTestClient(t)
	cal := NewRedisCalendar(client, "Spa Appointments")
	ctx := context.Background()
	start := time.Date(2024, 5, 3, 14, 0, 0, 0, time.UTC)

	id, err := cal.Create(ctx, event("cust-1", "a1", start))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = cal.Create(ctx, event("cust-1", "a10", start.Add(time.Hour)))
	require.NoError(t, err)
	_, err = cal.Create(ctx, event("cust-10", "a1", start))
	require.NoError(t, err)

	found, err := cal.Search(ctx, domain.MirrorTag{CustomerID: "cust-1", AppointmentID: "a1"})
	require.NoError(t, err)
	require.Len(t, found, 1, "a1 must not match a10 nor another customer")

	got := found[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Therapist: Anna", got.Notes, "tag is stripped from notes")
	assert.Equal(t, domain.MirrorTag{CustomerID: "cust-1", AppointmentID: "a1"}, got.Tag)
	assert.True(t, start.Equal(got.StartAt))
	assert.Equal(t, []time.Duration{24 * time.Hour, time.Hour}, got.Alarms)

	all, err := cal.Search(ctx, domain.MirrorTag{CustomerID: "cust-1"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a1", all[0].Tag.AppointmentID)
	assert.Equal(t, "a10", all[1].Tag.AppointmentID)
}

func TestRedisCalendar_EscapedIdentifiers(t *testing.T) {
	client, _ := newTestClient(t)
	cal := NewRedisCalendar(client, "Spa")
	ctx := context.Background()

	tag := domain.MirrorTag{CustomerID: "user] appointment=x", AppointmentID: "a 1"}
	e := event(tag.CustomerID, tag.AppointmentID, time.Now())
	e.Notes = ""
	_, err := cal.Create(ctx, e)
	require.NoError(t, err)

	found, err := cal.Search(ctx, tag)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, tag, found[0].Tag)
	assert.Empty(t, found[0].Notes)
}

func TestRedisCalendar_UpdateDelete(t *testing.T) {
	client, _ := newTestClient(t)
	cal := NewRedisCalendar(client, "Spa")
	ctx := context.Background()
	start := time.Date(2024, 5, 3, 14, 0, 0, 0, time.UTC)

	id, err := cal.Create(ctx, event("cust-1", "a1", start))
	require.NoError(t, err)

	updated := event("cust-1", "a1", start.Add(2*time.Hour))
	updated.ID = id
	updated.Notes = "Therapist: Maria"
	require.NoError(t, cal.Update(ctx, updated))

	found, err := cal.Search(ctx, updated.Tag)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Therapist: Maria", found[0].Notes)

	missing := updated
	missing.ID = "nope"
	assert.ErrorIs(t, cal.Update(ctx, missing), ErrEventNotFound)

	require.NoError(t, cal.Delete(ctx, id))
	require.NoError(t, cal.Delete(ctx, id))

	found, err = cal.Search(ctx, updated.Tag)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRedisCalendar_StorageError(t *testing.T) {
	client, mr := newTestClient(t)
	cal := NewRedisCalendar(client, "Spa")
	mr.Close()

	_, err := cal.Search(context.Background(), domain.MirrorTag{CustomerID: "cust-1"})
	assert.ErrorIs(t, err, ErrStorage)
}

func TestSplitTag_NoTag(t *testing.T) {
	notes, _, ok := splitTag("Therapist: Anna")
	assert.False(t, ok)
	assert.Equal(t, "Therapist: Anna", notes)
}

func TestRedisCalendar_SearchIgnoresTagsInNoteText(t *testing.T) {
	client, _ := newTestClient(t)
	cal := NewRedisCalendar(client, "Spa")
	ctx := context.Background()
	start := time.Date(2024, 5, 3, 14, 0, 0, 0, time.UTC)

	// заметка клиента A содержит начало тега клиента B
	foreign := event("cust-A", "a1", start)
	foreign.Notes = "call me [spa-booking customer=cust-B appointment="
	foreignID, err := cal.Create(ctx, foreign)
	require.NoError(t, err)

	// заметка записи a2 содержит полный тег записи a1
	lookalike := event("cust-A", "a2", start.Add(time.Hour))
	lookalike.Notes = "same as [spa-booking customer=cust-A appointment=a1]"
	lookalikeID, err := cal.Create(ctx, lookalike)
	require.NoError(t, err)

	found, err := cal.Search(ctx, domain.MirrorTag{CustomerID: "cust-B"})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = cal.Search(ctx, domain.MirrorTag{CustomerID: "cust-A", AppointmentID: "a1"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, foreignID, found[0].ID)
	assert.Equal(t, foreign.Notes, found[0].Notes)

	found, err = cal.Search(ctx, domain.MirrorTag{CustomerID: "cust-A", AppointmentID: "a2"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, lookalikeID, found[0].ID)
	assert.Equal(t, lookalike.Notes, found[0].Notes)
}

func TestTagMatches(t *testing.T) {
	tests := []struct {
		name  string
		event domain.MirrorTag
		query domain.MirrorTag
		want  bool
	}{
		{name: "same appointment", event: domain.MirrorTag{CustomerID: "c", AppointmentID: "a"}, query: domain.MirrorTag{CustomerID: "c", AppointmentID: "a"}, want: true},
		{name: "any appointment of customer", event: domain.MirrorTag{CustomerID: "c", AppointmentID: "a"}, query: domain.MirrorTag{CustomerID: "c"}, want: true},
		{name: "other appointment", event: domain.MirrorTag{CustomerID: "c", AppointmentID: "a"}, query: domain.MirrorTag{CustomerID: "c", AppointmentID: "b"}, want: false},
		{name: "other customer", event: domain.MirrorTag{CustomerID: "c", AppointmentID: "a"}, query: domain.MirrorTag{CustomerID: "d"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tagMatches(tt.event, tt.query))
		})
	}
}
