package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/pkg/logger"
)

type countingMetrics struct {
	dropped map[string]int
}

func (m *countingMetrics) ObserveDroppedRecord(reason string) {
	if m.dropped == nil {
		m.dropped = make(map[string]int)
	}
	m.dropped[reason]++
}

func newTestAggregator() (*Aggregator, *countingMetrics) {
	m := &countingMetrics{}
	return NewAggregator(time.UTC, m, logger.NewNop()), m
}

func therapist(id string, times ...string) domain.RawTherapistSlots {
	return domain.RawTherapistSlots{TherapistID: id, TherapistName: "Therapist " + id, Times: times}
}

func location(id string, therapists ...domain.RawTherapistSlots) domain.RawLocation {
	return domain.RawLocation{ID: id, Name: "Location " + id, Therapists: therapists}
}

func rawSlots(slots []domain.TherapistSlots) map[string][]string {
	result := make(map[string][]string, len(slots))
	for _, t := range slots {
		for _, s := range t.Slots {
			result[t.Therapist.ID] = append(result[t.Therapist.ID], s.Raw)
		}
	}
	return result
}

func TestAggregator_FiltersPastSlotsForToday(t *testing.T) {
	agg, _ := newTestAggregator()
	now := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)

	schedule := agg.BuildSchedule([]domain.RawScheduleDate{
		{Date: "2024-05-01", Locations: []domain.RawLocation{location("l1", therapist("th1", "13:45", "14:00", "14:15"))}},
		{Date: "2024-05-02", Locations: []domain.RawLocation{location("l1", therapist("th1", "08:00", "13:45"))}},
	}, now)

	require.Len(t, schedule, 2)

	assert.Equal(t, "2024-05-01", schedule[0].Key())
	assert.Equal(t, map[string][]string{"th1": {"14:15"}}, rawSlots(schedule[0].Locations[0].Therapists))

	assert.Equal(t, "2024-05-02", schedule[1].Key())
	assert.Equal(t, map[string][]string{"th1": {"08:00", "13:45"}}, rawSlots(schedule[1].Locations[0].Therapists))
}

func TestAggregator_TodayComparedInConfiguredLocation(t *testing.T) {
	tz := time.FixedZone("UTC+3", 3*60*60)
	agg := NewAggregator(tz, &countingMetrics{}, logger.NewNop())

	// 22:30 UTC on 30 April is already 01:30 on 1 May in UTC+3
	now := time.Date(2024, 4, 30, 22, 30, 0, 0, time.UTC)

	day, ok := agg.BuildDay("2024-05-01", []domain.RawLocation{
		location("l1", therapist("th1", "01:00", "02:00")),
	}, now)

	require.True(t, ok)
	assert.Equal(t, map[string][]string{"th1": {"02:00"}}, rawSlots(day.Locations[0].Therapists))
}

func TestAggregator_PrunesEmptyBranches(t *testing.T) {
	agg, _ := newTestAggregator()
	now := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)

	schedule := agg.BuildSchedule([]domain.RawScheduleDate{
		{
			Date: "2024-05-01",
			Locations: []domain.RawLocation{
				// every slot already passed
				location("l1", therapist("th1", "09:00", "14:00")),
				location("l2", therapist("th2"), therapist("th3", "15:00")),
			},
		},
		{Date: "2024-05-02", Locations: []domain.RawLocation{location("l1", therapist("th1"))}},
		{Date: "2024-05-03"},
	}, now)

	require.Len(t, schedule, 1)
	require.Len(t, schedule[0].Locations, 1)
	assert.Equal(t, "l2", schedule[0].Locations[0].ID)
	require.Len(t, schedule[0].Locations[0].Therapists, 1)
	assert.Equal(t, "th3", schedule[0].Locations[0].Therapists[0].Therapist.ID)

	assertPruned(t, schedule)
}

func TestAggregator_SkipsMalformedRecords(t *testing.T) {
	agg, m := newTestAggregator()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	schedule := agg.BuildSchedule([]domain.RawScheduleDate{
		{Date: "01/05/2024", Locations: []domain.RawLocation{location("l1", therapist("th1", "10:00"))}},
		{
			Date: "2024-05-01",
			Locations: []domain.RawLocation{
				location("", therapist("th1", "10:00")),
				location("l1", therapist("", "10:00"), therapist("th2", "25:00", "10:30", "noon")),
			},
		},
		{Date: "2024-05-01", Locations: []domain.RawLocation{location("l9", therapist("th9", "11:00"))}},
	}, now)

	require.Len(t, schedule, 1)
	assert.Equal(t, map[string][]string{"th2": {"10:30"}}, rawSlots(schedule[0].Locations[0].Therapists))

	assert.Equal(t, 1, m.dropped[reasonMalformedDate])
	assert.Equal(t, 2, m.dropped[reasonMalformedTime])
	assert.Equal(t, 2, m.dropped[reasonMissingID])
	assert.Equal(t, 1, m.dropped[reasonDuplicateDate])
}

func TestAggregator_SortsDatesAndSlots(t *testing.T) {
	agg, _ := newTestAggregator()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	schedule := agg.BuildSchedule([]domain.RawScheduleDate{
		{Date: "2024-05-03", Locations: []domain.RawLocation{location("l1", therapist("th1", "16:00", "09:30", "12:00"))}},
		{Date: "2024-05-02", Locations: []domain.RawLocation{location("l1", therapist("th1", "10:00", "10:00"))}},
	}, now)

	require.Len(t, schedule, 2)
	assert.Equal(t, "2024-05-02", schedule[0].Key())
	assert.Equal(t, map[string][]string{"th1": {"10:00"}}, rawSlots(schedule[0].Locations[0].Therapists))
	assert.Equal(t, map[string][]string{"th1": {"09:30", "12:00", "16:00"}}, rawSlots(schedule[1].Locations[0].Therapists))
}

func TestAggregator_MidnightBoundary(t *testing.T) {
	agg, _ := newTestAggregator()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	day, ok := agg.BuildDay("2024-05-01", []domain.RawLocation{
		location("l1", therapist("th1", "00:00", "00:01")),
	}, now)

	require.True(t, ok)
	assert.Equal(t, map[string][]string{"th1": {"00:01"}}, rawSlots(day.Locations[0].Therapists))
}

func TestAggregator_PruningInvariant(t *testing.T) {
	agg, _ := newTestAggregator()
	times := []string{"00:00", "06:30", "12:00", "13:59", "14:00", "14:01", "23:59", "bad"}

	for hour := 0; hour < 24; hour++ {
		now := time.Date(2024, 5, 1, hour, 0, 0, 0, time.UTC)

		var payload []domain.RawScheduleDate
		for d, date := range []string{"2024-05-01", "2024-05-02", "2024-05-03"} {
			var locations []domain.RawLocation
			for l := 0; l < 3; l++ {
				var therapists []domain.RawTherapistSlots
				for th := 0; th < 3; th++ {
					// deterministic subset of times per therapist
					var subset []string
					for i, tm := range times {
						if (i+d+l+th+hour)%3 == 0 {
							subset = append(subset, tm)
						}
					}
					therapists = append(therapists, therapist(string(rune('a'+th)), subset...))
				}
				locations = append(locations, location(string(rune('A'+l)), therapists...))
			}
			payload = append(payload, domain.RawScheduleDate{Date: date, Locations: locations})
		}

		assertPruned(t, agg.BuildSchedule(payload, now))
	}
}

func assertPruned(t *testing.T, schedule []domain.CalendarScheduleDate) {
	t.Helper()
	for _, day := range schedule {
		assert.NotEmpty(t, day.Locations, "date %s has no locations", day.Key())
		for _, loc := range day.Locations {
			assert.NotEmpty(t, loc.Therapists, "location %s on %s has no therapists", loc.ID, day.Key())
			for _, th := range loc.Therapists {
				assert.NotEmpty(t, th.Slots, "therapist %s at %s on %s has no slots", th.Therapist.ID, loc.ID, day.Key())
			}
		}
	}
}
