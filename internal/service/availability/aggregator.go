package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/pkg/types"
)

// Причины отбрасывания записей (метка метрики)
const (
	reasonMalformedDate = "malformed_date"
	reasonMalformedTime = "malformed_time"
	reasonMissingID     = "missing_id"
	reasonDuplicateDate = "duplicate_date"
)

// Aggregator строит дерево дата → локация → мастер → слоты из ответа бэкенда.
// Пустые ветки отсекаются, для сегодняшней даты прошедшие слоты отфильтровываются.
type Aggregator struct {
	location *time.Location
	metrics  Metrics
	logger   Logger
}

// NewAggregator создает агрегатор; даты из ответа сравниваются с текущей датой в loc
func NewAggregator(loc *time.Location, metrics Metrics, logger Logger) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		location: loc,
		metrics:  metrics,
		logger:   logger,
	}
}

// BuildSchedule строит календарь доступности для подсветки дат.
// Битые записи пропускаются и никогда не приводят к ошибке.
func (a *Aggregator) BuildSchedule(payload []domain.RawScheduleDate, now time.Time) []domain.CalendarScheduleDate {
	result := make([]domain.CalendarScheduleDate, 0, len(payload))
	seen := make(map[string]struct{}, len(payload))

	for _, raw := range payload {
		if _, ok := seen[raw.Date]; ok {
			a.drop(reasonDuplicateDate, "BuildSchedule: duplicate date %q skipped", raw.Date)
			continue
		}

		day, ok := a.BuildDay(raw.Date, raw.Locations, now)
		if !ok {
			continue
		}
		seen[raw.Date] = struct{}{}
		result = append(result, day)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// BuildDay строит одну дату из ответа со слотами на конкретный день.
// Возвращает false, если дата битая или после фильтрации не осталось ни одной локации.
func (a *Aggregator) BuildDay(date string, locations []domain.RawLocation, now time.Time) (domain.CalendarScheduleDate, bool) {
	parsed, err := time.ParseInLocation(domain.DateFormat, date, a.location)
	if err != nil {
		a.drop(reasonMalformedDate, "BuildDay: malformed date %q skipped: %v", date, err)
		return domain.CalendarScheduleDate{}, false
	}

	// Сравниваем строки в формате ответа, чтобы не зависеть от часового пояса разбора
	local := now.In(a.location)
	isToday := date == local.Format(domain.DateFormat)
	cutoff := local.Hour()*100 + local.Minute()

	day := domain.CalendarScheduleDate{Date: parsed}
	for _, rawLocation := range locations {
		location, ok := a.buildLocation(date, rawLocation, isToday, cutoff)
		if !ok {
			continue
		}
		day.Locations = append(day.Locations, location)
	}

	if len(day.Locations) == 0 {
		return domain.CalendarScheduleDate{}, false
	}
	return day, true
}

func (a *Aggregator) buildLocation(date string, raw domain.RawLocation, isToday bool, cutoff int) (domain.ScheduleLocation, bool) {
	if raw.ID == "" {
		a.drop(reasonMissingID, "BuildDay: location without id on %s skipped", date)
		return domain.ScheduleLocation{}, false
	}

	location := domain.ScheduleLocation{
		ID:      raw.ID,
		Name:    raw.Name,
		Address: raw.Address,
	}

	for _, rawTherapist := range raw.Therapists {
		if rawTherapist.TherapistID == "" {
			a.drop(reasonMissingID, "BuildDay: therapist without id at location %s on %s skipped", raw.ID, date)
			continue
		}

		slots := a.parseSlots(date, rawTherapist, isToday, cutoff)
		if len(slots) == 0 {
			continue
		}

		location.Therapists = append(location.Therapists, domain.TherapistSlots{
			Therapist: domain.Therapist{
				ID:   rawTherapist.TherapistID,
				Name: rawTherapist.TherapistName,
			},
			Slots: slots,
		})
	}

	if location.IsEmpty() {
		return domain.ScheduleLocation{}, false
	}
	return location, true
}

// parseSlots разбирает время мастера; для сегодняшней даты оставляет только слоты строго позже now
func (a *Aggregator) parseSlots(date string, raw domain.RawTherapistSlots, isToday bool, cutoff int) []types.TimeSlot {
	slots := make([]types.TimeSlot, 0, len(raw.Times))
	seen := make(map[string]struct{}, len(raw.Times))

	for _, value := range raw.Times {
		slot, err := types.ParseTimeSlot(value)
		if err != nil {
			a.drop(reasonMalformedTime, "BuildDay: malformed time %q for therapist %s on %s skipped", value, raw.TherapistID, date)
			continue
		}
		if isToday && slot.Value() <= cutoff {
			continue
		}
		if _, ok := seen[slot.Raw]; ok {
			continue
		}
		seen[slot.Raw] = struct{}{}
		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Before(slots[j])
	})
	return slots
}

func (a *Aggregator) drop(reason string, format string, v ...interface{}) {
	a.metrics.ObserveDroppedRecord(reason)
	a.logger.Warn(format, v...)
}
