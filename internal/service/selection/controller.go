package selection

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
	"github.com/m04kA/SMC-SpaBooking/internal/integrations/spaapi"
	"github.com/m04kA/SMC-SpaBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SpaBooking/pkg/types"
)

// list зависимый список, который перезагружается при изменении выбора
type list int

const (
	listTreatments list = iota
	listAddons
	listTherapists
	listSlotDates
	listTimeSlots
	listCount
)

var listNames = [listCount]string{
	listTreatments: "treatments",
	listAddons:     "addons",
	listTherapists: "therapists",
	listSlotDates:  "slot_dates",
	listTimeSlots:  "time_slots",
}

// Списки, которые инвалидирует изменение каждого шага каскада
var (
	afterCenter     = []list{listTreatments, listAddons, listTherapists, listSlotDates, listTimeSlots}
	afterTreatment  = []list{listAddons, listTherapists, listSlotDates, listTimeSlots}
	afterAddons     = []list{listTherapists, listSlotDates, listTimeSlots}
	afterTherapists = []list{listSlotDates, listTimeSlots}
	afterDate       = []list{listTimeSlots}
)

type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

// plan набор загрузок одного изменения выбора, помеченный поколением
type plan struct {
	stage      string
	generation uint64
	refresh    bool
	ctx        [listCount]context.Context

	query spaapi.SlotQuery
	date  time.Time

	treatments []domain.Treatment
	addons     []domain.Addon
	therapists []domain.Therapist
	slotDates  []domain.CalendarScheduleDate
	timeSlots  *domain.CalendarScheduleDate
	errs       [listCount]error
}

// Controller владеет выбором одной сессии записи и поддерживает каскад
// центр → услуга → доп. услуги → мастера → дата → слот.
// Каждое изменение сбрасывает зависимые шаги и перезагружает зависимые списки;
// результат загрузки применяется, только если поколение списка не изменилось.
type Controller struct {
	customerID   string
	catalog      CatalogClient
	schedule     ScheduleBuilder
	booker       Booker
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger

	// время жизни сессии; все загрузки привязаны к нему
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	closed     bool
	generation uint64
	inflight   [listCount]inflight
	selection  domain.Selection
	carryover  bool

	centers    []domain.Center
	treatments []domain.Treatment
	addons     []domain.Addon
	therapists []domain.Therapist
	slotDates  []domain.CalendarScheduleDate
	timeSlots  *domain.CalendarScheduleDate
}

// NewController создает контроллер пустой сессии выбора
func NewController(
	customerID string,
	catalog CatalogClient,
	schedule ScheduleBuilder,
	booker Booker,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Controller {
	if location == nil {
		location = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		customerID:   customerID,
		catalog:      catalog,
		schedule:     schedule,
		booker:       booker,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		selection:    emptySelection(),
	}
}

// CustomerID возвращает владельца сессии
func (c *Controller) CustomerID() string {
	return c.customerID
}

// Centers возвращает центры, доступные для записи; список загружается один раз за сессию
func (c *Controller) Centers(ctx context.Context) ([]domain.Center, error) {
	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.centers != nil {
		centers := slices.Clone(c.centers)
		c.mu.Unlock()
		return centers, nil
	}
	c.mu.Unlock()

	centers, err := c.catalog.FetchCenters(ctx)
	if err != nil {
		c.logger.Error("Centers: failed to fetch centers for customer=%s: %v", c.customerID, err)
		return nil, err
	}

	c.mu.Lock()
	c.centers = centers
	c.mu.Unlock()
	return slices.Clone(centers), nil
}

// SetCenter выбирает центр и сбрасывает услугу, доп. услуги, мастеров и выбранный слот.
// Если выбор был предзаполнен из прошлой записи, он сбрасывается целиком.
func (c *Controller) SetCenter(ctx context.Context, centerID string) error {
	centers, err := c.Centers(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(centers, func(center domain.Center) bool { return center.ID == centerID })
	if idx < 0 {
		return fmt.Errorf("%w: center %q", ErrUnknownOption, centerID)
	}
	center := centers[idx]

	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.carryover {
		c.selection = emptySelection()
		c.carryover = false
	}
	c.selection.Center = &center
	c.selection.Treatment = nil
	c.selection.Addons = domain.Unset[domain.Addon]()
	c.selection.Therapists = domain.Unset[domain.Therapist]()
	c.selection.ClearTimePick()

	p := c.beginLocked("center", afterCenter, []list{listTreatments})
	c.mu.Unlock()

	c.logger.Info("SetCenter: customer=%s center=%s generation=%d", c.customerID, centerID, p.generation)
	return c.run(p)
}

// SetTreatment выбирает услугу и сбрасывает доп. услуги, мастеров и выбранный слот
func (c *Controller) SetTreatment(ctx context.Context, treatmentID string) error {
	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.selection.Center == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: select a center first", ErrOutOfOrder)
	}
	idx := slices.IndexFunc(c.treatments, func(t domain.Treatment) bool { return t.ID == treatmentID })
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: treatment %q", ErrUnknownOption, treatmentID)
	}

	treatment := c.treatments[idx]
	c.carryover = false
	c.selection.Treatment = &treatment
	c.selection.Addons = domain.Unset[domain.Addon]()
	c.selection.Therapists = domain.Unset[domain.Therapist]()
	c.selection.ClearTimePick()

	p := c.beginLocked("treatment", afterTreatment, c.withTimeSlotsLocked(listAddons, listTherapists, listSlotDates))
	c.mu.Unlock()

	c.logger.Info("SetTreatment: customer=%s treatment=%s generation=%d", c.customerID, treatmentID, p.generation)
	return c.run(p)
}

// SetAddons выбирает доп. услуги (или «без предпочтений») и сбрасывает мастеров и выбранный слот
func (c *Controller) SetAddons(ctx context.Context, choice domain.Choice[domain.Addon]) error {
	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.selection.Treatment == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: select a treatment first", ErrOutOfOrder)
	}
	resolved, err := resolveChoice(choice, c.addons, func(a domain.Addon) string { return a.ID })
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.carryover = false
	c.selection.Addons = resolved
	c.selection.Therapists = domain.Unset[domain.Therapist]()
	c.selection.ClearTimePick()

	p := c.beginLocked("addons", afterAddons, c.withTimeSlotsLocked(listTherapists, listSlotDates))
	c.mu.Unlock()

	c.logger.Info("SetAddons: customer=%s addons=%v generation=%d",
		c.customerID, domain.AddonIDs(resolved.Items()), p.generation)
	return c.run(p)
}

// SetTherapists выбирает предпочитаемых мастеров (или «без предпочтений») и сбрасывает выбранный слот
func (c *Controller) SetTherapists(ctx context.Context, choice domain.Choice[domain.Therapist]) error {
	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.selection.Treatment == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: select a treatment first", ErrOutOfOrder)
	}
	resolved, err := resolveChoice(choice, c.therapists, func(t domain.Therapist) string { return t.ID })
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.carryover = false
	c.selection.Therapists = resolved
	c.selection.ClearTimePick()

	p := c.beginLocked("therapists", afterTherapists, c.withTimeSlotsLocked(listSlotDates))
	c.mu.Unlock()

	c.logger.Info("SetTherapists: customer=%s therapists=%v generation=%d",
		c.customerID, domain.TherapistIDs(resolved.Items()), p.generation)
	return c.run(p)
}

// SetDate выбирает дату и перезагружает только слоты на эту дату; остальной выбор не меняется
func (c *Controller) SetDate(ctx context.Context, date time.Time) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, c.location)
	now := c.timeProvider.Now().In(c.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.location)
	if day.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, day.Format(domain.DateFormat))
	}

	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.selection.Treatment == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: select a treatment first", ErrOutOfOrder)
	}

	c.carryover = false
	c.selection.Date = &day
	c.selection.ClearTimePick()

	p := c.beginLocked("date", afterDate, []list{listTimeSlots})
	c.mu.Unlock()

	c.logger.Info("SetDate: customer=%s date=%s generation=%d", c.customerID, day.Format(domain.DateFormat), p.generation)
	return c.run(p)
}

// SetTimeSlot выбирает конкретное время и мастера из загруженных слотов выбранной даты
func (c *Controller) SetTimeSlot(locationID, therapistID string, slot types.TimeSlot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOpenLocked(); err != nil {
		return err
	}
	if c.selection.Date == nil || c.timeSlots == nil {
		return fmt.Errorf("%w: select a date first", ErrOutOfOrder)
	}

	location, ok := c.timeSlots.FindLocation(locationID)
	if !ok {
		return fmt.Errorf("%w: location %q", ErrUnknownOption, locationID)
	}
	therapist, ok := location.FindSlot(therapistID, slot)
	if !ok {
		return fmt.Errorf("%w: slot %s with therapist %q", ErrUnknownOption, slot.Raw, therapistID)
	}

	c.carryover = false
	c.selection.LocationID = locationID
	c.selection.TimeSlot = &slot
	c.selection.Therapist = &therapist

	c.logger.Info("SetTimeSlot: customer=%s location=%s therapist=%s time=%s", c.customerID, locationID, therapistID, slot.Raw)
	return nil
}

// SetNotes сохраняет заметку к записи
func (c *Controller) SetNotes(notes string) error {
	if err := validateNotes(notes); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOpenLocked(); err != nil {
		return err
	}
	c.carryover = false
	c.selection.Notes = notes
	return nil
}

// IsReadyToSubmit возвращает true, когда выбраны центр, услуга, дата, время и мастер
func (c *Controller) IsReadyToSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.IsReadyToSubmit()
}

// Submit отправляет запись. Незавершённый выбор не уходит в сеть.
// Ошибка бэкенда возвращается без изменений; при успехе выбор сбрасывается.
func (c *Controller) Submit(ctx context.Context, notes string) (*domain.Appointment, error) {
	if err := validateNotes(notes); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if missing := c.selection.MissingForSubmit(); len(missing) > 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteSelection, strings.Join(missing, ", "))
	}
	// Заметка попадает только в отправляемую копию
	sel := c.selection
	c.mu.Unlock()
	if notes != "" {
		sel.Notes = notes
	}

	resp, err := c.booker.Execute(ctx, &create_booking.Request{
		CustomerID: c.customerID,
		Selection:  sel,
	})
	if err != nil {
		c.logger.Warn("Submit: booking failed for customer=%s: %v", c.customerID, err)
		return nil, err
	}

	c.mu.Lock()
	c.beginLocked("submit", afterCenter, nil)
	c.selection = emptySelection()
	c.carryover = false
	c.mu.Unlock()

	if !resp.Stored {
		c.logger.Warn("Submit: appointment id=%s booked but not stored locally for customer=%s", resp.Appointment.ID, c.customerID)
	}
	c.logger.Info("Submit: customer=%s booked appointment id=%s", c.customerID, resp.Appointment.ID)
	return resp.Appointment, nil
}

// Refresh перезагружает все списки для текущего выбора.
// Варианты, которые больше не предлагаются, удаляются из выбора.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return err
	}

	var fetch []list
	if c.selection.Center != nil {
		fetch = append(fetch, listTreatments)
	}
	if c.selection.Treatment != nil {
		fetch = append(fetch, listAddons, listTherapists, listSlotDates)
		if c.selection.Date != nil {
			fetch = append(fetch, listTimeSlots)
		}
	}
	p := c.beginLocked("refresh", afterCenter, fetch)
	p.refresh = true
	c.mu.Unlock()

	c.logger.Info("Refresh: customer=%s generation=%d", c.customerID, p.generation)
	return c.run(p)
}

// Snapshot возвращает копию текущего состояния сессии
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		Selection:  c.selection,
		Treatments: slices.Clone(c.treatments),
		Addons:     slices.Clone(c.addons),
		Therapists: slices.Clone(c.therapists),
		SlotDates:  slices.Clone(c.slotDates),
		Missing:    c.selection.MissingForSubmit(),
		Carryover:  c.carryover,
	}
	if c.timeSlots != nil {
		day := *c.timeSlots
		state.TimeSlots = &day
	}
	state.Ready = len(state.Missing) == 0
	return state
}

// Close завершает сессию и отменяет все незавершённые загрузки
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	for l := range c.inflight {
		c.inflight[l] = inflight{}
	}
	c.mu.Unlock()

	c.cancel()
}

// seed задаёт начальный выбор сессии из прошлой записи
func (c *Controller) seed(sel domain.Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = sel
	c.carryover = true
}

// beginLocked увеличивает поколение, отменяет загрузки инвалидированных списков,
// очищает их и готовит контексты для новых загрузок
func (c *Controller) beginLocked(stage string, invalidate []list, fetch []list) *plan {
	c.generation++
	p := &plan{
		stage:      stage,
		generation: c.generation,
		query:      slotQuery(c.selection),
	}
	if c.selection.Date != nil {
		p.date = *c.selection.Date
	}

	for _, l := range invalidate {
		if c.inflight[l].cancel != nil {
			c.inflight[l].cancel()
		}
		c.inflight[l] = inflight{generation: p.generation}
		c.clearListLocked(l)
	}

	for _, l := range fetch {
		ctx, cancel := context.WithCancel(c.ctx)
		c.inflight[l].cancel = cancel
		p.ctx[l] = ctx
	}
	return p
}

// withTimeSlotsLocked добавляет перезагрузку слотов, если дата уже выбрана
func (c *Controller) withTimeSlotsLocked(lists ...list) []list {
	if c.selection.Date != nil {
		lists = append(lists, listTimeSlots)
	}
	return lists
}

// run выполняет загрузки плана параллельно и применяет актуальные результаты
func (c *Controller) run(p *plan) error {
	var g errgroup.Group
	for l := list(0); l < listCount; l++ {
		l := l
		ctx := p.ctx[l]
		if ctx == nil {
			continue
		}
		g.Go(func() error {
			p.errs[l] = c.fetch(ctx, l, p)
			return p.errs[l]
		})
	}
	_ = g.Wait()

	return c.apply(p)
}

func (c *Controller) fetch(ctx context.Context, l list, p *plan) error {
	var err error
	switch l {
	case listTreatments:
		p.treatments, err = c.catalog.FetchTreatments(ctx, p.query.CenterID)
	case listAddons:
		p.addons, err = c.catalog.FetchAddons(ctx, p.query.CenterID, p.query.TreatmentID)
	case listTherapists:
		p.therapists, err = c.catalog.FetchTherapists(ctx, p.query.CenterID, p.query.TreatmentID, p.query.AddonIDs)
	case listSlotDates:
		var payload []domain.RawScheduleDate
		payload, err = c.catalog.FetchSlotDates(ctx, p.query)
		if err == nil {
			p.slotDates = c.schedule.BuildSchedule(payload, c.timeProvider.Now())
		}
	case listTimeSlots:
		var locations []domain.RawLocation
		locations, err = c.catalog.FetchTimeSlots(ctx, p.query, p.date)
		if err == nil {
			day, ok := c.schedule.BuildDay(p.date.Format(domain.DateFormat), locations, c.timeProvider.Now())
			if !ok {
				day = domain.CalendarScheduleDate{Date: p.date}
			}
			p.timeSlots = &day
		}
	}
	return err
}

// apply применяет результаты, поколение которых ещё актуально.
// Устаревшие результаты отбрасываются, вызывающему возвращается ErrSuperseded.
func (c *Controller) apply(p *plan) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	var (
		superseded bool
		firstErr   error
		applied    [listCount]bool
	)
	for l := list(0); l < listCount; l++ {
		if p.ctx[l] == nil {
			continue
		}
		if c.inflight[l].generation != p.generation {
			superseded = true
			c.metrics.ObserveSupersededFetch(listNames[l])
			continue
		}
		if c.inflight[l].cancel != nil {
			c.inflight[l].cancel()
			c.inflight[l].cancel = nil
		}
		if err := p.errs[l]; err != nil {
			c.logger.Warn("%s: failed to load %s for customer=%s: %v", p.stage, listNames[l], c.customerID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		switch l {
		case listTreatments:
			c.treatments = p.treatments
		case listAddons:
			c.addons = p.addons
		case listTherapists:
			c.therapists = p.therapists
		case listSlotDates:
			c.slotDates = p.slotDates
		case listTimeSlots:
			c.timeSlots = p.timeSlots
		}
		applied[l] = true
	}

	if p.refresh {
		c.pruneLocked(applied)
	}

	if firstErr != nil {
		return firstErr
	}
	if superseded {
		c.logger.Info("%s: results of generation=%d discarded for customer=%s", p.stage, p.generation, c.customerID)
		return ErrSuperseded
	}
	return nil
}

// pruneLocked убирает из выбора варианты, отсутствующие в свежезагруженных списках
func (c *Controller) pruneLocked(applied [listCount]bool) {
	sel := &c.selection

	if applied[listTreatments] && sel.Treatment != nil {
		idx := slices.IndexFunc(c.treatments, func(t domain.Treatment) bool { return t.ID == sel.Treatment.ID })
		if idx < 0 {
			c.logger.Warn("Refresh: treatment %s is no longer offered, customer=%s", sel.Treatment.ID, c.customerID)
			sel.Treatment = nil
			sel.Addons = domain.Unset[domain.Addon]()
			sel.Therapists = domain.Unset[domain.Therapist]()
			sel.ClearTimePick()
			for _, l := range afterTreatment {
				c.clearListLocked(l)
			}
			return
		}
		treatment := c.treatments[idx]
		sel.Treatment = &treatment
	}

	if applied[listAddons] {
		sel.Addons = keepOffered(sel.Addons, c.addons, func(a domain.Addon) string { return a.ID })
	}
	if applied[listTherapists] {
		sel.Therapists = keepOffered(sel.Therapists, c.therapists, func(t domain.Therapist) string { return t.ID })
	}
}

func (c *Controller) clearListLocked(l list) {
	switch l {
	case listTreatments:
		c.treatments = nil
	case listAddons:
		c.addons = nil
	case listTherapists:
		c.therapists = nil
	case listSlotDates:
		c.slotDates = nil
	case listTimeSlots:
		c.timeSlots = nil
	}
}

func (c *Controller) checkOpenLocked() error {
	if c.closed {
		return ErrSessionClosed
	}
	return nil
}

func emptySelection() domain.Selection {
	return domain.Selection{
		Addons:     domain.Unset[domain.Addon](),
		Therapists: domain.Unset[domain.Therapist](),
	}
}

func slotQuery(sel domain.Selection) spaapi.SlotQuery {
	var q spaapi.SlotQuery
	if sel.Center != nil {
		q.CenterID = sel.Center.ID
	}
	if sel.Treatment != nil {
		q.TreatmentID = sel.Treatment.ID
	}
	q.AddonIDs = domain.AddonIDs(sel.Addons.Items())
	q.TherapistIDs = domain.TherapistIDs(sel.Therapists.Items())
	return q
}

func validateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: at most %d characters", ErrNotesTooLong, domain.MaxNotesLength)
	}
	return nil
}

// resolveChoice заменяет выбранные элементы на элементы загруженного списка.
// Каждый выбранный ID должен присутствовать в списке.
func resolveChoice[T any](choice domain.Choice[T], offered []T, id func(T) string) (domain.Choice[T], error) {
	if choice.Kind() != domain.ChoiceSelected {
		return choice, nil
	}

	resolved := make([]T, 0, len(choice.Items()))
	for _, item := range choice.Items() {
		idx := slices.IndexFunc(offered, func(o T) bool { return id(o) == id(item) })
		if idx < 0 {
			return domain.Choice[T]{}, fmt.Errorf("%w: %q", ErrUnknownOption, id(item))
		}
		resolved = append(resolved, offered[idx])
	}
	return domain.Selected(resolved...), nil
}

// keepOffered оставляет в выборе только элементы, которые всё ещё предлагаются
func keepOffered[T any](choice domain.Choice[T], offered []T, id func(T) string) domain.Choice[T] {
	if choice.Kind() != domain.ChoiceSelected {
		return choice
	}

	kept := make([]T, 0, len(choice.Items()))
	for _, item := range choice.Items() {
		idx := slices.IndexFunc(offered, func(o T) bool { return id(o) == id(item) })
		if idx >= 0 {
			kept = append(kept, offered[idx])
		}
	}
	if len(kept) == 0 {
		return domain.Unset[T]()
	}
	return domain.Selected(kept...)
}
