package spaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

const headerCustomerID = "X-Customer-ID"

// Client клиент для работы с API бэкенда спа-центров
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    Metrics
	log        Logger
}

// NewClient создает новый экземпляр клиента бэкенда
func NewClient(baseURL string, timeout time.Duration, metrics Metrics, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		log:     log,
	}
}

// FetchCenters получает список центров, доступных для записи
func (c *Client) FetchCenters(ctx context.Context) ([]domain.Center, error) {
	var dto []centerDTO
	if err := c.do(ctx, "fetch_centers", http.MethodGet, "/centers", nil, "", nil, &dto); err != nil {
		return nil, err
	}

	centers := make([]domain.Center, 0, len(dto))
	for _, item := range dto {
		if !item.Bookable {
			continue
		}
		centers = append(centers, domain.Center{
			ID:       item.ID,
			Name:     item.Name,
			Address:  item.Address,
			Bookable: item.Bookable,
		})
	}
	return centers, nil
}

// FetchTreatments получает услуги центра, отсортированные по порядку категорий
func (c *Client) FetchTreatments(ctx context.Context, centerID string) ([]domain.Treatment, error) {
	path := fmt.Sprintf("/centers/%s/treatments", url.PathEscape(centerID))

	var dto []treatmentDTO
	if err := c.do(ctx, "fetch_treatments", http.MethodGet, path, nil, "", nil, &dto); err != nil {
		return nil, err
	}

	treatments := make([]domain.Treatment, 0, len(dto))
	for _, item := range dto {
		treatments = append(treatments, domain.Treatment{
			ID:                item.ID,
			CenterID:          centerID,
			Name:              item.Name,
			Category:          item.Category,
			CategorySortOrder: item.CategorySortOrder,
			DurationMinutes:   item.DurationMinutes,
		})
	}
	sort.SliceStable(treatments, func(i, j int) bool {
		if treatments[i].CategorySortOrder != treatments[j].CategorySortOrder {
			return treatments[i].CategorySortOrder < treatments[j].CategorySortOrder
		}
		return treatments[i].Name < treatments[j].Name
	})
	return treatments, nil
}

// FetchAddons получает дополнительные услуги для пары (центр, услуга)
func (c *Client) FetchAddons(ctx context.Context, centerID, treatmentID string) ([]domain.Addon, error) {
	path := fmt.Sprintf("/centers/%s/treatments/%s/addons", url.PathEscape(centerID), url.PathEscape(treatmentID))

	var dto []addonDTO
	if err := c.do(ctx, "fetch_addons", http.MethodGet, path, nil, "", nil, &dto); err != nil {
		return nil, err
	}

	addons := make([]domain.Addon, 0, len(dto))
	for _, item := range dto {
		addons = append(addons, domain.Addon{ID: item.ID, Name: item.Name})
	}
	return addons, nil
}

// FetchTherapists получает мастеров для комбинации (центр, услуга, набор доп. услуг)
func (c *Client) FetchTherapists(ctx context.Context, centerID, treatmentID string, addonIDs []string) ([]domain.Therapist, error) {
	path := fmt.Sprintf("/centers/%s/treatments/%s/therapists", url.PathEscape(centerID), url.PathEscape(treatmentID))
	query := url.Values{}
	if len(addonIDs) > 0 {
		query.Set("addon_ids", strings.Join(addonIDs, ","))
	}

	var dto []therapistDTO
	if err := c.do(ctx, "fetch_therapists", http.MethodGet, path, query, "", nil, &dto); err != nil {
		return nil, err
	}

	therapists := make([]domain.Therapist, 0, len(dto))
	for _, item := range dto {
		therapists = append(therapists, domain.Therapist{ID: item.ID, Name: item.Name})
	}
	return therapists, nil
}

// FetchSlotDates получает доступность по датам для подсветки календаря.
// Битые записи дат и локаций пропускаются, ошибка возвращается только для ответа целиком.
func (c *Client) FetchSlotDates(ctx context.Context, q SlotQuery) ([]domain.RawScheduleDate, error) {
	var resp slotDatesResponse
	if err := c.do(ctx, "fetch_slot_dates", http.MethodGet, "/availability/dates", q.values(), "", nil, &resp); err != nil {
		return nil, err
	}

	dates := make([]domain.RawScheduleDate, 0, len(resp.Dates))
	for i, raw := range resp.Dates {
		var dto scheduleDateDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			c.log.Warn("FetchSlotDates: skipping malformed date record #%d: %v", i, err)
			continue
		}
		dates = append(dates, domain.RawScheduleDate{
			Date:      dto.Date,
			Locations: c.decodeLocations("FetchSlotDates", dto.Locations),
		})
	}
	return dates, nil
}

// FetchTimeSlots получает слоты на конкретную дату
func (c *Client) FetchTimeSlots(ctx context.Context, q SlotQuery, date time.Time) ([]domain.RawLocation, error) {
	query := q.values()
	query.Set("date", date.Format(domain.DateFormat))

	var resp timeSlotsResponse
	if err := c.do(ctx, "fetch_time_slots", http.MethodGet, "/availability/slots", query, "", nil, &resp); err != nil {
		return nil, err
	}
	return c.decodeLocations("FetchTimeSlots", resp.Locations), nil
}

// SubmitBooking создает запись и возвращает её ID
func (c *Client) SubmitBooking(ctx context.Context, req BookingRequest) (string, error) {
	var resp bookingResponse
	if err := c.do(ctx, "submit_booking", http.MethodPost, "/appointments", nil, req.CustomerID, req, &resp); err != nil {
		return "", err
	}
	if resp.AppointmentID == "" {
		return "", fmt.Errorf("%w: empty appointment id", ErrInvalidResponse)
	}
	return resp.AppointmentID, nil
}

// FetchAppointment получает запись по ID
func (c *Client) FetchAppointment(ctx context.Context, customerID, appointmentID string) (*domain.Appointment, error) {
	path := fmt.Sprintf("/appointments/%s", url.PathEscape(appointmentID))

	var dto appointmentDTO
	if err := c.do(ctx, "fetch_appointment", http.MethodGet, path, nil, customerID, nil, &dto); err != nil {
		return nil, err
	}

	state := domain.AppointmentState(dto.State)
	if !state.IsValid() {
		return nil, fmt.Errorf("%w: unknown appointment state %q", ErrInvalidResponse, dto.State)
	}

	return &domain.Appointment{
		ID:                dto.ID,
		CustomerID:        dto.CustomerID,
		CenterID:          dto.CenterID,
		CenterName:        dto.CenterName,
		TreatmentID:       dto.TreatmentID,
		TreatmentName:     dto.TreatmentName,
		AddonIDs:          dto.AddonIDs,
		TherapistID:       dto.TherapistID,
		TherapistName:     dto.TherapistName,
		StartAt:           dto.StartAt,
		EndAt:             dto.EndAt,
		State:             state,
		SessionsRemaining: dto.SessionsRemaining,
		Note:              dto.Note,
	}, nil
}

// ConfirmAppointment подтверждает запись на бэкенде
func (c *Client) ConfirmAppointment(ctx context.Context, customerID, appointmentID string) error {
	path := fmt.Sprintf("/appointments/%s/confirm", url.PathEscape(appointmentID))
	return c.do(ctx, "confirm_appointment", http.MethodPost, path, nil, customerID, nil, nil)
}

// CancelAppointment отменяет запись на бэкенде
func (c *Client) CancelAppointment(ctx context.Context, customerID, appointmentID string) error {
	path := fmt.Sprintf("/appointments/%s/cancel", url.PathEscape(appointmentID))
	return c.do(ctx, "cancel_appointment", http.MethodPost, path, nil, customerID, nil, nil)
}

func (c *Client) decodeLocations(op string, raws []json.RawMessage) []domain.RawLocation {
	locations := make([]domain.RawLocation, 0, len(raws))
	for i, raw := range raws {
		var dto locationDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			c.log.Warn("%s: skipping malformed location record #%d: %v", op, i, err)
			continue
		}

		location := domain.RawLocation{
			ID:         dto.ID,
			Name:       dto.Name,
			Address:    dto.Address,
			Therapists: make([]domain.RawTherapistSlots, 0, len(dto.Therapists)),
		}
		for j, rawTherapist := range dto.Therapists {
			var t therapistSlotsDTO
			if err := json.Unmarshal(rawTherapist, &t); err != nil {
				c.log.Warn("%s: location %s: skipping malformed therapist record #%d: %v", op, dto.ID, j, err)
				continue
			}
			location.Therapists = append(location.Therapists, domain.RawTherapistSlots{
				TherapistID:   t.ID,
				TherapistName: t.Name,
				Times:         t.Slots,
			})
		}
		locations = append(locations, location)
	}
	return locations
}

// do выполняет запрос и декодирует ответ в out (если out != nil)
func (c *Client) do(
	ctx context.Context,
	operation string,
	method string,
	path string,
	query url.Values,
	customerID string,
	body interface{},
	out interface{},
) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.ObserveBackendCall(operation, err, time.Since(started))
	}()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if customerID != "" {
		req.Header.Set(headerCustomerID, customerID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.log.Warn("spaapi: %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: %s: %v", ErrNetwork, operation, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound && method == http.MethodGet:
		return ErrNotFound
	default:
		return readServerError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", ErrInvalidResponse, operation, err)
	}
	return nil
}

func readServerError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &ServerError{StatusCode: resp.StatusCode, Message: payload.Message}
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &ServerError{StatusCode: resp.StatusCode, Message: message}
}

func (q SlotQuery) values() url.Values {
	values := url.Values{}
	values.Set("center_id", q.CenterID)
	values.Set("treatment_id", q.TreatmentID)
	if len(q.AddonIDs) > 0 {
		values.Set("addon_ids", strings.Join(q.AddonIDs, ","))
	}
	if len(q.TherapistIDs) > 0 {
		values.Set("therapist_ids", strings.Join(q.TherapistIDs, ","))
	}
	return values
}
