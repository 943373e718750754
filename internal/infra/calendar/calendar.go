package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// storedEvent событие в том виде, в каком оно лежит в Redis.
// Календарь не знает о записях: тег хранится только внутри Notes.
type storedEvent struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	StartAt time.Time       `json:"start_at"`
	EndAt   time.Time       `json:"end_at"`
	Alarms  []time.Duration `json:"alarms"`
	Notes   string          `json:"notes"`
}

// RedisCalendar именованный календарь напоминаний. События хранятся в хеше
// calendar:<name>:events, поле хеша - идентификатор события.
type RedisCalendar struct {
	client redis.Cmdable
	key    string
}

// NewRedisCalendar создает календарь с указанным именем
func NewRedisCalendar(client redis.Cmdable, name string) *RedisCalendar {
	return &RedisCalendar{
		client: client,
		key:    "calendar:" + name + ":events",
	}
}

// Search возвращает события с тегом записи; пустой AppointmentID - все события клиента.
// События упорядочены по началу, затем по ID.
func (c *RedisCalendar) Search(ctx context.Context, tag domain.MirrorTag) ([]domain.MirrorEvent, error) {
	raw, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Search - hgetall: %v", ErrStorage, err)
	}

	token := tagToken(tag)
	events := make([]domain.MirrorEvent, 0)
	for id, value := range raw {
		if !strings.Contains(value, jsonEscape(token)) {
			continue
		}

		var stored storedEvent
		if err := json.Unmarshal([]byte(value), &stored); err != nil {
			return nil, fmt.Errorf("%w: Search - event %s: %v", ErrCorruptEvent, id, err)
		}
		// Заметка может содержать чужой тег в тексте клиента: сравниваем только
		// тег, записанный последней строкой
		notes, eventTag, ok := splitTag(stored.Notes)
		if !ok || !tagMatches(eventTag, tag) {
			continue
		}
		events = append(events, domain.MirrorEvent{
			ID:      stored.ID,
			Title:   stored.Title,
			StartAt: stored.StartAt,
			EndAt:   stored.EndAt,
			Alarms:  stored.Alarms,
			Notes:   notes,
			Tag:     eventTag,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartAt.Equal(events[j].StartAt) {
			return events[i].StartAt.Before(events[j].StartAt)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

// Create сохраняет новое событие и возвращает его ID
func (c *RedisCalendar) Create(ctx context.Context, event domain.MirrorEvent) (string, error) {
	event.ID = uuid.NewString()
	if err := c.put(ctx, event); err != nil {
		return "", fmt.Errorf("%w: Create: %v", ErrStorage, err)
	}
	return event.ID, nil
}

// Update перезаписывает существующее событие
func (c *RedisCalendar) Update(ctx context.Context, event domain.MirrorEvent) error {
	exists, err := c.client.HExists(ctx, c.key, event.ID).Result()
	if err != nil {
		return fmt.Errorf("%w: Update - hexists: %v", ErrStorage, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrEventNotFound, event.ID)
	}
	if err := c.put(ctx, event); err != nil {
		return fmt.Errorf("%w: Update: %v", ErrStorage, err)
	}
	return nil
}

// Delete удаляет событие; удаление отсутствующего события не является ошибкой
func (c *RedisCalendar) Delete(ctx context.Context, eventID string) error {
	if err := c.client.HDel(ctx, c.key, eventID).Err(); err != nil {
		return fmt.Errorf("%w: Delete - hdel: %v", ErrStorage, err)
	}
	return nil
}

func (c *RedisCalendar) put(ctx context.Context, event domain.MirrorEvent) error {
	payload, err := json.Marshal(storedEvent{
		ID:      event.ID,
		Title:   event.Title,
		StartAt: event.StartAt,
		EndAt:   event.EndAt,
		Alarms:  event.Alarms,
		Notes:   appendTag(event.Notes, event.Tag),
	})
	if err != nil {
		return err
	}
	return c.client.HSet(ctx, c.key, event.ID, payload).Err()
}

// jsonEscape возвращает строку в том виде, в каком она встречается внутри JSON
func jsonEscape(s string) string {
	encoded, _ := json.Marshal(s)
	return strings.Trim(string(encoded), `"`)
}
