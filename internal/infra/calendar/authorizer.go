package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// Authorizer разрешение на доступ к календарю. Решение хранится в Redis
// (calendar:<name>:access); до первого решения действует исходный статус из конфигурации.
type Authorizer struct {
	client         redis.Cmdable
	key            string
	initial        domain.CalendarAccess
	grantOnRequest bool
}

// NewAuthorizer создает авторизатор; grantOnRequest - ответ на запрос, пока статус не определён
func NewAuthorizer(client redis.Cmdable, name string, initial domain.CalendarAccess, grantOnRequest bool) *Authorizer {
	return &Authorizer{
		client:         client,
		key:            "calendar:" + name + ":access",
		initial:        initial,
		grantOnRequest: grantOnRequest,
	}
}

// Status возвращает текущий статус разрешения
func (a *Authorizer) Status(ctx context.Context) (domain.CalendarAccess, error) {
	value, err := a.client.Get(ctx, a.key).Result()
	if errors.Is(err, redis.Nil) {
		return a.initial, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: Status - get: %v", ErrStorage, err)
	}
	return domain.CalendarAccess(value), nil
}

// Request запрашивает разрешение. Уже принятое решение не меняется.
func (a *Authorizer) Request(ctx context.Context) (domain.CalendarAccess, error) {
	status, err := a.Status(ctx)
	if err != nil {
		return "", err
	}
	if status != domain.CalendarAccessNotDetermined {
		return status, nil
	}

	decision := domain.CalendarAccessDenied
	if a.grantOnRequest {
		decision = domain.CalendarAccessGranted
	}

	// SETNX: при параллельных запросах остаётся первое решение
	if err := a.client.SetNX(ctx, a.key, string(decision), 0).Err(); err != nil {
		return "", fmt.Errorf("%w: Request - setnx: %v", ErrStorage, err)
	}
	return a.Status(ctx)
}
