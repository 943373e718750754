package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-SpaBooking/internal/api/handlers"
)

type contextKey string

const (
	// HeaderCustomerID заголовок с идентификатором клиента
	HeaderCustomerID = "X-Customer-ID"

	customerIDKey contextKey = "customer_id"

	msgMissingCustomerID = "отсутствует заголовок X-Customer-ID"
)

// Auth требует заголовок X-Customer-ID и кладёт его значение в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerID := strings.TrimSpace(r.Header.Get(HeaderCustomerID))
		if customerID == "" {
			handlers.RespondUnauthorized(w, msgMissingCustomerID)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCustomerID(r.Context(), customerID)))
	})
}

// WithCustomerID возвращает контекст с идентификатором клиента
func WithCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, customerIDKey, customerID)
}

// GetCustomerID извлекает идентификатор клиента из контекста
func GetCustomerID(ctx context.Context) (string, bool) {
	customerID, ok := ctx.Value(customerIDKey).(string)
	return customerID, ok && customerID != ""
}
