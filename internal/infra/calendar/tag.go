package calendar

import (
	"net/url"
	"strings"

	"github.com/m04kA/SMC-SpaBooking/internal/domain"
)

// Тег записи хранится последней строкой заметки события:
//
//	[spa-booking customer=<id> appointment=<id>]
//
// Идентификаторы экранируются, поэтому закрывающая скобка однозначно завершает тег.
const (
	tagOpen  = "[spa-booking customer="
	tagMid   = " appointment="
	tagClose = "]"
)

// tagToken возвращает строку для поиска по заметкам.
// Пустой AppointmentID дает префикс, совпадающий со всеми событиями клиента.
func tagToken(tag domain.MirrorTag) string {
	token := tagOpen + url.QueryEscape(tag.CustomerID) + tagMid
	if tag.AppointmentID == "" {
		return token
	}
	return token + url.QueryEscape(tag.AppointmentID) + tagClose
}

// tagMatches сравнивает тег события с запрошенным
func tagMatches(eventTag, query domain.MirrorTag) bool {
	if eventTag.CustomerID != query.CustomerID {
		return false
	}
	return query.AppointmentID == "" || eventTag.AppointmentID == query.AppointmentID
}

// appendTag дописывает тег в заметку
func appendTag(notes string, tag domain.MirrorTag) string {
	if notes == "" {
		return tagToken(tag)
	}
	return notes + "\n" + tagToken(tag)
}

// splitTag отделяет тег от заметки; ok == false, если тега нет
func splitTag(notes string) (string, domain.MirrorTag, bool) {
	start := strings.LastIndex(notes, tagOpen)
	if start < 0 || !strings.HasSuffix(notes, tagClose) {
		return notes, domain.MirrorTag{}, false
	}

	body := strings.TrimSuffix(notes[start+len(tagOpen):], tagClose)
	customer, appointment, found := strings.Cut(body, tagMid)
	if !found {
		return notes, domain.MirrorTag{}, false
	}

	customerID, err := url.QueryUnescape(customer)
	if err != nil {
		return notes, domain.MirrorTag{}, false
	}
	appointmentID, err := url.QueryUnescape(appointment)
	if err != nil {
		return notes, domain.MirrorTag{}, false
	}

	return strings.TrimSuffix(notes[:start], "\n"), domain.MirrorTag{
		CustomerID:    customerID,
		AppointmentID: appointmentID,
	}, true
}
