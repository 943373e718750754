package submit_booking

// SubmitRequest необязательная заметка; пустая строка оставляет заметку из сессии
type SubmitRequest struct {
	Notes string `json:"notes"`
}
