package membership

// Organization организация из сервиса членства
type Organization struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Tier       string `json:"tier"`        // идентификатор уровня: priority, standard
	IsApproved bool   `json:"is_approved"` // только одобренные организации могут бронировать
}

// ErrorResponse модель ошибки от сервиса членства
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
