package cancel_reservation

// CancellationRequest тело запроса на отмену одобренного бронирования
type CancellationRequest struct {
	Reason string `json:"reason"`
}
