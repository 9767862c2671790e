package quota

// Usage использование месячной квоты организации в регионе
type Usage struct {
	Used      int
	Max       int
	Remaining int

	// DateAlreadyBooked у организации уже есть активное бронирование на эту дату
	DateAlreadyBooked bool
}

// Allows квота считает различные даты: бронирование на уже занятую дату её не расходует
func (u Usage) Allows() bool {
	return u.Remaining > 0 || u.DateAlreadyBooked
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}
