package get_calendar

import (
	"context"

	getMonthCalendar "github.com/m04kA/SMC-ReservationService/internal/usecase/get_month_calendar"
)

type GetMonthCalendarUseCase interface {
	Execute(ctx context.Context, req *getMonthCalendar.Request) (*getMonthCalendar.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
