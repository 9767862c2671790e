package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// PathInt64 читает положительный целочисленный параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	return parsePositive(mux.Vars(r)[name], name)
}

// PathDate читает параметр пути в формате YYYY-MM-DD
func PathDate(r *http.Request, name string) (time.Time, error) {
	return ParseDate(mux.Vars(r)[name])
}

// PathYearMonth читает параметры пути {year} и {month}
func PathYearMonth(r *http.Request) (int, time.Month, error) {
	vars := mux.Vars(r)
	return parseYearMonth(vars["year"], vars["month"])
}

// QueryYearMonth читает query-параметры year и month
func QueryYearMonth(r *http.Request) (int, time.Month, error) {
	q := r.URL.Query()
	return parseYearMonth(q.Get("year"), q.Get("month"))
}

// QueryInt64 читает необязательный положительный query-параметр
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := parsePositive(raw, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// QueryDate читает необязательный query-параметр даты
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseDate разбирает дату YYYY-MM-DD
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return d, nil
}

// FormatTime форматирует время для ответа; пустая строка для нулевого значения
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parsePositive(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func parseYearMonth(rawYear, rawMonth string) (int, time.Month, error) {
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", rawYear)
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %q", rawMonth)
	}
	return year, time.Month(month), nil
}
