package domain

// Region is an operating region; immutable
type Region struct {
	ID   int64
	Code string
	Name string
}
