package search

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Results is the envelope every paginated list endpoint responds with.
type Results[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// NewResults wraps a page of items, never returning a nil item slice.
func NewResults[T any](items []T, total, skip, limit int) *Results[T] {
	if items == nil {
		items = []T{}
	}
	return &Results[T]{Items: items, Total: total, Skip: skip, Limit: limit}
}

// NormalizePage clamps skip to be non-negative and limit to [1, MaxLimit],
// falling back to DefaultLimit when no limit was given.
func NormalizePage(skip, limit *int) (int, int) {
	s, l := 0, DefaultLimit
	if skip != nil && *skip > 0 {
		s = *skip
	}
	if limit != nil {
		l = *limit
	}
	if l < 1 {
		l = 1
	}
	if l > MaxLimit {
		l = MaxLimit
	}
	return s, l
}
