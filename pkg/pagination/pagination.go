package pagination

import "strconv"

const (
	// DefaultPage is used when a page number is absent or unusable.
	DefaultPage = 1
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs after coercion.
type Params struct {
	Page  int
	Limit int
}

// ParseParams coerces raw page/limit strings. Non-numeric or non-positive
// input falls back to the defaults rather than failing the request.
func ParseParams(rawPage, rawLimit string) Params {
	return Params{
		Page:  coerce(rawPage, DefaultPage, 0),
		Limit: coerce(rawLimit, DefaultLimit, MaxLimit),
	}
}

// Offset returns the zero-based row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages returns how many pages the given total spans.
func (p Params) Pages(total int64) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}
	return pages
}

func coerce(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if max > 0 && value > max {
		return max
	}
	return value
}
