package types

const (
	filterDefaultLimit = 50
	filterMaxLimit     = 1000
)

// Filter is a common pagination filter for list queries.
type Filter struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// NewDefaultFilter returns a filter with sane pagination defaults.
func NewDefaultFilter() Filter {
	return Filter{Limit: filterDefaultLimit}
}

// GetLimit returns the effective page size.
func (f Filter) GetLimit() int {
	if f.Limit <= 0 {
		return filterDefaultLimit
	}
	if f.Limit > filterMaxLimit {
		return filterMaxLimit
	}
	return f.Limit
}

// GetOffset returns the effective offset.
func (f Filter) GetOffset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}
