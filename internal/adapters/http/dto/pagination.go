package dto

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// PaginationRequest carries limit/offset pagination parameters from the
// query string. The quote list is small (one office's quotes), so opaque
// cursors would be overkill; offsets stay stable enough here.
type PaginationRequest struct {
	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`

	// Offset skips that many items from the newest-first ordering.
	Offset int `form:"offset" validate:"omitempty,gte=0"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	if p.Limit > MaxLimit {
		return MaxLimit
	}

	return p.Limit
}

// GetOffset returns the offset clamped to zero.
func (p *PaginationRequest) GetOffset() int {
	if p.Offset < 0 {
		return 0
	}

	return p.Offset
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	// Items is the array of items for this page.
	Items []T `json:"items"`

	// Limit and Offset echo the window that produced this page.
	Limit  int `json:"limit"`
	Offset int `json:"offset"`

	// HasMore indicates whether there are more items after this page.
	HasMore bool `json:"hasMore"`
}

// NewPaginatedResponse builds a page from up to limit+1 fetched items;
// the extra item, when present, signals another page and is trimmed off.
func NewPaginatedResponse[T any](items []T, limit, offset int) *PaginatedResponse[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	if items == nil {
		items = []T{}
	}

	return &PaginatedResponse[T]{
		Items:   items,
		Limit:   limit,
		Offset:  offset,
		HasMore: hasMore,
	}
}
