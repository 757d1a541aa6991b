package order

import "context"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page is one page of a user's order history.
type Page struct {
	Orders     []Order
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// QueryService is the read side of orders: history and detail lookup.
// Ownership checks belong to the transport layer.
type QueryService struct {
	reader Reader
}

// NewQueryService creates a QueryService over the given Reader.
func NewQueryService(reader Reader) *QueryService {
	return &QueryService{reader: reader}
}

// ListByUser returns a page of the user's orders, newest first. Page and
// pageSize are normalized: pages start at 1, the page size defaults to 10
// and is capped at 100.
func (s *QueryService) ListByUser(ctx context.Context, userID string, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	orders, total, err := s.reader.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &Page{
		Orders:     orders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetByID returns one order with its items, or ErrOrderNotFound.
func (s *QueryService) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.reader.GetByID(ctx, id)
}
