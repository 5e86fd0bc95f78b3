package repository

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page.
func (q *ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.PerPage
}

// OrderClause builds an ORDER BY expression, falling back to the given
// default when no sort column was requested. Column names are validated
// against the allowed set to keep user input out of the SQL.
func (q *ListQuery) OrderClause(defaultOrder string, allowed map[string]bool) string {
	if q.SortBy == "" || !allowed[q.SortBy] {
		return defaultOrder
	}
	order := q.SortBy
	if q.SortDir == "desc" {
		order += " DESC"
	}
	return order
}
