package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_Offset(t *testing.T) {
	q := &ListQuery{Page: 3, PerPage: 20}
	assert.Equal(t, 40, q.Offset())

	q.Page = 0
	assert.Equal(t, 0, q.Offset())
}

func TestListQuery_OrderClause(t *testing.T) {
	allowed := map[string]bool{"created_at": true, "total_amount": true}

	q := &ListQuery{}
	assert.Equal(t, "created_at DESC", q.OrderClause("created_at DESC", allowed))

	q.SortBy = "total_amount"
	assert.Equal(t, "total_amount", q.OrderClause("created_at DESC", allowed))

	q.SortDir = "desc"
	assert.Equal(t, "total_amount DESC", q.OrderClause("created_at DESC", allowed))

	// Unknown columns never reach the SQL
	q.SortBy = "password; DROP TABLE users"
	assert.Equal(t, "created_at DESC", q.OrderClause("created_at DESC", allowed))
}
