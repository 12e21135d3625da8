package services

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

// Default page sizes per listing.
const (
	DefaultEventPageSize     = 10
	DefaultVolunteerPageSize = 10
	DefaultChatPageSize      = 20
	MaxPageSize              = 100

	// MaxPage keeps (page-1)*MaxPageSize inside a 32-bit int.
	MaxPage = math.MaxInt32 / MaxPageSize
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// PaginationParams selects a 1-indexed page.
type PaginationParams struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// window returns limit and offset, replacing non-positive values with page 1
// and defaultSize. Pages past MaxPage are clamped to it.
func (p PaginationParams) window(defaultSize int) (limit, offset int) {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit = p.PageSize
	if limit <= 0 {
		limit = defaultSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit, (page - 1) * limit
}

func (p PaginationParams) apply(q *gorm.DB, defaultSize int) *gorm.DB {
	limit, offset := p.window(defaultSize)
	return q.Limit(limit).Offset(offset)
}

// direction normalizes an order direction, falling back to def.
func direction(dir, def string) string {
	switch strings.ToLower(dir) {
	case OrderAsc:
		return "ASC"
	case OrderDesc:
		return "DESC"
	}
	if def == OrderDesc {
		return "DESC"
	}
	return "ASC"
}

// predicate is one optional WHERE clause.
type predicate struct {
	clause string
	args   []interface{}
}

// predicates collects the filters a search was asked for; they are ANDed.
type predicates []predicate

func (p *predicates) add(clause string, args ...interface{}) {
	*p = append(*p, predicate{clause: clause, args: args})
}

func (p predicates) apply(q *gorm.DB) *gorm.DB {
	for _, pr := range p {
		q = q.Where(pr.clause, pr.args...)
	}
	return q
}

func containsPattern(s string) string {
	return "%" + s + "%"
}
