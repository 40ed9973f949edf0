package librarystore

import (
	"strings"
)

/***** BookQueryCriteria *****/

// BookQueryCriteria is an immutable set of optional catalog search criteria.
//
// All provided filters are combined with logical AND; absent filters impose no
// constraint. It is built with BuildBookQuery and translated into a single
// filtered, sorted read by the engine, with every value passed as a bound
// parameter.
type BookQueryCriteria struct {
	category       *string
	title          *string
	press          *string
	author         *string
	minPublishYear *int
	maxPublishYear *int
	minPrice       *float64
	maxPrice       *float64
	sortBy         *BookColumn
	sortOrder      *SortOrder
}

// Category returns the exact-match category filter, if one was provided.
func (c BookQueryCriteria) Category() (string, bool) { return deref(c.category) }

// Title returns the title substring filter, if one was provided.
func (c BookQueryCriteria) Title() (string, bool) { return deref(c.title) }

// Press returns the press substring filter, if one was provided.
func (c BookQueryCriteria) Press() (string, bool) { return deref(c.press) }

// Author returns the author substring filter, if one was provided.
func (c BookQueryCriteria) Author() (string, bool) { return deref(c.author) }

// MinPublishYear returns the inclusive lower publish-year bound, if provided.
func (c BookQueryCriteria) MinPublishYear() (int, bool) { return deref(c.minPublishYear) }

// MaxPublishYear returns the inclusive upper publish-year bound, if provided.
func (c BookQueryCriteria) MaxPublishYear() (int, bool) { return deref(c.maxPublishYear) }

// MinPrice returns the inclusive lower price bound, if provided.
func (c BookQueryCriteria) MinPrice() (float64, bool) { return deref(c.minPrice) }

// MaxPrice returns the inclusive upper price bound, if provided.
func (c BookQueryCriteria) MaxPrice() (float64, bool) { return deref(c.maxPrice) }

// SortBy returns the requested primary sort column, if one was provided.
func (c BookQueryCriteria) SortBy() (BookColumn, bool) { return deref(c.sortBy) }

// SortOrder returns the requested sort direction, if one was provided.
// It only takes effect when SortBy is present.
func (c BookQueryCriteria) SortOrder() (SortOrder, bool) { return deref(c.sortOrder) }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}

	return *p, true
}

/***** BookQueryBuilder *****/

// BookQueryBuilder assembles BookQueryCriteria step by step.
//
// The builder sanitizes its input: blank strings are treated as absent filters,
// substring filters are trimmed, and an invalid sort column or direction is
// dropped rather than carried into the query.
type BookQueryBuilder struct {
	criteria BookQueryCriteria
}

// BuildBookQuery starts a new BookQueryBuilder which is finalized with Finalize().
func BuildBookQuery() BookQueryBuilder {
	return BookQueryBuilder{}
}

// WithCategory adds an exact-match category filter.
func (b BookQueryBuilder) WithCategory(category string) BookQueryBuilder {
	if category = strings.TrimSpace(category); category != "" {
		b.criteria.category = &category
	}

	return b
}

// WithTitleContains adds a title substring filter.
func (b BookQueryBuilder) WithTitleContains(title string) BookQueryBuilder {
	if title = strings.TrimSpace(title); title != "" {
		b.criteria.title = &title
	}

	return b
}

// WithPressContains adds a press substring filter.
func (b BookQueryBuilder) WithPressContains(press string) BookQueryBuilder {
	if press = strings.TrimSpace(press); press != "" {
		b.criteria.press = &press
	}

	return b
}

// WithAuthorContains adds an author substring filter.
func (b BookQueryBuilder) WithAuthorContains(author string) BookQueryBuilder {
	if author = strings.TrimSpace(author); author != "" {
		b.criteria.author = &author
	}

	return b
}

// WithMinPublishYear adds an inclusive lower bound on the publish year.
func (b BookQueryBuilder) WithMinPublishYear(year int) BookQueryBuilder {
	b.criteria.minPublishYear = &year
	return b
}

// WithMaxPublishYear adds an inclusive upper bound on the publish year.
func (b BookQueryBuilder) WithMaxPublishYear(year int) BookQueryBuilder {
	b.criteria.maxPublishYear = &year
	return b
}

// WithMinPrice adds an inclusive lower bound on the price.
func (b BookQueryBuilder) WithMinPrice(price float64) BookQueryBuilder {
	b.criteria.minPrice = &price
	return b
}

// WithMaxPrice adds an inclusive upper bound on the price.
func (b BookQueryBuilder) WithMaxPrice(price float64) BookQueryBuilder {
	b.criteria.maxPrice = &price
	return b
}

// SortedBy sets the primary sort column and direction.
//
// An unrecognized column is dropped, leaving the deterministic default ordering
// by book id ascending. The direction defaults to ascending when it is not one
// of SortAsc / SortDesc.
func (b BookQueryBuilder) SortedBy(column BookColumn, order SortOrder) BookQueryBuilder {
	if !column.IsValid() {
		return b
	}

	b.criteria.sortBy = &column

	if order != SortAsc && order != SortDesc {
		order = SortAsc
	}
	b.criteria.sortOrder = &order

	return b
}

// Finalize returns the assembled criteria.
func (b BookQueryBuilder) Finalize() BookQueryCriteria {
	return b.criteria
}
