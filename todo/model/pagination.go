package model

import "math"

// maxOffset is the largest OFFSET PostgreSQL accepts (bigint).
const maxOffset = uint64(math.MaxInt64)

// FilterOptions selects a page of query results. Zero values fall back to
// the first page and the configured default page size.
type FilterOptions struct {
	Page  int `json:"page,omitempty" validate:"omitempty,min=1"`
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1"`
}

// Options returns the pagination part of a query request.
func (o FilterOptions) Options() FilterOptions {
	return o
}

// Window resolves the LIMIT and OFFSET for the page. The page size defaults
// to defaultLimit and never exceeds maxLimit.
func (o FilterOptions) Window(defaultLimit, maxLimit int) (limit, offset uint64) {
	size := o.Limit
	if size <= 0 {
		size = defaultLimit
	}
	if maxLimit > 0 && size > maxLimit {
		size = maxLimit
	}
	if size <= 0 {
		size = 1
	}

	skipped := uint64(max(o.Page, 1) - 1)
	if skipped > maxOffset/uint64(size) {
		return uint64(size), maxOffset
	}
	return uint64(size), skipped * uint64(size)
}
