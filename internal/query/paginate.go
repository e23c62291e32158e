package query

import (
	"math"
	"strconv"

	"gorm.io/gorm"
)

// Reserved pagination parameters.
const (
	PageParam = "page"
	RowsParam = "rows"
	AllParam  = "all"
)

const (
	DefaultRows = 25
	MaxRows     = 100
)

// PageRequest is the parsed pagination part of a parameter bag.
type PageRequest struct {
	Page int
	Rows int
	// All bypasses pagination.
	All bool
	// RowsSet reports whether rows was sent explicitly; with All it caps the result.
	RowsSet bool
}

// ParsePage reads page, rows and all from p. Invalid values fall back to defaults.
func ParsePage(p Params) PageRequest {
	req := PageRequest{Page: 1, Rows: DefaultRows}

	if n, err := strconv.Atoi(p.First(PageParam)); err == nil && n > 0 {
		req.Page = n
	}
	if n, err := strconv.Atoi(p.First(RowsParam)); err == nil && n > 0 {
		req.Rows = min(n, MaxRows)
		req.RowsSet = true
	}
	if all, ok := ParseBool(p.First(AllParam)); ok {
		req.All = all
	}
	return req
}

// Result is one page of a filtered listing.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewResult builds a Result and computes TotalPages.
func NewResult[T any](items []T, total int64, page, pageSize int) *Result[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return &Result[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Paginate runs the filter-then-sort-then-paginate pipeline for model T.
// The count uses predicates only; scopes (e.g. preloads) apply to the fetch.
//
// With all=true pagination is bypassed: every matching row is returned, or the
// first rows rows when rows was sent explicitly. Total always counts every
// matching row.
func Paginate[T any](db *gorm.DB, f *Filter, p Params, scopes ...func(*gorm.DB) *gorm.DB) (*Result[T], error) {
	req := ParsePage(p)
	var items []T

	if req.All {
		q := f.Apply(db.Model(new(T)), p).Scopes(scopes...)
		if req.RowsSet {
			q = q.Limit(req.Rows)
		}
		if err := q.Find(&items).Error; err != nil {
			return nil, err
		}
		if !req.RowsSet {
			return NewResult(items, int64(len(items)), 1, len(items)), nil
		}
		total, err := count[T](db, f, p)
		if err != nil {
			return nil, err
		}
		return NewResult(items, total, 1, req.Rows), nil
	}

	total, err := count[T](db, f, p)
	if err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.Rows
	if err := f.Apply(db.Model(new(T)), p).
		Scopes(scopes...).
		Offset(offset).
		Limit(req.Rows).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return NewResult(items, total, req.Page, req.Rows), nil
}

func count[T any](db *gorm.DB, f *Filter, p Params) (int64, error) {
	var total int64
	err := f.Where(db.Model(new(T)), p).Count(&total).Error
	return total, err
}
