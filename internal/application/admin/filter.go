package admin

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Guard gates every admin operation on the session's role flag. The
// authoritative check is server-side; this keeps the screens unreachable
// for non-admin sessions.
type Guard interface {
	IsAdmin() bool
}

// Page is one slice of a filtered, sorted collection
type Page[T any] struct {
	Items      []T
	Total      int // matches after filtering, before slicing
	PageNumber int
	PageCount  int
}

// Empty reports whether the filters matched nothing. Screens render an
// explicit empty-state row for this, never a blank table.
func (p Page[T]) Empty() bool {
	return p.Total == 0
}

// folder performs Unicode case folding for the text search
var folder = cases.Fold()

// foldContains reports whether any of the fields contains the search term,
// case-folded. An empty term matches everything.
func foldContains(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	needle := folder.String(term)
	for _, field := range fields {
		if strings.Contains(folder.String(field), needle) {
			return true
		}
	}
	return false
}

// DateRange filters on a half-open interval; zero bounds are open ends
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

// paginate slices one page out of the filtered collection
func paginate[T any](items []T, pageNumber, pageSize int) Page[T] {
	total := len(items)
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > pageCount {
		pageNumber = pageCount
	}

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Total:      total,
		PageNumber: pageNumber,
		PageCount:  pageCount,
	}
}
