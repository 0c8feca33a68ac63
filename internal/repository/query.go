package repository

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"noirstore/internal/models"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// paginate slices items after counting them. Out-of-range pages yield an empty slice.
func paginate[T any](items []T, page, limit int) ([]T, models.Pagination) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	total := len(items)
	meta := models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
	start := (page - 1) * limit
	if start >= total {
		return []T{}, meta
	}
	end := min(start+limit, total)
	return slices.Clone(items[start:end]), meta
}

// matchesSearch reports whether any field contains term, ignoring case.
func matchesSearch(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// matchesFilter treats "" and "ALL" as no filter.
func matchesFilter(value, filter string) bool {
	if filter == "" || strings.EqualFold(filter, "all") {
		return true
	}
	return value == filter
}

func descending(order string) bool {
	return !strings.EqualFold(order, "asc")
}

// sorter orders records stably by a single key.
type sorter[T any] struct {
	coll *collate.Collator
	desc bool
}

// collate.Collator keeps internal buffers, so each sort gets its own.
func newSorter[T any](order string) *sorter[T] {
	return &sorter[T]{
		coll: collate.New(language.English, collate.IgnoreCase),
		desc: descending(order),
	}
}

func (s *sorter[T]) byString(items []T, key func(T) string) {
	s.sort(items, func(a, b T) int { return s.coll.CompareString(key(a), key(b)) })
}

func (s *sorter[T]) byNumber(items []T, key func(T) float64) {
	s.sort(items, func(a, b T) int { return cmp.Compare(key(a), key(b)) })
}

func (s *sorter[T]) byTime(items []T, key func(T) int64) {
	s.sort(items, func(a, b T) int { return cmp.Compare(key(a), key(b)) })
}

func (s *sorter[T]) sort(items []T, compare func(a, b T) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		if s.desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
