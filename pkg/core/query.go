package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPageSize is the number of notes per page when a Query leaves it unset.
const DefaultPageSize = 6

// SortField names the attribute notes are ordered by.
type SortField string

const (
	SortUpdatedAt SortField = "updatedAt"
	SortCreatedAt SortField = "createdAt"
	SortTitle     SortField = "title"
)

// SortOrder is either ascending or descending.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Query selects, orders and paginates a note collection.
// Zero values mean "no filter", updatedAt descending, first page.
type Query struct {
	CreatorID string
	Category  Category
	// Search is a case-insensitive substring matched against title, content and tags.
	Search string
	// Match is a doublestar glob matched against the lower-cased title.
	Match    string
	Sort     SortField
	Order    SortOrder
	Page     int
	PageSize int
}

// Page is one slice of a query result.
type Page struct {
	Notes      []Note
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Apply runs q over notes without touching storage. notes is not modified.
func Apply(notes []Note, q Query) (Page, error) {
	q, err := q.normalize()
	if err != nil {
		return Page{}, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	match := strings.ToLower(q.Match)

	filtered := make([]Note, 0, len(notes))
	for _, n := range notes {
		if q.CreatorID != "" && n.CreatorID != q.CreatorID {
			continue
		}
		if q.Category != "" && n.Category != q.Category {
			continue
		}
		if search != "" && !matchesSearch(n, search) {
			continue
		}
		if match != "" {
			ok, err := doublestar.Match(match, strings.ToLower(n.Title))
			if err != nil {
				return Page{}, fmt.Errorf("invalid match pattern %q: %w", q.Match, err)
			}
			if !ok {
				continue
			}
		}
		filtered = append(filtered, n.Clone())
	}

	slices.SortStableFunc(filtered, func(a, b Note) int {
		var c int
		switch q.Sort {
		case SortTitle:
			c = cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case SortCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		}
		if q.Order == OrderDesc {
			return -c
		}
		return c
	})

	total := len(filtered)
	page := Page{
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (total + q.PageSize - 1) / q.PageSize,
		Notes:      []Note{},
	}

	start := (q.Page - 1) * q.PageSize
	if start < total {
		end := min(start+q.PageSize, total)
		page.Notes = filtered[start:end]
	}
	return page, nil
}

func (q Query) normalize() (Query, error) {
	switch q.Sort {
	case "":
		q.Sort = SortUpdatedAt
	case SortUpdatedAt, SortCreatedAt, SortTitle:
	default:
		return q, fmt.Errorf("unknown sort field %q", q.Sort)
	}
	switch q.Order {
	case "":
		q.Order = OrderDesc
	case OrderAsc, OrderDesc:
	default:
		return q, fmt.Errorf("unknown sort order %q", q.Order)
	}
	if q.Category != "" && !q.Category.Valid() {
		return q, fmt.Errorf("%w: %q", ErrInvalidCategory, q.Category)
	}
	if q.Match != "" && !doublestar.ValidatePattern(strings.ToLower(q.Match)) {
		return q, fmt.Errorf("invalid match pattern %q: %w", q.Match, doublestar.ErrBadPattern)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q, nil
}

func matchesSearch(n Note, needle string) bool {
	if strings.Contains(strings.ToLower(n.Title), needle) ||
		strings.Contains(strings.ToLower(n.Content), needle) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
