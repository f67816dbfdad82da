package pagination

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/zunw/ecommerce/pkg/errors"
)

// Page size bounds.
const (
	DefaultSize = 20
	MaxSize     = 100
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection parses "asc" or "desc" case-insensitively. Empty means Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("sort direction must be asc or desc, got %q", s))
	}
}

// Order sorts by one property.
type Order struct {
	Property  string
	Direction Direction
}

// Pageable selects one page of an ordered result set. Page is zero-based.
// An empty Sort means the store's insertion order.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// DefaultPageable returns the first page with the default size and no sort.
func DefaultPageable() Pageable {
	return Pageable{Page: 0, Size: DefaultSize}
}

// Offset returns the number of rows preceding the page.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Sorted reports whether an explicit sort was requested.
func (p Pageable) Sorted() bool {
	return len(p.Sort) > 0
}

// Validate checks bounds and that every sort property is one of allowed.
func (p Pageable) Validate(allowed ...string) error {
	if p.Page < 0 {
		return apperrors.InvalidInput("page must not be negative")
	}
	if p.Size < 1 || p.Size > MaxSize {
		return apperrors.InvalidInput(fmt.Sprintf("size must be between 1 and %d", MaxSize))
	}
	if p.Page > math.MaxInt/p.Size {
		return apperrors.InvalidInput(fmt.Sprintf("page %d is out of range for size %d", p.Page, p.Size))
	}
	for _, o := range p.Sort {
		if !contains(allowed, o.Property) {
			return apperrors.InvalidInput(fmt.Sprintf("cannot sort by %q, must be one of: %s", o.Property, strings.Join(allowed, ", ")))
		}
	}
	return nil
}

// FromRequest reads a Pageable from query parameters:
//
//	page          zero-based page index (default 0)
//	size, limit   page size (default 20, max 100)
//	sortBy        property to sort by, with sortDirection asc|desc
//	sort          repeated "property[,direction]" pairs
//
// Malformed values produce an InvalidInput error.
func FromRequest(r *http.Request) (Pageable, error) {
	q := r.URL.Query()
	p := DefaultPageable()

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return p, apperrors.InvalidInput("page must be a non-negative integer")
		}
		p.Page = page
	}

	size := q.Get("size")
	if size == "" {
		size = q.Get("limit")
	}
	if size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 || n > MaxSize {
			return p, apperrors.InvalidInput(fmt.Sprintf("size must be an integer between 1 and %d", MaxSize))
		}
		p.Size = n
	}

	if prop := strings.TrimSpace(q.Get("sortBy")); prop != "" {
		dir, err := ParseDirection(q.Get("sortDirection"))
		if err != nil {
			return p, err
		}
		p.Sort = append(p.Sort, Order{Property: prop, Direction: dir})
	}

	for _, s := range q["sort"] {
		prop, rawDir, _ := strings.Cut(s, ",")
		prop = strings.TrimSpace(prop)
		if prop == "" {
			return p, apperrors.InvalidInput("sort property must not be empty")
		}
		dir, err := ParseDirection(rawDir)
		if err != nil {
			return p, err
		}
		p.Sort = append(p.Sort, Order{Property: prop, Direction: dir})
	}

	return p, nil
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage builds a Page from the page content and the total row count.
func NewPage[T any](content []T, total int64, p Pageable) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if p.Size > 0 {
		totalPages = int(total / int64(p.Size))
		if total%int64(p.Size) > 0 {
			totalPages++
		}
	}

	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           p.Page,
		Size:             p.Size,
		NumberOfElements: len(content),
		First:            p.Page == 0,
		Last:             p.Page >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
