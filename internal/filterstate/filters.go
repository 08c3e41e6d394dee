package filterstate

import (
	"strings"

	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/listquery"
)

// ListingMode narrows results to rentals or sales. Empty means both.
type ListingMode string

const (
	ModeAny  ListingMode = ""
	ModeRent ListingMode = "rent"
	ModeSale ListingMode = "sale"
)

type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// BedroomsStudio is the picker token for zero-bedroom listings.
const BedroomsStudio = "Studio"

// PriceRange is an inclusive bound. A nil Max is open-ended ("50,000+").
type PriceRange struct {
	Label string
	Min   *float64
	Max   *float64
}

// Filters is the user's current filter selection. The zero value filters nothing.
type Filters struct {
	PriceRange *PriceRange
	// Bedrooms is "Studio", an integer such as "2", or a lower bound such as "4+".
	Bedrooms string
	Features []string
	Type     ListingMode
}

// ActiveCount is the number of filter chips the selection shows.
func (f Filters) ActiveCount() int {
	n := len(f.Features)
	if f.PriceRange != nil {
		n++
	}
	if f.Bedrooms != "" {
		n++
	}
	if f.Type != ModeAny {
		n++
	}
	return n
}

func (f Filters) clone() Filters {
	out := f
	if f.PriceRange != nil {
		pr := *f.PriceRange
		out.PriceRange = &pr
	}
	out.Features = append([]string(nil), f.Features...)
	return out
}

// BuildQuery turns a selection and free-text search into a listing query.
// Unrecognized bedroom tokens are dropped.
func BuildQuery(f Filters, search string, limit int) listquery.Query {
	q := listquery.Query{
		Page:      listquery.DefaultPage,
		Limit:     limit,
		SortBy:    listquery.SortCreatedAt,
		SortOrder: listquery.OrderDesc,
		Search:    strings.TrimSpace(search),
	}
	if q.Limit <= 0 {
		q.Limit = listquery.DefaultLimit
	}
	if f.PriceRange != nil {
		q.MinPrice = f.PriceRange.Min
		q.MaxPrice = f.PriceRange.Max
	}
	token := strings.TrimSpace(f.Bedrooms)
	if strings.EqualFold(token, BedroomsStudio) {
		token = "0"
	}
	if b, ok := listquery.ParseBedrooms(token); ok {
		q.Bedrooms = &b
	}
	if len(f.Features) > 0 {
		q.Features = append([]string(nil), f.Features...)
	}
	switch f.Type {
	case ModeRent:
		q.ListingType = domain.ListingRent
	case ModeSale:
		q.ListingType = domain.ListingSale
	}
	return q
}
