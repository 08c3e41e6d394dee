// Package listquery parses and encodes the listing search query string shared by
// the properties endpoint and its Go client.
//
// Parsing is permissive: a parameter that is missing or cannot be understood is
// dropped, never reported.
package listquery

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"auraestate-backend/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside int.
	MaxPage = math.MaxInt / MaxLimit
)

const (
	SortCreatedAt = "createdAt"
	SortPrice     = "price"
	SortAuraScore = "auraScore"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Bedrooms is either an exact bedroom count or a lower bound ("4+").
type Bedrooms struct {
	Count   int
	AtLeast bool
}

// String renders the wire token: "2" for exact, "4+" for a lower bound.
func (b Bedrooms) String() string {
	s := strconv.Itoa(b.Count)
	if b.AtLeast {
		s += "+"
	}
	return s
}

// ParseBedrooms reads "0" (studio), an exact integer, or "N+".
func ParseBedrooms(token string) (Bedrooms, bool) {
	token = strings.TrimSpace(token)
	atLeast := strings.HasSuffix(token, "+")
	n, err := strconv.Atoi(strings.TrimSuffix(token, "+"))
	if err != nil || n < 0 {
		return Bedrooms{}, false
	}
	return Bedrooms{Count: n, AtLeast: atLeast}, true
}

// Query is a normalized listing search. The zero value lists page 1 of all
// active listings, newest first.
type Query struct {
	Type        domain.PropertyType
	ListingType domain.ListingType
	MinPrice    *float64
	MaxPrice    *float64
	Bedrooms    *Bedrooms
	Bathrooms   *float64
	City        string
	PetFriendly bool
	Features    []string
	Search      string
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

// Parse builds a Query from a parameter getter such as fiber's c.Query or url.Values.Get.
func Parse(get func(key string) string) Query {
	q := Query{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    SortCreatedAt,
		SortOrder: OrderDesc,
	}

	if t := domain.PropertyType(strings.ToUpper(strings.TrimSpace(get("type")))); t.Valid() {
		q.Type = t
	}
	if lt := domain.ListingType(strings.ToUpper(strings.TrimSpace(get("listingType")))); lt.Valid() {
		q.ListingType = lt
	}
	q.MinPrice = parseFloat(get("minPrice"))
	q.MaxPrice = parseFloat(get("maxPrice"))
	if b, ok := ParseBedrooms(get("bedrooms")); ok {
		q.Bedrooms = &b
	}
	q.Bathrooms = parseFloat(get("bathrooms"))
	q.City = strings.TrimSpace(get("city"))
	q.PetFriendly = get("petFriendly") == "true"
	q.Features = splitList(get("features"))
	q.Search = strings.TrimSpace(get("search"))

	switch get("sortBy") {
	case SortPrice:
		q.SortBy = SortPrice
	case SortAuraScore, "auraScoreOverall":
		q.SortBy = SortAuraScore
	}
	if strings.EqualFold(get("sortOrder"), OrderAsc) {
		q.SortOrder = OrderAsc
	}

	if n, err := strconv.Atoi(get("page")); err == nil && n > 0 {
		q.Page = min(n, MaxPage)
	}
	if n, err := strconv.Atoi(get("limit")); err == nil && n > 0 {
		q.Limit = n
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// ParseValues is Parse over url.Values.
func ParseValues(v url.Values) Query {
	return Parse(v.Get)
}

// Offset is the number of rows skipped before the requested page.
func (q Query) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Pages returns ceil(total/limit).
func (q Query) Pages(total int64) int {
	if q.Limit <= 0 {
		return 0
	}
	return int((total + int64(q.Limit) - 1) / int64(q.Limit))
}

// Values encodes the query back to wire parameters. Defaults are omitted so
// that equivalent queries encode identically.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if q.ListingType != "" {
		v.Set("listingType", string(q.ListingType))
	}
	if q.MinPrice != nil {
		v.Set("minPrice", formatFloat(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", formatFloat(*q.MaxPrice))
	}
	if q.Bedrooms != nil {
		v.Set("bedrooms", q.Bedrooms.String())
	}
	if q.Bathrooms != nil {
		v.Set("bathrooms", formatFloat(*q.Bathrooms))
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	if q.PetFriendly {
		v.Set("petFriendly", "true")
	}
	if len(q.Features) > 0 {
		v.Set("features", strings.Join(q.Features, ","))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" && q.SortBy != SortCreatedAt {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder == OrderAsc {
		v.Set("sortOrder", OrderAsc)
	}
	if q.Page > DefaultPage {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 && q.Limit != DefaultLimit {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
