package properties

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/listquery"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

const (
	FeaturedMinAuraScore = 85
	DefaultFeaturedLimit = 8
	similarLimit         = 4
	similarPriceBand     = 0.3
)

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ListResult struct {
	Properties []domain.Property `json:"properties"`
	Pagination Pagination        `json:"pagination"`
}

// List returns one page of active listings matching q. When viewer is set each
// listing carries isSaved for that viewer.
func (s *Service) List(ctx context.Context, q listquery.Query, viewer *uuid.UUID) (*ListResult, error) {
	props, total, err := s.page(ctx, q)
	if err != nil {
		return nil, err
	}
	if viewer != nil {
		if err := s.markSaved(ctx, *viewer, props); err != nil {
			return nil, err
		}
	}
	return &ListResult{
		Properties: props,
		Pagination: Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: q.Pages(total),
		},
	}, nil
}

// page serves from the listing cache when configured and falls back to the database.
func (s *Service) page(ctx context.Context, q listquery.Query) ([]domain.Property, int64, error) {
	if s.Cache == nil {
		return s.queryPage(ctx, q)
	}
	key, err := s.Cache.Key(ctx, q)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("listing cache unavailable")
		return s.queryPage(ctx, q)
	}
	if cached, ok, err := s.Cache.get(ctx, key); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("listing cache read failed")
	} else if ok {
		return cached.Properties, cached.Total, nil
	}

	props, total, err := s.queryPage(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	if err := s.Cache.set(ctx, key, &cachedPage{Properties: props, Total: total}); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("listing cache write failed")
	}
	return props, total, nil
}

// queryPage runs the page query and the count query concurrently over the same filters.
func (s *Service) queryPage(ctx context.Context, q listquery.Query) ([]domain.Property, int64, error) {
	var (
		props []domain.Property
		total int64
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		db := withDetail(applyFilters(s.DB.WithContext(ctx), q))
		if err := db.Order(orderBy(q)).Offset(q.Offset()).Limit(q.Limit).Find(&props).Error; err != nil {
			return fmt.Errorf("Failed to fetch properties: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		db := applyFilters(s.DB.WithContext(ctx).Model(&domain.Property{}), q)
		if err := db.Count(&total).Error; err != nil {
			return fmt.Errorf("Failed to count properties: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, 0, err
	}
	if props == nil {
		props = []domain.Property{}
	}
	return props, total, nil
}

func applyFilters(db *gorm.DB, q listquery.Query) *gorm.DB {
	db = db.Where("status = ?", string(domain.StatusActive))
	if q.Type != "" {
		db = db.Where("type = ?", string(q.Type))
	}
	if q.ListingType != "" {
		db = db.Where("listing_type = ?", string(q.ListingType))
	}
	if q.MinPrice != nil {
		db = db.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("price <= ?", *q.MaxPrice)
	}
	if q.Bedrooms != nil {
		if q.Bedrooms.AtLeast {
			db = db.Where("bedrooms >= ?", q.Bedrooms.Count)
		} else {
			db = db.Where("bedrooms = ?", q.Bedrooms.Count)
		}
	}
	if q.Bathrooms != nil {
		db = db.Where("bathrooms >= ?", *q.Bathrooms)
	}
	if q.City != "" {
		db = db.Where(`LOWER(city) LIKE ? ESCAPE '\'`, containsPattern(q.City))
	}
	if q.PetFriendly {
		db = db.Where("pet_friendly = ?", true)
	}
	if len(q.Features) > 0 {
		db = db.Where("EXISTS (SELECT 1 FROM property_features pf WHERE pf.property_id = properties.id AND pf.name IN ?)", q.Features)
	}
	if q.Search != "" {
		pat := containsPattern(q.Search)
		db = db.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\' OR LOWER(city) LIKE ? ESCAPE '\')`,
			pat, pat, pat, pat)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive substring LIKE pattern with wildcards escaped.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// orderBy only ever emits whitelisted columns. id breaks ties so pages are stable.
func orderBy(q listquery.Query) string {
	col := "created_at"
	switch q.SortBy {
	case listquery.SortPrice:
		col = "price"
	case listquery.SortAuraScore:
		col = "aura_score_overall"
	}
	dir := "DESC"
	if q.SortOrder == listquery.OrderAsc {
		dir = "ASC"
	}
	return col + " " + dir + ", id ASC"
}

func withDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Preload("Features").
		Preload("Owner")
}

// markSaved sets IsSaved on props with one lookup against the viewer's saved set.
func (s *Service) markSaved(ctx context.Context, viewer uuid.UUID, props []domain.Property) error {
	if len(props) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(props))
	for i := range props {
		ids[i] = props[i].ID
	}
	var saved []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&domain.SavedProperty{}).
		Where("user_id = ? AND property_id IN ?", viewer, ids).
		Pluck("property_id", &saved).Error; err != nil {
		return fmt.Errorf("Failed to load saved flags: %w", err)
	}
	set := make(map[uuid.UUID]struct{}, len(saved))
	for _, id := range saved {
		set[id] = struct{}{}
	}
	for i := range props {
		_, props[i].IsSaved = set[props[i].ID]
	}
	return nil
}

// Featured returns top-rated active listings, best first.
func (s *Service) Featured(ctx context.Context, listingType domain.ListingType, limit int) ([]domain.Property, error) {
	if limit <= 0 || limit > listquery.MaxLimit {
		limit = DefaultFeaturedLimit
	}
	db := withDetail(s.DB.WithContext(ctx)).
		Where("status = ? AND aura_score_overall >= ?", string(domain.StatusActive), FeaturedMinAuraScore)
	if listingType.Valid() {
		db = db.Where("listing_type = ?", string(listingType))
	}
	var props []domain.Property
	if err := db.Order("aura_score_overall DESC, id ASC").Limit(limit).Find(&props).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch featured properties: %w", err)
	}
	return props, nil
}

// Similar returns up to four active listings in the same city and listing type
// priced within 30% of the given listing.
func (s *Service) Similar(ctx context.Context, id uuid.UUID) ([]domain.Property, error) {
	var src domain.Property
	if err := s.DB.WithContext(ctx).Select("id", "listing_type", "city", "price").Where("id = ?", id).First(&src).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	var props []domain.Property
	err := withDetail(s.DB.WithContext(ctx)).
		Where("id <> ?", src.ID).
		Where("status = ?", string(domain.StatusActive)).
		Where("listing_type = ?", string(src.ListingType)).
		Where("city = ?", src.City).
		Where("price BETWEEN ? AND ?", src.Price*(1-similarPriceBand), src.Price*(1+similarPriceBand)).
		Order("aura_score_overall DESC, id ASC").
		Limit(similarLimit).
		Find(&props).Error
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch similar properties: %w", err)
	}
	return props, nil
}

// CountListings reports how many listings exist and how many of them are active.
func (s *Service) CountListings(ctx context.Context) (active, total int64, err error) {
	var row struct {
		Active int64
		Total  int64
	}
	err = s.DB.WithContext(ctx).Model(&domain.Property{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active", string(domain.StatusActive)).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("Failed to count listings: %w", err)
	}
	return row.Active, row.Total, nil
}
