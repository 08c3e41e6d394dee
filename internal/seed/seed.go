// Package seed loads demo accounts and listings into an empty database.
package seed

import (
	"context"
	"fmt"
	"time"

	appsvc "auraestate-backend/internal/application/applications"
	propsvc "auraestate-backend/internal/application/properties"
	savedsvc "auraestate-backend/internal/application/saved"
	"auraestate-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DemoPassword = "password123"

// Options tune a seed run.
type Options struct {
	// BcryptCost defaults to 12.
	BcryptCost int
	// Reset deletes existing rows first.
	Reset bool
}

// Result names the records a run created.
type Result struct {
	Renter     domain.User
	Landlord   domain.User
	Buyer      domain.User
	Properties []domain.Property
}

func Run(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 12
	}
	if opts.Reset {
		if err := reset(ctx, db); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	res := &Result{
		Renter:   domain.User{Email: "renter@demo.com", FirstName: "Alex", LastName: "Johnson", Phone: strPtr("+1-555-0101"), Role: domain.RoleRenter},
		Landlord: domain.User{Email: "landlord@demo.com", FirstName: "Sarah", LastName: "Chen", Phone: strPtr("+1-555-0102"), Role: domain.RoleLandlord},
		Buyer:    domain.User{Email: "buyer@demo.com", FirstName: "Michael", LastName: "Smith", Phone: strPtr("+1-555-0103"), Role: domain.RoleBuyer},
	}
	for _, u := range []*domain.User{&res.Renter, &res.Landlord, &res.Buyer} {
		u.PasswordHash = string(hash)
		if err := db.WithContext(ctx).Create(u).Error; err != nil {
			return nil, fmt.Errorf("create user %s: %w", u.Email, err)
		}
	}
	log.Info().Int("count", 3).Msg("users created")

	props := &propsvc.Service{DB: db}
	owner := domain.Actor{ID: res.Landlord.ID, Role: res.Landlord.Role}
	for _, in := range listings() {
		p, err := props.Create(ctx, owner, in)
		if err != nil {
			return nil, fmt.Errorf("create property %q: %w", in.Title, err)
		}
		res.Properties = append(res.Properties, *p)
	}
	log.Info().Int("count", len(res.Properties)).Msg("properties created")

	first := res.Properties[0]
	saved := &savedsvc.Service{DB: db}
	if _, err := saved.Save(ctx, res.Renter.ID, first.ID, strPtr("Love the location!")); err != nil {
		return nil, fmt.Errorf("save demo property: %w", err)
	}
	apps := &appsvc.Service{DB: db}
	moveIn := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := apps.Submit(ctx, domain.Actor{ID: res.Renter.ID, Role: res.Renter.Role}, appsvc.SubmitInput{
		PropertyID: first.ID,
		Message:    strPtr("Hi, I am very interested in this property. I have a stable income and great references."),
		MoveInDate: &moveIn,
		LeaseTerm:  intPtr(12),
	}); err != nil {
		return nil, fmt.Errorf("submit demo application: %w", err)
	}
	log.Info().Msg("sample interactions created")
	return res, nil
}

func reset(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.Notification{},
			&domain.Message{},
			&domain.Viewing{},
			&domain.Application{},
			&domain.SavedProperty{},
			&domain.PropertyEvent{},
			&domain.PropertyFeature{},
			&domain.PropertyImage{},
			&domain.Property{},
			&domain.TenantProfile{},
			&domain.LandlordProfile{},
			&domain.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("reset: %w", err)
			}
		}
		return nil
	})
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func features(names ...string) []propsvc.FeatureInput {
	out := make([]propsvc.FeatureInput, len(names))
	for i, n := range names {
		out[i] = propsvc.FeatureInput{Name: n}
	}
	return out
}

func images(ids ...string) []propsvc.ImageInput {
	out := make([]propsvc.ImageInput, len(ids))
	for i, id := range ids {
		out[i] = propsvc.ImageInput{URL: "https://images.unsplash.com/" + id + "?w=800&auto=format&fit=crop"}
	}
	return out
}

func listings() []propsvc.CreateInput {
	return []propsvc.CreateInput{
		{
			Title:       "Modern Loft in Downtown",
			Description: "Stunning modern loft featuring floor-to-ceiling windows with panoramic city views. Open-concept living with premium finishes throughout.",
			Type:        domain.PropertyLoft, ListingType: domain.ListingRent,
			Price: floatPtr(2800), PriceType: domain.PriceMonthly, Deposit: floatPtr(5600), PetDeposit: floatPtr(500),
			Address: "123 Urban Ave", City: "San Francisco", State: "CA", ZipCode: "94102",
			Bedrooms: intPtr(2), Bathrooms: floatPtr(2), Sqft: intPtr(1200), YearBuilt: intPtr(2020), Parking: strPtr("1 Space Included"),
			PetFriendly:      true,
			AuraScoreOverall: 92, AuraScoreLifestyle: 95, AuraScoreConnectivity: 90, AuraScoreEnvironment: 88,
			AvailableFrom: date(2026, time.January, 15), LeaseTerm: intPtr(12),
			Features: features("Home Office", "Gym Access", "Rooftop Terrace", "Smart Home", "In-Unit Laundry", "Central AC"),
			Images:   images("photo-1502672260266-1c1ef2d93688", "photo-1560448204-e02f11c3d0e2", "photo-1484154218962-a197022b5858"),
		},
		{
			Title:       "Luxury Penthouse Suite",
			Description: "Exclusive penthouse offering unparalleled luxury living with 360-degree views, private elevator access and a temperature-controlled wine cellar.",
			Type:        domain.PropertyPenthouse, ListingType: domain.ListingSale,
			Price: floatPtr(2450000), PriceType: domain.PriceTotal,
			Address: "888 Skyline Tower", City: "San Francisco", State: "CA", ZipCode: "94104",
			Bedrooms: intPtr(4), Bathrooms: floatPtr(3.5), Sqft: intPtr(3200), YearBuilt: intPtr(2022), Parking: strPtr("3 Spaces"),
			PetFriendly:      true,
			AuraScoreOverall: 98, AuraScoreLifestyle: 99, AuraScoreConnectivity: 96, AuraScoreEnvironment: 97,
			Features: features("Private Elevator", "Wine Cellar", "Chef's Kitchen", "Smart Home", "Concierge", "24/7 Security"),
			Images:   images("photo-1600596542815-ffad4c1539a9", "photo-1600607687939-ce8a6c25118c"),
		},
		{
			Title:       "Cozy Studio Near Transit",
			Description: "Efficient studio apartment perfect for young professionals. Steps away from BART station with excellent walkability score.",
			Type:        domain.PropertyStudio, ListingType: domain.ListingRent,
			Price: floatPtr(1650), PriceType: domain.PriceMonthly, Deposit: floatPtr(1650),
			Address: "45 Metro Lane", City: "San Francisco", State: "CA", ZipCode: "94110",
			Bedrooms: intPtr(0), Bathrooms: floatPtr(1), Sqft: intPtr(550), YearBuilt: intPtr(2015), Parking: strPtr("Street"),
			AuraScoreOverall: 78, AuraScoreLifestyle: 82, AuraScoreConnectivity: 95, AuraScoreEnvironment: 72,
			AvailableFrom: date(2026, time.February, 1), LeaseTerm: intPtr(12),
			Features: features("In-Unit Laundry", "Bike Storage", "Fast Transit", "Utilities Included"),
			Images:   images("photo-1522708323590-d24dbb6b0267"),
		},
		{
			Title:       "Victorian Townhouse",
			Description: "Beautifully restored Victorian townhouse blending period charm with modern amenities, bay windows and a sun-drenched private garden.",
			Type:        domain.PropertyTownhouse, ListingType: domain.ListingSale,
			Price: floatPtr(1875000), PriceType: domain.PriceTotal,
			Address: "567 Heritage Row", City: "San Francisco", State: "CA", ZipCode: "94115",
			Bedrooms: intPtr(3), Bathrooms: floatPtr(2.5), Sqft: intPtr(2400), YearBuilt: intPtr(1905), Parking: strPtr("1 Car Garage"),
			PetFriendly:      true,
			AuraScoreOverall: 89, AuraScoreLifestyle: 91, AuraScoreConnectivity: 78, AuraScoreEnvironment: 94,
			Features: features("Original Details", "Garden", "Home Office", "Updated Kitchen", "Fireplace", "Wine Storage"),
			Images:   images("photo-1568605114967-8130f3a36994"),
		},
		{
			Title:       "Waterfront Condo",
			Description: "Spectacular waterfront living with unobstructed bay views. Resort-style amenities include infinity pool, full-service spa and 24/7 concierge.",
			Type:        domain.PropertyCondo, ListingType: domain.ListingRent,
			Price: floatPtr(4200), PriceType: domain.PriceMonthly, Deposit: floatPtr(8400), PetDeposit: floatPtr(750),
			Address: "1 Marina Blvd", City: "San Francisco", State: "CA", ZipCode: "94123",
			Bedrooms: intPtr(3), Bathrooms: floatPtr(2), Sqft: intPtr(1800), YearBuilt: intPtr(2019), Parking: strPtr("2 Spaces"),
			PetFriendly:      true,
			AuraScoreOverall: 94, AuraScoreLifestyle: 96, AuraScoreConnectivity: 88, AuraScoreEnvironment: 95,
			AvailableFrom: date(2026, time.March, 15), LeaseTerm: intPtr(12),
			Features: features("Bay Views", "Pool", "Doorman", "Gym", "Spa", "Concierge"),
			Images:   images("photo-1512917774080-9991f1c4c750"),
		},
		{
			Title:       "Modern Family Home",
			Description: "Sustainable family home with modern amenities. Solar-powered with EV charging, spacious backyard and dedicated home office space.",
			Type:        domain.PropertyHouse, ListingType: domain.ListingSale,
			Price: floatPtr(1250000), PriceType: domain.PriceTotal,
			Address: "234 Sunset Drive", City: "San Francisco", State: "CA", ZipCode: "94122",
			Bedrooms: intPtr(4), Bathrooms: floatPtr(3), Sqft: intPtr(2800), YearBuilt: intPtr(2021), LotSize: floatPtr(0.15), Parking: strPtr("2 Car Garage"),
			PetFriendly:      true,
			AuraScoreOverall: 86, AuraScoreLifestyle: 84, AuraScoreConnectivity: 75, AuraScoreEnvironment: 92,
			Features: features("Backyard", "Home Office", "Solar Panels", "EV Charger", "Smart Home"),
			Images:   images("photo-1600585154340-be6161a56a0c"),
		},
		{
			Title:       "Artist Loft Conversion",
			Description: "Converted warehouse loft with soaring 16ft ceilings and original industrial details. Perfect for creatives seeking a live/work space.",
			Type:        domain.PropertyLoft, ListingType: domain.ListingRent,
			Price: floatPtr(3100), PriceType: domain.PriceMonthly, Deposit: floatPtr(6200),
			Address: "78 Gallery Way", City: "San Francisco", State: "CA", ZipCode: "94103",
			Bedrooms: intPtr(1), Bathrooms: floatPtr(1), Sqft: intPtr(1400), YearBuilt: intPtr(1920), Parking: strPtr("Street"),
			PetFriendly:      true,
			AuraScoreOverall: 85, AuraScoreLifestyle: 90, AuraScoreConnectivity: 87, AuraScoreEnvironment: 80,
			AvailableFrom: date(2026, time.February, 15), LeaseTerm: intPtr(12),
			Features: features("High Ceilings", "North Light", "Exposed Brick", "Freight Elevator"),
			Images:   images("photo-1536376072261-38c75010e6c9"),
		},
		{
			Title:       "Hillside Estate",
			Description: "Architectural masterpiece perched on Twin Peaks with 270-degree views of the city and bay, infinity pool and separate guest quarters.",
			Type:        domain.PropertyVilla, ListingType: domain.ListingSale,
			Price: floatPtr(4950000), PriceType: domain.PriceTotal,
			Address: "1 Summit Circle", City: "San Francisco", State: "CA", ZipCode: "94131",
			Bedrooms: intPtr(5), Bathrooms: floatPtr(4.5), Sqft: intPtr(5200), YearBuilt: intPtr(2018), LotSize: floatPtr(0.4), Parking: strPtr("4 Car Garage"),
			PetFriendly:      true,
			AuraScoreOverall: 97, AuraScoreLifestyle: 98, AuraScoreConnectivity: 82, AuraScoreEnvironment: 99,
			Features: features("Panoramic Views", "Pool", "Home Theater", "Wine Room", "Guest Suite", "Smart Home"),
			Images:   images("photo-1613490493576-7fde63acd811"),
		},
	}
}
