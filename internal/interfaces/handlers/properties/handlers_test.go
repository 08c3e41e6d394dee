package properties

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	propsvc "auraestate-backend/internal/application/properties"
	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPropertiesHandlers(t *testing.T) (*Handlers, *gorm.DB, domain.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Models()...))
	owner := domain.User{Email: "landlord@demo.com", PasswordHash: "x", FirstName: "Sarah", LastName: "Chen", Role: domain.RoleLandlord}
	require.NoError(t, db.Create(&owner).Error)
	return &Handlers{Service: &propsvc.Service{DB: db}}, db, owner
}

func seed(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, price float64, aura int) domain.Property {
	p := domain.Property{
		OwnerID: owner, Title: title, Description: "d", Type: domain.PropertyApartment,
		ListingType: domain.ListingRent, Status: domain.StatusActive, Price: price, PriceType: domain.PriceMonthly,
		Address: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701", Bedrooms: 1, Bathrooms: 1, Sqft: 700,
		AuraScoreOverall: aura,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// asActor stands in for RequireAuth.
func asActor(actor domain.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		middleware.SetActor(c, &actor)
		return c.Next()
	}
}

func decode(t *testing.T, resp io.Reader) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp).Decode(&out))
	return out
}

func TestFeatured_OnlyHighAura(t *testing.T) {
	h, db, owner := setupPropertiesHandlers(t)
	seed(t, db, owner.ID, "Top", 1000, 95)
	seed(t, db, owner.ID, "Good", 1000, 86)
	seed(t, db, owner.ID, "Average", 1000, 60)

	app := fiber.New()
	app.Get("/featured", h.Featured)
	resp, err := app.Test(httptest.NewRequest("GET", "/featured?limit=1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	props := decode(t, resp.Body)["properties"].([]interface{})
	require.Len(t, props, 1)
	assert.Equal(t, "Top", props[0].(map[string]interface{})["title"])
}

func TestSimilar(t *testing.T) {
	h, db, owner := setupPropertiesHandlers(t)
	src := seed(t, db, owner.ID, "Source", 2000, 70)
	seed(t, db, owner.ID, "Close", 2200, 70)
	seed(t, db, owner.ID, "Far", 4000, 70)

	app := fiber.New()
	app.Get("/:id/similar", h.Similar)
	resp, err := app.Test(httptest.NewRequest("GET", "/"+src.ID.String()+"/similar", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	similar := decode(t, resp.Body)["similar"].([]interface{})
	require.Len(t, similar, 1)
	assert.Equal(t, "Close", similar[0].(map[string]interface{})["title"])

	resp, err = app.Test(httptest.NewRequest("GET", "/"+uuid.NewString()+"/similar", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestCreate_InvalidBody(t *testing.T) {
	h, _, owner := setupPropertiesHandlers(t)
	app := fiber.New()
	app.Post("/", asActor(domain.Actor{ID: owner.ID, Role: owner.Role}), h.Create)

	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Invalid request body", decode(t, resp.Body)["error"])
}

func TestList_ViewerSeesSavedFlag(t *testing.T) {
	h, db, owner := setupPropertiesHandlers(t)
	p := seed(t, db, owner.ID, "Bookmarked", 1000, 70)
	require.NoError(t, db.Create(&domain.SavedProperty{UserID: owner.ID, PropertyID: p.ID}).Error)

	app := fiber.New()
	app.Get("/anon", h.List)
	app.Get("/me", asActor(domain.Actor{ID: owner.ID, Role: owner.Role}), h.List)

	resp, err := app.Test(httptest.NewRequest("GET", "/anon", nil))
	require.NoError(t, err)
	props := decode(t, resp.Body)["properties"].([]interface{})
	assert.Equal(t, false, props[0].(map[string]interface{})["isSaved"])

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	props = decode(t, resp.Body)["properties"].([]interface{})
	assert.Equal(t, true, props[0].(map[string]interface{})["isSaved"])
}
