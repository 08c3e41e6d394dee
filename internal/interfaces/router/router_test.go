package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auraestate-backend/internal/auth"
	"auraestate-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	tokens *auth.Tokens
}

func setupRouterTest(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Models()...))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	tokens := auth.NewTokens("router-test-secret")
	app := Mount(Deps{
		DB:             db,
		Rdb:            rdb,
		Tokens:         tokens,
		AllowedOrigins: []string{"http://localhost:5173"},
		HealthAdminKey: "admin-key",
	})
	return &testEnv{app: app, db: db, tokens: tokens}
}

func (e *testEnv) user(t *testing.T, role domain.Role, first string) (domain.User, string) {
	u := domain.User{Email: uuid.NewString() + "@demo.com", PasswordHash: "x", FirstName: first, LastName: "Demo", Role: role}
	require.NoError(t, e.db.Create(&u).Error)
	tok, err := e.tokens.Sign(u.ID, u.Role, time.Hour)
	require.NoError(t, err)
	return u, tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func listing(title, city string, price float64, bedrooms int) map[string]interface{} {
	return map[string]interface{}{
		"title":            title,
		"description":      "A lovely place",
		"type":             "APARTMENT",
		"listingType":      "RENT",
		"price":            price,
		"address":          "1 Main St",
		"city":             city,
		"state":            "TX",
		"zipCode":          "78701",
		"bedrooms":         bedrooms,
		"bathrooms":        1,
		"sqft":             850,
		"auraScoreOverall": 80,
		"features":         []map[string]string{{"name": "Gym"}},
		"images":           []map[string]string{{"url": "https://img.example/1.jpg"}, {"url": "https://img.example/2.jpg"}},
	}
}

func ids(t *testing.T, out map[string]interface{}, key string) []string {
	list, ok := out[key].([]interface{})
	require.True(t, ok, "missing %s", key)
	res := make([]string, 0, len(list))
	for _, p := range list {
		res = append(res, p.(map[string]interface{})["id"].(string))
	}
	return res
}

func TestCreateProperty_AuthAndRoles(t *testing.T) {
	env := setupRouterTest(t)
	_, renter := env.user(t, domain.RoleRenter, "Alex")
	_, landlord := env.user(t, domain.RoleLandlord, "Sarah")

	code, _ := env.do(t, "POST", "/api/properties", "", listing("Loft", "Austin", 1800, 1))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = env.do(t, "POST", "/api/properties", renter, listing("Loft", "Austin", 1800, 1))
	assert.Equal(t, http.StatusForbidden, code)

	bad := listing("", "Austin", 1800, 1)
	code, out := env.do(t, "POST", "/api/properties", landlord, bad)
	assert.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, out, "errors")
	first := out["errors"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "title", first["field"])

	code, out = env.do(t, "POST", "/api/properties", landlord, listing("Loft", "Austin", 1800, 1))
	require.Equal(t, http.StatusCreated, code)
	p := out["property"].(map[string]interface{})
	assert.Equal(t, "ACTIVE", p["status"])
	assert.Equal(t, "MONTHLY", p["priceType"])
	images := p["images"].([]interface{})
	require.Len(t, images, 2)
	assert.Equal(t, true, images[0].(map[string]interface{})["isPrimary"])
}

func TestScenario_CreateFilterRentFetch(t *testing.T) {
	env := setupRouterTest(t)
	_, landlord := env.user(t, domain.RoleLandlord, "Sarah")

	code, out := env.do(t, "POST", "/api/properties", landlord, listing("Two bed", "Austin", 2000, 2))
	require.Equal(t, http.StatusCreated, code)
	id := out["property"].(map[string]interface{})["id"].(string)
	code, _ = env.do(t, "POST", "/api/properties", landlord, listing("Three bed", "Austin", 2600, 3))
	require.Equal(t, http.StatusCreated, code)

	code, out = env.do(t, "GET", "/api/properties?bedrooms=2&city=aus&maxPrice=2100", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{id}, ids(t, out, "properties"))
	pag := out["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pag["total"])
	assert.Equal(t, float64(12), pag["limit"])
	assert.Equal(t, float64(1), pag["pages"])

	code, _ = env.do(t, "PUT", "/api/properties/"+id, landlord, map[string]interface{}{"status": "RENTED"})
	require.Equal(t, http.StatusOK, code)

	code, out = env.do(t, "GET", "/api/properties?bedrooms=2&city=aus&maxPrice=2100", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, ids(t, out, "properties"))

	code, out = env.do(t, "GET", "/api/properties/"+id, "", nil)
	require.Equal(t, http.StatusOK, code)
	p := out["property"].(map[string]interface{})
	assert.Equal(t, "RENTED", p["status"])
	assert.Equal(t, float64(1), p["viewCount"])

	code, out = env.do(t, "GET", "/api/properties/"+id+"/events", landlord, nil)
	require.Equal(t, http.StatusOK, code)
	events := out["events"].([]interface{})
	require.Len(t, events, 2)
	assert.Equal(t, "STATUS_CHANGED", events[1].(map[string]interface{})["eventType"])
}

func TestGetProperty_NotFound(t *testing.T) {
	env := setupRouterTest(t)
	for _, path := range []string{"/api/properties/" + uuid.NewString(), "/api/properties/not-a-uuid"} {
		code, out := env.do(t, "GET", path, "", nil)
		assert.Equal(t, http.StatusNotFound, code, path)
		assert.Equal(t, "Property not found", out["error"])
	}
}

func TestUpdateProperty_ForbiddenForOthers(t *testing.T) {
	env := setupRouterTest(t)
	_, landlord := env.user(t, domain.RoleLandlord, "Sarah")
	_, other := env.user(t, domain.RoleLandlord, "Mike")
	_, admin := env.user(t, domain.RoleAdmin, "Ada")

	_, out := env.do(t, "POST", "/api/properties", landlord, listing("Mine", "Austin", 1500, 1))
	id := out["property"].(map[string]interface{})["id"].(string)

	code, _ := env.do(t, "PUT", "/api/properties/"+id, other, map[string]interface{}{"price": 1})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = env.do(t, "DELETE", "/api/properties/"+id, other, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = env.do(t, "DELETE", "/api/properties/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(t, "GET", "/api/properties/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSaveFlow(t *testing.T) {
	env := setupRouterTest(t)
	_, landlord := env.user(t, domain.RoleLandlord, "Sarah")
	_, renter := env.user(t, domain.RoleRenter, "Alex")
	_, out := env.do(t, "POST", "/api/properties", landlord, listing("Saved one", "Austin", 1500, 1))
	id := out["property"].(map[string]interface{})["id"].(string)

	// anonymous page first so the cache holds it
	code, _ := env.do(t, "GET", "/api/properties", "", nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, "POST", "/api/users/saved/"+id, renter, map[string]string{"notes": "close to work"})
	assert.Equal(t, http.StatusCreated, code)
	code, out = env.do(t, "POST", "/api/users/saved/"+id, renter, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Property already saved", out["error"])

	_, out = env.do(t, "GET", "/api/properties", renter, nil)
	p := out["properties"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, p["isSaved"])
	assert.Equal(t, float64(1), p["saveCount"])

	_, out = env.do(t, "GET", "/api/properties", "", nil)
	p = out["properties"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, false, p["isSaved"])

	code, out = env.do(t, "GET", "/api/users/saved", renter, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["saved"].([]interface{}), 1)

	code, _ = env.do(t, "DELETE", "/api/users/saved/"+id, renter, nil)
	assert.Equal(t, http.StatusOK, code)
	code, out = env.do(t, "DELETE", "/api/users/saved/"+id, renter, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Saved property not found", out["error"])

	code, _ = env.do(t, "POST", "/api/users/saved/"+uuid.NewString(), renter, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestApplicationFlow(t *testing.T) {
	env := setupRouterTest(t)
	_, landlord := env.user(t, domain.RoleLandlord, "Sarah")
	_, renter := env.user(t, domain.RoleRenter, "Alex")
	_, out := env.do(t, "POST", "/api/properties", landlord, listing("Apply here", "Austin", 1500, 1))
	propertyID := out["property"].(map[string]interface{})["id"].(string)

	code, out := env.do(t, "POST", "/api/applications", renter, map[string]interface{}{"propertyId": propertyID, "message": "Hi"})
	require.Equal(t, http.StatusCreated, code)
	appID := out["application"].(map[string]interface{})["id"].(string)

	code, out = env.do(t, "POST", "/api/applications", renter, map[string]interface{}{"propertyId": propertyID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "You already have an application for this property", out["error"])

	code, out = env.do(t, "GET", "/api/applications/received?propertyId="+propertyID, landlord, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{appID}, ids(t, out, "applications"))

	code, out = env.do(t, "GET", "/api/users/notifications", landlord, nil)
	require.Equal(t, http.StatusOK, code)
	notes := ids(t, out, "notifications")
	require.Len(t, notes, 1)

	code, out = env.do(t, "PUT", "/api/users/notifications/"+notes[0]+"/read", landlord, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["notification"].(map[string]interface{})["isRead"])
	code, _ = env.do(t, "PUT", "/api/users/notifications/"+notes[0]+"/read", renter, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = env.do(t, "PUT", "/api/applications/"+appID+"/status", renter, map[string]string{"status": "APPROVED"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = env.do(t, "PUT", "/api/applications/"+appID+"/status", landlord, map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, out = env.do(t, "PUT", "/api/applications/"+appID+"/status", landlord, map[string]string{"status": "reviewing"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "REVIEWING", out["application"].(map[string]interface{})["status"])

	code, _ = env.do(t, "DELETE", "/api/applications/"+appID, renter, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(t, "DELETE", "/api/applications/"+appID, renter, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	_, out = env.do(t, "GET", "/api/properties/"+propertyID, "", nil)
	assert.Equal(t, float64(1), out["property"].(map[string]interface{})["inquiryCount"])
}

func TestListing_PermissiveQuery(t *testing.T) {
	env := setupRouterTest(t)
	_, landlord := env.user(t, domain.RoleLandlord, "Sarah")
	for i := 0; i < 3; i++ {
		code, _ := env.do(t, "POST", "/api/properties", landlord, listing(fmt.Sprintf("P%d", i), "Austin", 1000+float64(i), 1))
		require.Equal(t, http.StatusCreated, code)
	}
	code, out := env.do(t, "GET", "/api/properties?minPrice=abc&bedrooms=lots&type=CASTLE&limit=2&page=2&sortBy=price&sortOrder=asc", "", nil)
	require.Equal(t, http.StatusOK, code)
	props := out["properties"].([]interface{})
	require.Len(t, props, 1)
	assert.Equal(t, "P2", props[0].(map[string]interface{})["title"])
	pag := out["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pag["total"])
	assert.Equal(t, float64(2), pag["pages"])
}

func TestHealthAndUnknownRoute(t *testing.T) {
	env := setupRouterTest(t)
	code, out := env.do(t, "GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", out["status"])

	code, out = env.do(t, "GET", "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Endpoint not found", out["error"])

	code, out = env.do(t, "GET", "/health/json", "", nil)
	assert.Equal(t, http.StatusOK, code)
	deps := out["dependencies"].(map[string]interface{})
	assert.Equal(t, "connected", deps["database"].(map[string]interface{})["status"])
}

func TestProfileRoutes(t *testing.T) {
	env := setupRouterTest(t)
	_, renter := env.user(t, domain.RoleRenter, "Alex")

	code, _ := env.do(t, "GET", "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out := env.do(t, "PUT", "/api/users/profile", renter, map[string]string{"firstName": "Alexandra"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Alexandra", out["user"].(map[string]interface{})["firstName"])

	code, out = env.do(t, "GET", "/api/users/profile", renter, nil)
	require.Equal(t, http.StatusOK, code)
	user := out["user"].(map[string]interface{})
	assert.Equal(t, "Alexandra", user["firstName"])
	assert.Equal(t, float64(0), user["_count"].(map[string]interface{})["savedProperties"])
}

func TestMessagingAndViewingFlow(t *testing.T) {
	env := setupRouterTest(t)
	sarah, landlord := env.user(t, domain.RoleLandlord, "Sarah")
	alex, renter := env.user(t, domain.RoleRenter, "Alex")
	_, out := env.do(t, "POST", "/api/properties", landlord, listing("Talk about me", "Austin", 1800, 2))
	propertyID := out["property"].(map[string]interface{})["id"].(string)

	code, _ := env.do(t, "GET", "/api/messages/conversations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out = env.do(t, "POST", "/api/messages", renter, map[string]interface{}{
		"receiverId": sarah.ID.String(), "propertyId": propertyID, "content": "Is it still available?",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Alex", out["message"].(map[string]interface{})["sender"].(map[string]interface{})["firstName"])

	code, out = env.do(t, "GET", "/api/messages/unread/count", landlord, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), out["count"])

	code, out = env.do(t, "GET", "/api/messages/conversations", landlord, nil)
	require.Equal(t, http.StatusOK, code)
	convs := out["conversations"].([]interface{})
	require.Len(t, convs, 1)
	assert.Equal(t, alex.ID.String(), convs[0].(map[string]interface{})["otherUser"].(map[string]interface{})["id"])

	code, out = env.do(t, "GET", "/api/messages/"+alex.ID.String(), landlord, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["messages"], 1)
	_, out = env.do(t, "GET", "/api/messages/unread/count", landlord, nil)
	assert.Equal(t, float64(0), out["count"])

	code, _ = env.do(t, "GET", "/api/messages/not-a-uuid", landlord, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, out = env.do(t, "POST", "/api/applications/"+propertyID+"/schedule-viewing", renter, map[string]interface{}{
		"scheduledAt": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339), "type": "VIDEO_CALL",
	})
	require.Equal(t, http.StatusCreated, code, fmt.Sprint(out))
	assert.Equal(t, "SCHEDULED", out["viewing"].(map[string]interface{})["status"])

	code, out = env.do(t, "PUT", "/api/users/tenant-profile", renter, map[string]interface{}{"occupation": "Engineer", "creditScore": 720})
	require.Equal(t, http.StatusOK, code, fmt.Sprint(out))
	code, out = env.do(t, "GET", "/api/users/profile", renter, nil)
	require.Equal(t, http.StatusOK, code)
	tenant := out["user"].(map[string]interface{})["tenantProfile"].(map[string]interface{})
	assert.Equal(t, "Engineer", tenant["occupation"])
}
