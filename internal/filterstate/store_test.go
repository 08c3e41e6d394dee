package filterstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"auraestate-backend/internal/client"
	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/listquery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu      sync.Mutex
	queries []listquery.Query
	respond func(ctx context.Context, q listquery.Query) (*client.ListResponse, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context, q listquery.Query) (*client.ListResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	respond := f.respond
	f.mu.Unlock()
	if respond == nil {
		return page(1), nil
	}
	return respond(ctx, q)
}

func (f *fakeFetcher) setRespond(fn func(ctx context.Context, q listquery.Query) (*client.ListResponse, error)) {
	f.mu.Lock()
	f.respond = fn
	f.mu.Unlock()
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeFetcher) last() listquery.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func page(n int) *client.ListResponse {
	res := &client.ListResponse{Pagination: client.Pagination{Page: 1, Limit: 12, Total: int64(n)}}
	for i := 0; i < n; i++ {
		res.Properties = append(res.Properties, domain.Property{Title: "Listing"})
	}
	return res
}

func waitStatus(t *testing.T, s *Store, want Status) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool { return s.Snapshot().Status == want }, time.Second, 5*time.Millisecond)
	return s.Snapshot()
}

func TestBuildQuery(t *testing.T) {
	min, max := 20000.0, 35000.0
	q := BuildQuery(Filters{
		PriceRange: &PriceRange{Label: "NPR 20,000 - 35,000", Min: &min, Max: &max},
		Bedrooms:   BedroomsStudio,
		Features:   []string{"Gym", "Pool"},
		Type:       ModeRent,
	}, "  loft ", 0)

	assert.Equal(t, 20000.0, *q.MinPrice)
	assert.Equal(t, 35000.0, *q.MaxPrice)
	require.NotNil(t, q.Bedrooms)
	assert.Equal(t, listquery.Bedrooms{Count: 0}, *q.Bedrooms)
	assert.Equal(t, []string{"Gym", "Pool"}, q.Features)
	assert.Equal(t, domain.ListingRent, q.ListingType)
	assert.Equal(t, "loft", q.Search)
	assert.Equal(t, listquery.DefaultLimit, q.Limit)
}

func TestBuildQuery_BedroomTokens(t *testing.T) {
	cases := []struct {
		token string
		want  *listquery.Bedrooms
	}{
		{"Studio", &listquery.Bedrooms{Count: 0}},
		{"2", &listquery.Bedrooms{Count: 2}},
		{"4+", &listquery.Bedrooms{Count: 4, AtLeast: true}},
		{"", nil},
		{"many", nil},
	}
	for _, tc := range cases {
		t.Run(tc.token, func(t *testing.T) {
			q := BuildQuery(Filters{Bedrooms: tc.token}, "", 12)
			assert.Equal(t, tc.want, q.Bedrooms)
		})
	}
}

func TestBuildQuery_OpenEndedPrice(t *testing.T) {
	min := 50000.0
	q := BuildQuery(Filters{PriceRange: &PriceRange{Label: "NPR 50,000+", Min: &min}, Type: ModeSale}, "", 12)
	assert.Equal(t, "listingType=SALE&minPrice=50000", q.Values().Encode())
}

func TestFilters_ActiveCount(t *testing.T) {
	assert.Equal(t, 0, Filters{}.ActiveCount())
	assert.Equal(t, 4, Filters{PriceRange: &PriceRange{}, Bedrooms: "2", Features: []string{"Gym", "Pool"}}.ActiveCount())
}

func TestStore_DebounceCoalescesMutations(t *testing.T) {
	f := &fakeFetcher{}
	s := New(f, Options{Debounce: 50 * time.Millisecond})
	defer s.Close()

	s.SetSearchQuery("l")
	s.SetSearchQuery("lo")
	s.SetSearchQuery("loft")
	assert.Equal(t, StatusLoading, s.Snapshot().Status)

	snap := waitStatus(t, s, StatusLoaded)
	assert.Len(t, snap.Properties, 1)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, f.calls())
	assert.Equal(t, "loft", f.last().Search)
}

func TestStore_SupersededFetchIsDropped(t *testing.T) {
	release := make(chan struct{})
	firstCancelled := make(chan struct{})
	f := &fakeFetcher{}
	f.setRespond(func(ctx context.Context, q listquery.Query) (*client.ListResponse, error) {
		if q.Search == "" {
			<-ctx.Done()
			close(firstCancelled)
			<-release
			return page(5), nil
		}
		return page(1), nil
	})

	s := New(f, Options{Debounce: -1})
	defer s.Close()
	require.Eventually(t, func() bool { return f.calls() == 1 }, time.Second, time.Millisecond)

	s.SetSearchQuery("loft")
	select {
	case <-firstCancelled:
	case <-time.After(time.Second):
		t.Fatal("first fetch was not cancelled")
	}
	snap := waitStatus(t, s, StatusLoaded)
	assert.Len(t, snap.Properties, 1)

	close(release)
	time.Sleep(20 * time.Millisecond)
	snap = s.Snapshot()
	assert.Len(t, snap.Properties, 1)
	assert.Equal(t, "loft", snap.SearchQuery)
}

func TestStore_EmptyFailedAndRetry(t *testing.T) {
	f := &fakeFetcher{}
	f.setRespond(func(ctx context.Context, q listquery.Query) (*client.ListResponse, error) {
		return page(0), nil
	})
	s := New(f, Options{Debounce: -1})
	defer s.Close()
	waitStatus(t, s, StatusEmpty)

	boom := errors.New("connection refused")
	f.setRespond(func(ctx context.Context, q listquery.Query) (*client.ListResponse, error) {
		return nil, boom
	})
	s.SetType(ModeSale)
	snap := waitStatus(t, s, StatusFailed)
	assert.ErrorIs(t, snap.Err, boom)
	assert.Empty(t, snap.Properties)

	f.setRespond(nil)
	s.Retry()
	snap = waitStatus(t, s, StatusLoaded)
	assert.NoError(t, snap.Err)
	assert.Equal(t, domain.ListingSale, f.last().ListingType)
}

func TestStore_ClearFiltersFetchesOnce(t *testing.T) {
	f := &fakeFetcher{}
	s := New(f, Options{Debounce: -1})
	defer s.Close()
	waitStatus(t, s, StatusLoaded)

	s.SetSearchQuery("loft")
	s.SetBedrooms("2")
	s.ToggleFeature("Gym")
	s.SetType(ModeRent)
	require.Eventually(t, func() bool { return f.calls() == 5 }, time.Second, time.Millisecond)
	waitStatus(t, s, StatusLoaded)

	s.ClearFilters()
	waitStatus(t, s, StatusLoaded)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 6, f.calls())

	q := f.last()
	assert.Nil(t, q.Bedrooms)
	assert.Empty(t, q.Features)
	assert.Empty(t, q.ListingType)
	assert.Equal(t, "loft", q.Search)
	assert.Equal(t, 0, s.Snapshot().Filters.ActiveCount())
}

func TestStore_Toggles(t *testing.T) {
	f := &fakeFetcher{}
	s := New(f, Options{Debounce: time.Hour})
	defer s.Close()

	s.ToggleFeature("Gym")
	s.ToggleFeature("Pool")
	s.ToggleFeature("Gym")
	assert.Equal(t, []string{"Pool"}, s.Snapshot().Filters.Features)

	s.SetBedrooms("3")
	assert.Equal(t, "3", s.Snapshot().Filters.Bedrooms)
	s.SetBedrooms("3")
	assert.Empty(t, s.Snapshot().Filters.Bedrooms)

	s.SetViewMode(ViewList)
	assert.Equal(t, ViewList, s.Snapshot().ViewMode)
	assert.Equal(t, 0, f.calls())
}

func TestStore_CloseStopsFetching(t *testing.T) {
	f := &fakeFetcher{}
	s := New(f, Options{Debounce: 20 * time.Millisecond})
	s.Close()
	s.SetSearchQuery("loft")
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, f.calls())
}

func TestStore_OnChange(t *testing.T) {
	got := make(chan Snapshot, 4)
	s := New(&fakeFetcher{}, Options{Debounce: -1, OnChange: func(s Snapshot) { got <- s }})
	defer s.Close()

	select {
	case snap := <-got:
		assert.Equal(t, StatusLoaded, snap.Status)
	case <-time.After(time.Second):
		t.Fatal("no change notification")
	}
}
