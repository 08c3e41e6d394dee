// Package compare tracks the listings picked for side-by-side comparison and
// finds the best value in each compared column.
package compare

import (
	"sync"

	"auraestate-backend/internal/domain"

	"github.com/google/uuid"
)

// MaxSelected is the comparison table's column count.
const MaxSelected = 3

// Selector is an ordered set of at most MaxSelected listing ids. It is safe
// for concurrent use.
type Selector struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

// Toggle removes id if selected and adds it otherwise. Adding to a full
// selection is a no-op. It reports whether id is selected afterwards.
func (s *Selector) Toggle(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.ids {
		if cur == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return false
		}
	}
	if len(s.ids) >= MaxSelected {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

func (s *Selector) Clear() {
	s.mu.Lock()
	s.ids = nil
	s.mu.Unlock()
}

func (s *Selector) Selected() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.ids...)
}

func (s *Selector) Contains(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.ids {
		if cur == id {
			return true
		}
	}
	return false
}

func (s *Selector) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Resolve returns the selected listings found in properties, in the order
// they appear there. Ids with no matching listing are skipped.
func (s *Selector) Resolve(properties []domain.Property) []domain.Property {
	var out []domain.Property
	for _, p := range properties {
		if s.Contains(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// Best holds the id of the winning listing per column.
type Best struct {
	Price     uuid.UUID
	Sqft      uuid.UUID
	AuraScore uuid.UUID
}

// BestValues picks the lowest price, largest floor area and highest overall
// aura score among the selected listings. The first listing wins ties. It
// returns false when fewer than two selected listings are present.
func (s *Selector) BestValues(properties []domain.Property) (Best, bool) {
	return BestOf(s.Resolve(properties))
}

// BestOf is BestValues over an already resolved list.
func BestOf(list []domain.Property) (Best, bool) {
	if len(list) < 2 {
		return Best{}, false
	}
	price, sqft, aura := list[0], list[0], list[0]
	for _, p := range list[1:] {
		if p.Price < price.Price {
			price = p
		}
		if p.Sqft > sqft.Sqft {
			sqft = p
		}
		if p.AuraScoreOverall > aura.AuraScoreOverall {
			aura = p
		}
	}
	return Best{Price: price.ID, Sqft: sqft.ID, AuraScore: aura.ID}, true
}
