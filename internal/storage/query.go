package storage

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/B1shwas/Khumbaya-sub000/internal/models"
)

// CategoryAll disables the relation filter
const CategoryAll = "All"

// Tab selects the RSVP tab of the guest list
type Tab string

const (
	TabAll        Tab = "all"
	TabConfirmed  Tab = "confirmed"
	TabPending    Tab = "pending"
	TabNotInvited Tab = "not_invited"
)

// InvitationFilter narrows the list by whether an invite went out
type InvitationFilter string

const (
	InvitationAll        InvitationFilter = "all"
	InvitationInvited    InvitationFilter = "invited"
	InvitationNotInvited InvitationFilter = "not_invited"
)

// SortOption orders the guest list
type SortOption string

const (
	SortName   SortOption = "name"
	SortRecent SortOption = "recent"
	SortStatus SortOption = "status"
)

// Query describes a filtered, sorted view over the guest list. Zero values
// pass everything and keep insertion order.
type Query struct {
	Search     string
	Category   string
	Tab        Tab
	Invitation InvitationFilter
	Sort       SortOption
	// Locale drives name collation; the zero tag collates language-neutrally.
	Locale language.Tag
}

// FilteredAndSorted returns the guests matching every filter in q, sorted by
// q.Sort. It never modifies the collection.
func (s *GuestStore) FilteredAndSorted(q Query) []models.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(q.Search)
	result := make([]models.Guest, 0, len(s.guests))
	for _, g := range s.guests {
		if !matchesSearch(g, q.Search, search) ||
			!matchesCategory(g, q.Category) ||
			!matchesTab(g, q.Tab) ||
			!matchesInvitation(g, q.Invitation) {
			continue
		}
		result = append(result, g.Clone())
	}

	sortGuests(result, q.Sort, q.Locale)
	return result
}

func matchesSearch(g models.Guest, raw, lowered string) bool {
	if raw == "" {
		return true
	}
	return strings.Contains(strings.ToLower(g.Name), lowered) || strings.Contains(g.Phone, raw)
}

func matchesCategory(g models.Guest, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	return g.Relation == category
}

// The pending tab also lists guests who declined.
func matchesTab(g models.Guest, tab Tab) bool {
	switch tab {
	case TabConfirmed:
		return g.Status == models.RSVPGoing
	case TabPending:
		return g.Status == models.RSVPPending || g.Status == models.RSVPNotGoing
	case TabNotInvited:
		return g.Status == models.RSVPNotInvited
	}
	return true
}

func matchesInvitation(g models.Guest, filter InvitationFilter) bool {
	switch filter {
	case InvitationInvited:
		return g.Status.IsInvited()
	case InvitationNotInvited:
		return !g.Status.IsInvited()
	}
	return true
}

func sortGuests(guests []models.Guest, by SortOption, locale language.Tag) {
	switch by {
	case SortName:
		c := collate.New(locale)
		slices.SortStableFunc(guests, func(a, b models.Guest) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortRecent:
		slices.SortStableFunc(guests, func(a, b models.Guest) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortStatus:
		slices.SortStableFunc(guests, func(a, b models.Guest) int {
			return strings.Compare(string(a.Status), string(b.Status))
		})
	}
}

// Categories returns the distinct relations in the collection, sorted.
func (s *GuestStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var categories []string
	for _, g := range s.guests {
		if g.Relation == "" {
			continue
		}
		if _, ok := seen[g.Relation]; ok {
			continue
		}
		seen[g.Relation] = struct{}{}
		categories = append(categories, g.Relation)
	}
	sort.Strings(categories)
	return categories
}
