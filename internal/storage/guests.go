package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/B1shwas/Khumbaya-sub000/internal/models"
	"github.com/B1shwas/Khumbaya-sub000/internal/rsvp"
)

// GuestStore owns the authoritative in-memory guest list.
// Lookups by unknown id are silent no-ops reported through a bool.
type GuestStore struct {
	mu      sync.RWMutex
	guests  []models.Guest
	machine *rsvp.Machine
	now     func() time.Time
	log     zerolog.Logger
}

// GuestPatch holds the fields Update merges into a guest. Nil fields are left alone.
type GuestPatch struct {
	Name          *string
	Avatar        *string
	Relation      *string
	Phone         *string
	Email         *string
	Status        *models.RSVPStatus
	HasPlusOne    *bool
	PlusOneName   *string
	TotalGuests   *int
	FamilyMembers []models.FamilyMember
	Notes         *string
}

// NewGuestStore creates an empty guest store
func NewGuestStore(log zerolog.Logger, now func() time.Time) *GuestStore {
	if now == nil {
		now = time.Now
	}
	return &GuestStore{
		guests:  make([]models.Guest, 0),
		machine: rsvp.New(now),
		now:     now,
		log:     log.With().Str("component", "guests").Logger(),
	}
}

// Add assigns a fresh id to the guest and appends it
func (s *GuestStore) Add(guest models.Guest) models.Guest {
	s.mu.Lock()
	defer s.mu.Unlock()

	guest = guest.Clone()
	guest.ID = uuid.NewString()
	if !guest.Status.Valid() {
		guest.Status = models.RSVPNotInvited
	}
	if guest.Source == "" {
		guest.Source = models.SourceManual
	}
	if guest.TotalGuests < 1 {
		guest.TotalGuests = 1
	}
	if guest.CreatedAt.IsZero() {
		guest.CreatedAt = s.now().UTC()
	}
	for i := range guest.FamilyMembers {
		if guest.FamilyMembers[i].ID == "" {
			guest.FamilyMembers[i].ID = uuid.NewString()
		}
	}

	s.guests = append(s.guests, guest)
	s.log.Debug().Str("guest_id", guest.ID).Str("source", string(guest.Source)).Msg("guest added")
	return guest.Clone()
}

// Get retrieves a guest by id
func (s *GuestStore) Get(id string) (models.Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.guests[i].Clone(), true
	}
	return models.Guest{}, false
}

// Find returns the first guest matching the predicate
func (s *GuestStore) Find(match func(models.Guest) bool) (models.Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.guests {
		if match(g) {
			return g.Clone(), true
		}
	}
	return models.Guest{}, false
}

// All returns a copy of every guest in insertion order
func (s *GuestStore) All() []models.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guests := make([]models.Guest, len(s.guests))
	for i, g := range s.guests {
		guests[i] = g.Clone()
	}
	return guests
}

// Len returns the number of guests
func (s *GuestStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.guests)
}

// Update shallow-merges the patch into the guest with the given id.
// A patch carrying an unknown status is rejected as a whole.
func (s *GuestStore) Update(id string, patch GuestPatch) bool {
	if patch.Status != nil && !patch.Status.Valid() {
		s.log.Debug().Str("guest_id", id).Str("status", string(*patch.Status)).Msg("unknown status, ignoring update")
		return false
	}
	return s.mutate(id, "guest updated", func(g *models.Guest) {
		if patch.Name != nil {
			g.Name = *patch.Name
		}
		if patch.Avatar != nil {
			v := *patch.Avatar
			g.Avatar = &v
		}
		if patch.Relation != nil {
			g.Relation = *patch.Relation
		}
		if patch.Phone != nil {
			g.Phone = *patch.Phone
		}
		if patch.Email != nil {
			g.Email = *patch.Email
		}
		if patch.Status != nil {
			g.Status = *patch.Status
		}
		if patch.HasPlusOne != nil {
			g.HasPlusOne = *patch.HasPlusOne
		}
		if patch.PlusOneName != nil {
			v := *patch.PlusOneName
			g.PlusOneName = &v
		}
		if patch.TotalGuests != nil {
			g.TotalGuests = *patch.TotalGuests
		}
		if patch.FamilyMembers != nil {
			g.FamilyMembers = models.CloneFamily(patch.FamilyMembers)
		}
		if patch.Notes != nil {
			g.Notes = *patch.Notes
		}
	})
}

// Remove deletes the guest. Resource assignments that still reference the
// guest or its family are left for the caller to release.
func (s *GuestStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.guests = append(s.guests[:i], s.guests[i+1:]...)
	s.log.Debug().Str("guest_id", id).Msg("guest removed")
	return true
}

// SendInvite invites the guest, see rsvp.Machine.SendInvite
func (s *GuestStore) SendInvite(id string) bool {
	return s.mutate(id, "invite sent", s.machine.SendInvite)
}

// SendFamilyInvite invites family members of the guest
func (s *GuestStore) SendFamilyInvite(id string, memberIDs []string) bool {
	return s.mutate(id, "family invite sent", func(g *models.Guest) {
		s.machine.SendFamilyInvite(g, memberIDs)
	})
}

// UpdateGuestStatus sets the guest status directly. Unknown statuses are ignored.
func (s *GuestStore) UpdateGuestStatus(id string, status models.RSVPStatus) bool {
	if !status.Valid() {
		s.log.Debug().Str("guest_id", id).Str("status", string(status)).Msg("unknown status, ignoring")
		return false
	}
	return s.mutate(id, "guest status updated", func(g *models.Guest) {
		s.machine.UpdateGuestStatus(g, status)
	})
}

// UpdateFamilyMemberRSVP sets a family member's status. It reports false when
// either the guest or the member is unknown.
func (s *GuestStore) UpdateFamilyMemberRSVP(id, memberID string, status models.RSVPStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	if !s.machine.UpdateFamilyMemberRSVP(&s.guests[i], memberID, status) {
		return false
	}
	s.log.Debug().Str("guest_id", id).Str("member_id", memberID).Str("status", string(status)).Msg("family rsvp updated")
	return true
}

// AddFamilyMember appends a member to the guest's family and returns it with its id.
func (s *GuestStore) AddFamilyMember(id string, member models.FamilyMember) (models.FamilyMember, bool) {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	ok := s.mutate(id, "family member added", func(g *models.Guest) {
		g.FamilyMembers = append(g.FamilyMembers, models.CloneFamily([]models.FamilyMember{member})...)
	})
	return member, ok
}

// RemoveFamilyMember drops a member from the family list. The invited set is
// not pruned, so the removed id shows up in Guest.DanglingInvites.
func (s *GuestStore) RemoveFamilyMember(id, memberID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	family := s.guests[i].FamilyMembers
	for j := range family {
		if family[j].ID == memberID {
			s.guests[i].FamilyMembers = append(family[:j], family[j+1:]...)
			s.log.Debug().Str("guest_id", id).Str("member_id", memberID).Msg("family member removed")
			return true
		}
	}
	return false
}

// Replace swaps the whole collection, used when loading a snapshot.
func (s *GuestStore) Replace(guests []models.Guest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.guests = make([]models.Guest, len(guests))
	for i, g := range guests {
		s.guests[i] = g.Clone()
	}
}

func (s *GuestStore) mutate(id, msg string, fn func(*models.Guest)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Debug().Str("guest_id", id).Msg("guest not found, ignoring")
		return false
	}
	fn(&s.guests[i])
	s.log.Debug().Str("guest_id", id).Str("status", string(s.guests[i].Status)).Msg(msg)
	return true
}

func (s *GuestStore) indexOf(id string) int {
	for i := range s.guests {
		if s.guests[i].ID == id {
			return i
		}
	}
	return -1
}
