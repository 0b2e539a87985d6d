// Package rsvp holds the attendance state machine for guests and their families.
//
// States move NotInvited -> Pending on the first invite; after that Going,
// Pending and NotGoing are all reachable from each other. Nothing moves a
// status back to NotInvited.
package rsvp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/B1shwas/Khumbaya-sub000/internal/models"
)

// ErrUnknownStatus is returned by ParseStatus for labels outside the state set.
var ErrUnknownStatus = errors.New("unknown rsvp status")

// Machine applies RSVP transitions to guests in place.
type Machine struct {
	now func() time.Time
}

// New creates a state machine. A nil clock falls back to time.Now.
func New(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{now: now}
}

// SendInvite moves the guest to Pending and stamps InvitedAt on the first call.
// Calling it again keeps the original timestamp. Family members are untouched.
func (m *Machine) SendInvite(g *models.Guest) {
	g.Status = models.RSVPPending
	m.stampInvited(g)
}

// SendFamilyInvite marks the listed family members as Pending and records them
// in the guest's invited set. Ids that don't match a member are still recorded.
// A guest that was never invited is promoted to Pending along the way.
func (m *Machine) SendFamilyInvite(g *models.Guest, memberIDs []string) {
	pending := models.RSVPPending
	for _, id := range memberIDs {
		if member := g.FamilyMember(id); member != nil {
			s := pending
			member.RSVPStatus = &s
		}
		if !g.IsFamilyMemberInvited(id) {
			g.InvitedFamilyMemberIDs = append(g.InvitedFamilyMemberIDs, id)
		}
	}

	if g.Status == models.RSVPNotInvited || g.Status == "" {
		g.Status = models.RSVPPending
		m.stampInvited(g)
	}
}

// UpdateFamilyMemberRSVP sets one family member's status. It reports false and
// changes nothing when the member doesn't exist. The guest's own status is
// never affected.
func (m *Machine) UpdateFamilyMemberRSVP(g *models.Guest, memberID string, status models.RSVPStatus) bool {
	member := g.FamilyMember(memberID)
	if member == nil {
		return false
	}
	member.RSVPStatus = &status
	return true
}

// UpdateGuestStatus sets the guest status directly, without transition checks.
func (m *Machine) UpdateGuestStatus(g *models.Guest, status models.RSVPStatus) {
	g.Status = status
}

func (m *Machine) stampInvited(g *models.Guest) {
	if g.InvitedAt != nil {
		return
	}
	now := m.now().UTC()
	g.InvitedAt = &now
}

// CanTransition reports whether the state graph has an edge from -> to.
// Operations in this package don't enforce it; it's there for callers that
// want to validate user input.
func CanTransition(from, to models.RSVPStatus) bool {
	if from == to {
		return true
	}
	if to == models.RSVPNotInvited {
		return false
	}
	if from == models.RSVPNotInvited {
		return to == models.RSVPPending
	}
	return from.IsInvited() && to.Valid()
}

// ParseStatus maps a user supplied label onto a status. It accepts the stored
// labels as well as the display forms ("Not Going", "NotInvited", ...).
func ParseStatus(label string) (models.RSVPStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(normalized)

	switch normalized {
	case "going", "confirmed", "accepted":
		return models.RSVPGoing, nil
	case "pending", "maybe":
		return models.RSVPPending, nil
	case "notgoing", "declined":
		return models.RSVPNotGoing, nil
	case "notinvited":
		return models.RSVPNotInvited, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, label)
}
