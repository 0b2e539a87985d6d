package models

import "time"

// RSVPStatus represents the attendance confirmation status
type RSVPStatus string

const (
	RSVPGoing      RSVPStatus = "going"
	RSVPPending    RSVPStatus = "pending"
	RSVPNotGoing   RSVPStatus = "not_going"
	RSVPNotInvited RSVPStatus = "not_invited"
)

// Statuses lists every RSVP status in state machine order.
var Statuses = []RSVPStatus{RSVPNotInvited, RSVPPending, RSVPGoing, RSVPNotGoing}

// IsInvited reports whether the status is past the initial NotInvited state.
// Unknown labels are never invited.
func (s RSVPStatus) IsInvited() bool {
	return s.Valid() && s != RSVPNotInvited
}

// Valid reports whether s is one of the known statuses
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPPending, RSVPNotGoing, RSVPNotInvited:
		return true
	}
	return false
}

// Source records how a guest entered the list
type Source string

const (
	SourceManual  Source = "manual"
	SourceExcel   Source = "excel"
	SourceContact Source = "contact"
	SourceRSVP    Source = "rsvp"
)

// Guest represents a wedding guest
type Guest struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Avatar      *string    `json:"avatar,omitempty"`
	Relation    string     `json:"relation"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email,omitempty"`
	Status      RSVPStatus `json:"status"`
	HasPlusOne  bool       `json:"has_plus_one"`
	PlusOneName *string    `json:"plus_one_name,omitempty"`
	TotalGuests int        `json:"total_guests"`

	FamilyMembers          []FamilyMember `json:"family_members"`
	InvitedFamilyMemberIDs []string       `json:"invited_family_member_ids"`

	Source    Source     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	InvitedAt *time.Time `json:"invited_at,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// FamilyMember is a person attached to a guest with an independently tracked RSVP.
type FamilyMember struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Relation            string      `json:"relation"`
	Age                 *int        `json:"age,omitempty"`
	RSVPStatus          *RSVPStatus `json:"rsvp_status,omitempty"`
	DietaryRestrictions *string     `json:"dietary_restrictions,omitempty"`
	MealPreference      *string     `json:"meal_preference,omitempty"`
}

// FamilyMember returns a pointer into g.FamilyMembers for the given id.
func (g *Guest) FamilyMember(id string) *FamilyMember {
	for i := range g.FamilyMembers {
		if g.FamilyMembers[i].ID == id {
			return &g.FamilyMembers[i]
		}
	}
	return nil
}

// IsFamilyMemberInvited reports whether id is in the invited family set
func (g *Guest) IsFamilyMemberInvited(id string) bool {
	for _, invited := range g.InvitedFamilyMemberIDs {
		if invited == id {
			return true
		}
	}
	return false
}

// DanglingInvites returns ids in InvitedFamilyMemberIDs that no longer
// reference a member of FamilyMembers.
func (g *Guest) DanglingInvites() []string {
	var dangling []string
	for _, id := range g.InvitedFamilyMemberIDs {
		if g.FamilyMember(id) == nil {
			dangling = append(dangling, id)
		}
	}
	return dangling
}

// Clone returns a deep copy so callers can't mutate store-owned slices.
func (g Guest) Clone() Guest {
	out := g
	out.FamilyMembers = CloneFamily(g.FamilyMembers)
	if g.InvitedFamilyMemberIDs != nil {
		out.InvitedFamilyMemberIDs = append([]string(nil), g.InvitedFamilyMemberIDs...)
	}
	out.Avatar = cloneString(g.Avatar)
	out.PlusOneName = cloneString(g.PlusOneName)
	if g.InvitedAt != nil {
		t := *g.InvitedAt
		out.InvitedAt = &t
	}
	return out
}

// CloneFamily deep copies a family list, keeping nil as nil.
func CloneFamily(members []FamilyMember) []FamilyMember {
	if members == nil {
		return nil
	}
	out := make([]FamilyMember, len(members))
	for i, m := range members {
		out[i] = m.clone()
	}
	return out
}

func (m FamilyMember) clone() FamilyMember {
	out := m
	if m.Age != nil {
		age := *m.Age
		out.Age = &age
	}
	if m.RSVPStatus != nil {
		s := *m.RSVPStatus
		out.RSVPStatus = &s
	}
	out.DietaryRestrictions = cloneString(m.DietaryRestrictions)
	out.MealPreference = cloneString(m.MealPreference)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
