package models

// PersonKind tells whether an assignable person is a guest or one of their family
type PersonKind string

const (
	PersonGuest  PersonKind = "guest"
	PersonFamily PersonKind = "family"
)

// Person is a resource-assignable reference to a guest or family member.
type Person struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Kind    PersonKind `json:"kind"`
	GuestID string     `json:"guest_id"`
}

// Persons flattens guests and their family members into assignable persons,
// each guest followed by its family in list order.
func Persons(guests []Guest) []Person {
	persons := make([]Person, 0, len(guests))
	for _, g := range guests {
		persons = append(persons, Person{ID: g.ID, Name: g.Name, Kind: PersonGuest, GuestID: g.ID})
		for _, m := range g.FamilyMembers {
			persons = append(persons, Person{ID: m.ID, Name: m.Name, Kind: PersonFamily, GuestID: g.ID})
		}
	}
	return persons
}

// PersonIDs returns the guest id followed by every family member id.
func (g *Guest) PersonIDs() []string {
	ids := make([]string, 0, len(g.FamilyMembers)+1)
	ids = append(ids, g.ID)
	for _, m := range g.FamilyMembers {
		ids = append(ids, m.ID)
	}
	return ids
}
