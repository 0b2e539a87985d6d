package models

import (
	"reflect"
	"testing"
	"time"
)

func TestDanglingInvites(t *testing.T) {
	g := Guest{
		FamilyMembers:          []FamilyMember{{ID: "m1"}, {ID: "m2"}},
		InvitedFamilyMemberIDs: []string{"m1", "gone", "m2", "lost"},
	}

	if got := g.DanglingInvites(); !reflect.DeepEqual(got, []string{"gone", "lost"}) {
		t.Fatalf("expected [gone lost], got %v", got)
	}
	if !g.IsFamilyMemberInvited("gone") || g.IsFamilyMemberInvited("m3") {
		t.Fatal("unexpected invited membership")
	}
	if g.FamilyMember("gone") != nil {
		t.Fatal("expected no member for a dangling id")
	}
}

func TestGuestClone_Isolated(t *testing.T) {
	age := 7
	status := RSVPGoing
	plusOne := "Shira"
	invitedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g := Guest{
		ID:                     "g1",
		PlusOneName:            &plusOne,
		InvitedAt:              &invitedAt,
		FamilyMembers:          []FamilyMember{{ID: "m1", Age: &age, RSVPStatus: &status}},
		InvitedFamilyMemberIDs: []string{"m1"},
	}

	c := g.Clone()
	*c.PlusOneName = "Other"
	*c.FamilyMembers[0].Age = 30
	*c.FamilyMembers[0].RSVPStatus = RSVPNotGoing
	c.InvitedFamilyMemberIDs[0] = "changed"
	*c.InvitedAt = time.Time{}

	if *g.PlusOneName != "Shira" || *g.FamilyMembers[0].Age != 7 || *g.FamilyMembers[0].RSVPStatus != RSVPGoing {
		t.Fatal("expected clone pointers to be independent")
	}
	if g.InvitedFamilyMemberIDs[0] != "m1" || !g.InvitedAt.Equal(invitedAt) {
		t.Fatal("expected clone slices to be independent")
	}
}

func TestPersons(t *testing.T) {
	guests := []Guest{
		{ID: "g1", Name: "Noa", FamilyMembers: []FamilyMember{{ID: "m1", Name: "Omer"}, {ID: "m2", Name: "Gali"}}},
		{ID: "g2", Name: "Tamar"},
	}

	want := []Person{
		{ID: "g1", Name: "Noa", Kind: PersonGuest, GuestID: "g1"},
		{ID: "m1", Name: "Omer", Kind: PersonFamily, GuestID: "g1"},
		{ID: "m2", Name: "Gali", Kind: PersonFamily, GuestID: "g1"},
		{ID: "g2", Name: "Tamar", Kind: PersonGuest, GuestID: "g2"},
	}
	if got := Persons(guests); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got := guests[0].PersonIDs(); !reflect.DeepEqual(got, []string{"g1", "m1", "m2"}) {
		t.Fatalf("unexpected person ids %v", got)
	}
}

func TestResource(t *testing.T) {
	r := Resource{Capacity: 2, AssignedPersonIDs: []string{"a"}}
	if r.IsFull() || !r.Holds("a") || r.Holds("b") {
		t.Fatal("unexpected resource state")
	}

	c := r.Clone()
	c.AssignedPersonIDs = append(c.AssignedPersonIDs, "b")
	c.AssignedPersonIDs[0] = "z"
	if !c.IsFull() || r.AssignedPersonIDs[0] != "a" {
		t.Fatal("expected clone to be independent")
	}

	if (Resource{}).Clone().AssignedPersonIDs == nil {
		t.Fatal("expected non-nil assignment set after clone")
	}
}

func TestStatusHelpers(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if RSVPStatus("maybe").Valid() {
		t.Fatal("expected unknown status to be invalid")
	}
	if RSVPNotInvited.IsInvited() || !RSVPNotGoing.IsInvited() || RSVPStatus("Going").IsInvited() {
		t.Fatal("unexpected IsInvited result")
	}
	if got := KindVehicle.Types(); len(got) != 4 || got[0] != VehicleCar {
		t.Fatalf("unexpected vehicle types %v", got)
	}
}

func TestBudgetItem(t *testing.T) {
	item := BudgetItem{Estimated: 100, Actual: 120}
	if !item.IsOverBudget() || item.Remaining() != -20 {
		t.Fatalf("unexpected rollup for %+v", item)
	}
}
