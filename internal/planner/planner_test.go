package planner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/B1shwas/Khumbaya-sub000/internal/allocation"
	"github.com/B1shwas/Khumbaya-sub000/internal/budget"
	"github.com/B1shwas/Khumbaya-sub000/internal/models"
	"github.com/B1shwas/Khumbaya-sub000/internal/storage"
)

func newTestPlanner(t *testing.T) (*Planner, string) {
	t.Helper()
	file := filepath.Join(t.TempDir(), "planner.json")
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return New(storage.NewFileBackend(file), zerolog.Nop(), func() time.Time { return now }), file
}

func seedFamily(t *testing.T, p *Planner) (models.Guest, models.Resource) {
	t.Helper()
	g := p.Guests.Add(models.Guest{
		Name:          "Noa Levi",
		Relation:      "Family",
		FamilyMembers: []models.FamilyMember{{Name: "Omer"}},
	})
	room, err := p.Rooms.Create(allocation.CreateInput{Name: "101", Type: "family", Capacity: "4", Price: "300"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range g.PersonIDs() {
		if _, err := p.Rooms.Assign(room.ID, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return g, room
}

func TestRemoveGuest_LeavesDanglingAssignments(t *testing.T) {
	p, _ := newTestPlanner(t)
	g, room := seedFamily(t, p)

	if !p.RemoveGuest(g.ID, false) {
		t.Fatal("expected guest to be removed")
	}

	r, _ := p.Rooms.Get(room.ID)
	if r.Available != 2 || len(r.AssignedPersonIDs) != 2 {
		t.Fatalf("expected slots still held, got available %d assigned %v", r.Available, r.AssignedPersonIDs)
	}

	dangling := p.DanglingAssignments()
	if len(dangling) != 2 {
		t.Fatalf("expected 2 dangling assignments, got %+v", dangling)
	}
	for _, d := range dangling {
		if d.Kind != models.KindRoom || d.ResourceID != room.ID {
			t.Fatalf("unexpected dangling assignment %+v", d)
		}
	}
	if got := p.UnassignedPersons(models.KindRoom); len(got) != 0 {
		t.Fatalf("expected no unassigned persons, got %+v", got)
	}
}

func TestReleaseDangling(t *testing.T) {
	p, _ := newTestPlanner(t)
	g, room := seedFamily(t, p)
	other := p.Guests.Add(models.Guest{Name: "Tamar"})
	if _, err := p.Rooms.Assign(room.ID, other.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.RemoveGuest(g.ID, false)

	if n := p.ReleaseDangling(); n != 2 {
		t.Fatalf("expected 2 slots freed, got %d", n)
	}
	if d := p.DanglingAssignments(); len(d) != 0 {
		t.Fatalf("expected no dangling assignments, got %+v", d)
	}
	r, _ := p.Rooms.Get(room.ID)
	if r.Available != 3 || !r.Holds(other.ID) {
		t.Fatalf("expected only Tamar left in the room, got %+v", r)
	}
	if n := p.ReleaseDangling(); n != 0 {
		t.Fatalf("expected nothing left to free, got %d", n)
	}
}

func TestRemoveGuest_Release(t *testing.T) {
	p, _ := newTestPlanner(t)
	g, room := seedFamily(t, p)
	car, err := p.Vehicles.Create(allocation.CreateInput{Name: "Shuttle", Type: "van", Capacity: "8", Price: "0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Vehicles.Assign(car.ID, g.FamilyMembers[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !p.RemoveGuest(g.ID, true) {
		t.Fatal("expected guest to be removed")
	}

	r, _ := p.Rooms.Get(room.ID)
	if r.Available != 4 || len(r.AssignedPersonIDs) != 0 {
		t.Fatalf("expected room emptied, got %+v", r)
	}
	v, _ := p.Vehicles.Get(car.ID)
	if v.Available != 8 {
		t.Fatalf("expected vehicle emptied, got %+v", v)
	}
	if d := p.DanglingAssignments(); len(d) != 0 {
		t.Fatalf("expected no dangling assignments, got %+v", d)
	}
	if p.RemoveGuest(g.ID, true) {
		t.Fatal("expected second removal to report false")
	}
}

func TestRemoveFamilyMember(t *testing.T) {
	p, _ := newTestPlanner(t)
	g, room := seedFamily(t, p)
	member := g.FamilyMembers[0].ID

	if !p.RemoveFamilyMember(g.ID, member, true) {
		t.Fatal("expected member removed")
	}
	r, _ := p.Rooms.Get(room.ID)
	if r.Holds(member) || !r.Holds(g.ID) {
		t.Fatalf("expected only the member released, got %v", r.AssignedPersonIDs)
	}
	if p.RemoveFamilyMember(g.ID, member, true) {
		t.Fatal("expected unknown member to report false")
	}
}

func TestUnassignedPersons(t *testing.T) {
	p, _ := newTestPlanner(t)
	g, _ := seedFamily(t, p)
	other := p.Guests.Add(models.Guest{Name: "Tamar"})

	rooms := p.UnassignedPersons(models.KindRoom)
	if len(rooms) != 1 || rooms[0].ID != other.ID {
		t.Fatalf("expected only Tamar without a room, got %+v", rooms)
	}

	vehicles := p.UnassignedPersons(models.KindVehicle)
	if len(vehicles) != 3 {
		t.Fatalf("expected 3 persons without a vehicle, got %d", len(vehicles))
	}
	if vehicles[0].ID != g.ID || vehicles[1].Kind != models.PersonFamily || vehicles[1].GuestID != g.ID {
		t.Fatalf("unexpected person order %+v", vehicles)
	}

	if p.UnassignedPersons("boat") != nil {
		t.Fatal("expected nil for unknown kind")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	p, file := newTestPlanner(t)
	g, room := seedFamily(t, p)
	p.Guests.SendInvite(g.ID)
	item, err := p.AddBudgetItem(budget.NewItemInput{Category: "Venue", Estimated: "1000", Actual: "400"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.ToggleBudgetPaid(item.ID)

	ctx := context.Background()
	if err := p.Save(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := New(storage.NewFileBackend(file), zerolog.Nop(), nil)
	if err := loaded.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lg, ok := loaded.Guests.Get(g.ID)
	if !ok || lg.Status != models.RSVPPending || lg.InvitedAt == nil {
		t.Fatalf("expected invited guest after load, got %+v", lg)
	}
	lr, ok := loaded.Rooms.Get(room.ID)
	if !ok || lr.Available != 2 || lr.Kind != models.KindRoom {
		t.Fatalf("expected room after load, got %+v", lr)
	}
	items := loaded.BudgetItems()
	if len(items) != 1 || !items[0].IsPaid {
		t.Fatalf("expected paid budget item after load, got %+v", items)
	}
	if s := loaded.BudgetSummary(); s.TotalPaid != 400 || s.PercentUsed != 40 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestLoad_RejectsBrokenResource(t *testing.T) {
	p, file := newTestPlanner(t)
	existing := p.Guests.Add(models.Guest{Name: "Existing"})

	broken := `{"guests":[],"rooms":[{"id":"r1","kind":"room","name":"1","type":"single","capacity":1,"available":1,"assigned_person_ids":["a"]}]}`
	if err := os.WriteFile(file, []byte(broken), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := p.Load(context.Background())
	if !errors.Is(err, allocation.ErrInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}
	if _, ok := p.Guests.Get(existing.ID); !ok {
		t.Fatal("expected state untouched after failed load")
	}
}

func TestLoad_MisfiledVehicleKeepsRooms(t *testing.T) {
	p, file := newTestPlanner(t)
	oldRoom, err := p.Rooms.Create(allocation.CreateInput{Name: "old", Type: "single", Capacity: "1", Price: "0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot := `{
		"rooms":[{"id":"new","kind":"room","name":"2","type":"double","capacity":2,"available":2,"assigned_person_ids":[]}],
		"vehicles":[{"id":"misfiled","kind":"room","name":"3","type":"single","capacity":1,"available":1,"assigned_person_ids":[]}]
	}`
	if err := os.WriteFile(file, []byte(snapshot), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = p.Load(context.Background())
	if !errors.Is(err, allocation.ErrInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}
	if _, ok := p.Rooms.Get(oldRoom.ID); !ok {
		t.Fatal("expected existing room kept after failed load")
	}
	if _, ok := p.Rooms.Get("new"); ok {
		t.Fatal("expected snapshot room not loaded after failed load")
	}
}

func TestBudgetLedger(t *testing.T) {
	p, _ := newTestPlanner(t)

	if _, err := p.AddBudgetItem(budget.NewItemInput{Category: "Flowers"}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(p.BudgetItems()) != 0 {
		t.Fatal("expected nothing stored after validation error")
	}

	item, err := p.AddBudgetItem(budget.NewItemInput{Category: "Flowers", Estimated: "50"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.RemoveBudgetItem(item.ID) {
		t.Fatal("expected item removed")
	}
	if p.RemoveBudgetItem(item.ID) {
		t.Fatal("expected second removal to report false")
	}
}
