// Package planner ties the guest list, room and vehicle allocation, and the
// budget ledger to a persistence backend.
package planner

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/B1shwas/Khumbaya-sub000/internal/allocation"
	"github.com/B1shwas/Khumbaya-sub000/internal/budget"
	"github.com/B1shwas/Khumbaya-sub000/internal/models"
	"github.com/B1shwas/Khumbaya-sub000/internal/storage"
)

// DanglingAssignment is a resource slot held by a person id that no longer
// resolves to a guest or family member.
type DanglingAssignment struct {
	Kind       models.ResourceKind `json:"kind"`
	ResourceID string              `json:"resource_id"`
	PersonID   string              `json:"person_id"`
}

// Planner is the in-process aggregate the CLI and the RSVP handler share.
type Planner struct {
	Guests   *storage.GuestStore
	Rooms    *allocation.Engine
	Vehicles *allocation.Engine

	mu      sync.RWMutex
	budget  []models.BudgetItem
	backend storage.Backend
	log     zerolog.Logger
}

// New creates an empty planner persisting through backend
func New(backend storage.Backend, log zerolog.Logger, now func() time.Time) *Planner {
	return &Planner{
		Guests:   storage.NewGuestStore(log, now),
		Rooms:    allocation.NewEngine(models.KindRoom, log),
		Vehicles: allocation.NewEngine(models.KindVehicle, log),
		budget:   make([]models.BudgetItem, 0),
		backend:  backend,
		log:      log.With().Str("component", "planner").Logger(),
	}
}

// Engine returns the allocation engine for kind, or nil for unknown kinds
func (p *Planner) Engine(kind models.ResourceKind) *allocation.Engine {
	switch kind {
	case models.KindRoom:
		return p.Rooms
	case models.KindVehicle:
		return p.Vehicles
	}
	return nil
}

// Load replaces all state with the backend snapshot. Resources are checked
// before anything is replaced, so a bad snapshot leaves the planner as it was.
func (p *Planner) Load(ctx context.Context) error {
	snap, err := p.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	if err := p.Rooms.Validate(snap.Rooms); err != nil {
		return fmt.Errorf("failed to load rooms: %w", err)
	}
	if err := p.Vehicles.Validate(snap.Vehicles); err != nil {
		return fmt.Errorf("failed to load vehicles: %w", err)
	}
	if err := p.Rooms.Replace(snap.Rooms); err != nil {
		return fmt.Errorf("failed to load rooms: %w", err)
	}
	if err := p.Vehicles.Replace(snap.Vehicles); err != nil {
		return fmt.Errorf("failed to load vehicles: %w", err)
	}
	p.Guests.Replace(snap.Guests)

	p.mu.Lock()
	p.budget = append(make([]models.BudgetItem, 0, len(snap.Budget)), snap.Budget...)
	p.mu.Unlock()

	p.log.Info().
		Int("guests", len(snap.Guests)).
		Int("rooms", len(snap.Rooms)).
		Int("vehicles", len(snap.Vehicles)).
		Int("budget_items", len(snap.Budget)).
		Msg("snapshot loaded")
	return nil
}

// Save writes the current state to the backend
func (p *Planner) Save(ctx context.Context) error {
	snap := &storage.Snapshot{
		Guests:   p.Guests.All(),
		Rooms:    p.Rooms.List(),
		Vehicles: p.Vehicles.List(),
		Budget:   p.BudgetItems(),
	}
	if err := p.backend.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	p.log.Debug().Int("guests", len(snap.Guests)).Msg("snapshot saved")
	return nil
}

// Close releases the backend
func (p *Planner) Close() error {
	return p.backend.Close()
}

// RemoveGuest deletes the guest. With release set, the guest and their family
// are first taken out of every room and vehicle; without it their slots stay
// held and show up in DanglingAssignments.
func (p *Planner) RemoveGuest(id string, release bool) bool {
	g, ok := p.Guests.Get(id)
	if !ok {
		return false
	}
	if release {
		ids := g.PersonIDs()
		n := p.Rooms.Release(ids...) + p.Vehicles.Release(ids...)
		p.log.Debug().Str("guest_id", id).Int("released", n).Msg("guest assignments released")
	}
	return p.Guests.Remove(id)
}

// RemoveFamilyMember deletes a family member, optionally releasing their slots.
func (p *Planner) RemoveFamilyMember(guestID, memberID string, release bool) bool {
	if !p.Guests.RemoveFamilyMember(guestID, memberID) {
		return false
	}
	if release {
		p.Rooms.Release(memberID)
		p.Vehicles.Release(memberID)
	}
	return true
}

// Persons lists every assignable guest and family member
func (p *Planner) Persons() []models.Person {
	return models.Persons(p.Guests.All())
}

// UnassignedPersons returns the persons without a resource of kind
func (p *Planner) UnassignedPersons(kind models.ResourceKind) []models.Person {
	e := p.Engine(kind)
	if e == nil {
		return nil
	}
	return e.UnassignedPersons(p.Persons())
}

// DanglingAssignments reports assignments to person ids that no longer exist
func (p *Planner) DanglingAssignments() []DanglingAssignment {
	known := make(map[string]struct{})
	for _, person := range p.Persons() {
		known[person.ID] = struct{}{}
	}

	var out []DanglingAssignment
	for _, e := range []*allocation.Engine{p.Rooms, p.Vehicles} {
		for _, r := range e.List() {
			for _, id := range r.AssignedPersonIDs {
				if _, ok := known[id]; !ok {
					out = append(out, DanglingAssignment{Kind: e.Kind(), ResourceID: r.ID, PersonID: id})
				}
			}
		}
	}
	return out
}

// ReleaseDangling frees every slot held by a person id that no longer exists
// and returns how many were freed.
func (p *Planner) ReleaseDangling() int {
	n := 0
	for _, d := range p.DanglingAssignments() {
		if p.Engine(d.Kind).Unassign(d.ResourceID, d.PersonID) {
			n++
		}
	}
	if n > 0 {
		p.log.Info().Int("released", n).Msg("dangling assignments released")
	}
	return n
}

// AddBudgetItem validates and appends a budget line
func (p *Planner) AddBudgetItem(in budget.NewItemInput) (models.BudgetItem, error) {
	item, err := budget.NewItem(in)
	if err != nil {
		return models.BudgetItem{}, err
	}

	p.mu.Lock()
	p.budget = append(p.budget, item)
	p.mu.Unlock()

	p.log.Debug().Str("item_id", item.ID).Str("category", item.Category).Msg("budget item added")
	return item, nil
}

// RemoveBudgetItem deletes a budget line
func (p *Planner) RemoveBudgetItem(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	before := len(p.budget)
	p.budget = slices.DeleteFunc(p.budget, func(item models.BudgetItem) bool { return item.ID == id })
	return len(p.budget) != before
}

// ToggleBudgetPaid flips the paid flag of a budget line
func (p *Planner) ToggleBudgetPaid(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.budget = budget.TogglePaid(p.budget, id)
}

// BudgetItems returns a copy of the budget ledger
func (p *Planner) BudgetItems() []models.BudgetItem {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return slices.Clone(p.budget)
}

// BudgetSummary aggregates the current ledger
func (p *Planner) BudgetSummary() budget.Summary {
	return budget.Summarize(p.BudgetItems())
}
