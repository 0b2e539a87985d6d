// Package allocation assigns people to capacity-bounded resources such as
// hotel rooms and vehicles.
//
// Every resource keeps Available == Capacity - len(AssignedPersonIDs), never
// lets the assignment set grow past Capacity, and never drops Available
// below zero. Each check-and-mutate runs under the engine lock and bumps the
// resource version.
package allocation

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/B1shwas/Khumbaya-sub000/internal/models"
	"github.com/B1shwas/Khumbaya-sub000/internal/validation"
)

var (
	// ErrCapacityExceeded is returned when assigning to a full resource ("Resource Full").
	ErrCapacityExceeded = errors.New("resource full")
	// ErrVersionConflict is returned by AssignIfVersion when the resource changed underneath the caller.
	ErrVersionConflict = errors.New("resource version conflict")
	// ErrInvariant reports a resource whose counters don't reconcile.
	ErrInvariant = errors.New("capacity invariant violated")
)

// CreateInput carries raw form values for a new resource
type CreateInput struct {
	Name      string `validate:"required"`
	Type      string `validate:"required"`
	Capacity  string `validate:"required,numeric"`
	Price     string `validate:"required,numeric,nonnegative"`
	Amenities []string
}

// Occupancy sums capacity usage across an engine
type Occupancy struct {
	Resources int `json:"resources"`
	Capacity  int `json:"capacity"`
	Assigned  int `json:"assigned"`
	Available int `json:"available"`
}

// Engine owns the resources of one kind
type Engine struct {
	mu        sync.RWMutex
	kind      models.ResourceKind
	resources []models.Resource
	log       zerolog.Logger
}

// NewEngine creates an empty engine for kind
func NewEngine(kind models.ResourceKind, log zerolog.Logger) *Engine {
	return &Engine{
		kind:      kind,
		resources: make([]models.Resource, 0),
		log:       log.With().Str("component", "allocation").Str("kind", string(kind)).Logger(),
	}
}

// Kind returns the resource kind the engine manages
func (e *Engine) Kind() models.ResourceKind {
	return e.kind
}

// Create validates the input and adds an empty resource with Available set
// to Capacity. Nothing is stored when validation fails.
func (e *Engine) Create(in CreateInput) (models.Resource, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Capacity = strings.TrimSpace(in.Capacity)
	in.Price = strings.TrimSpace(in.Price)

	if err := validation.Validate(in); err != nil {
		return models.Resource{}, err
	}
	if !slices.Contains(e.kind.Types(), in.Type) {
		return models.Resource{}, validation.Invalid("Type", validation.MsgNotAllowed)
	}
	capacity, err := strconv.Atoi(in.Capacity)
	if err != nil {
		return models.Resource{}, validation.Invalid("Capacity", validation.MsgNotNumeric)
	}
	if capacity < 1 {
		return models.Resource{}, validation.Invalid("Capacity", validation.MsgBelowMin)
	}
	price, err := strconv.ParseFloat(in.Price, 64)
	if err != nil {
		return models.Resource{}, validation.Invalid("Price", validation.MsgNotNumeric)
	}

	r := models.Resource{
		ID:                uuid.NewString(),
		Kind:              e.kind,
		Name:              in.Name,
		Type:              in.Type,
		Capacity:          capacity,
		Available:         capacity,
		AssignedPersonIDs: []string{},
		Price:             price,
		Amenities:         append([]string(nil), in.Amenities...),
	}

	e.mu.Lock()
	e.resources = append(e.resources, r)
	e.mu.Unlock()

	e.log.Info().Str("resource_id", r.ID).Int("capacity", capacity).Msg("resource created")
	return r.Clone(), nil
}

// Get returns a copy of the resource
func (e *Engine) Get(id string) (models.Resource, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if i := e.indexOf(id); i >= 0 {
		return e.resources[i].Clone(), true
	}
	return models.Resource{}, false
}

// List returns copies of every resource in creation order
func (e *Engine) List() []models.Resource {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.Resource, len(e.resources))
	for i, r := range e.resources {
		out[i] = r.Clone()
	}
	return out
}

// Remove deletes a resource; its occupants become unassigned.
func (e *Engine) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	e.resources = append(e.resources[:i], e.resources[i+1:]...)
	e.log.Info().Str("resource_id", id).Msg("resource removed")
	return true
}

// Assign adds personID to the resource. A full resource rejects the call
// with ErrCapacityExceeded and stays unchanged. Assigning someone already in
// the set adds no duplicate. Unknown resources report false with no error.
func (e *Engine) Assign(resourceID, personID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(resourceID)
	if i < 0 {
		return false, nil
	}
	return true, e.assignLocked(&e.resources[i], personID)
}

// AssignIfVersion assigns only if the resource is still at the version the
// caller observed.
func (e *Engine) AssignIfVersion(resourceID, personID string, version int64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(resourceID)
	if i < 0 {
		return false, nil
	}
	if e.resources[i].Version != version {
		return true, fmt.Errorf("%w: have %d, want %d", ErrVersionConflict, e.resources[i].Version, version)
	}
	return true, e.assignLocked(&e.resources[i], personID)
}

// Unassign removes personID from the resource; absent persons are a no-op.
func (e *Engine) Unassign(resourceID, personID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(resourceID)
	if i < 0 {
		return false
	}
	r := &e.resources[i]
	r.AssignedPersonIDs = slices.DeleteFunc(r.AssignedPersonIDs, func(id string) bool { return id == personID })
	recompute(r)
	e.log.Debug().Str("resource_id", r.ID).Str("person_id", personID).Int("available", r.Available).Msg("person unassigned")
	return true
}

// Move takes personID out of every resource and puts them into target. The
// target's capacity is checked before anything changes.
func (e *Engine) Move(personID, targetID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(targetID)
	if i < 0 {
		return false, nil
	}
	target := &e.resources[i]
	if target.Holds(personID) {
		return true, nil
	}
	if target.IsFull() {
		e.log.Warn().Str("resource_id", target.ID).Str("person_id", personID).Msg("resource full, move rejected")
		return true, ErrCapacityExceeded
	}
	e.releaseLocked([]string{personID})
	return true, e.assignLocked(target, personID)
}

// Release removes the given persons from every resource and returns how many
// assignments were dropped.
func (e *Engine) Release(personIDs ...string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.releaseLocked(personIDs)
}

// AssignmentOf returns the first resource holding personID
func (e *Engine) AssignmentOf(personID string) (models.Resource, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, r := range e.resources {
		if r.Holds(personID) {
			return r.Clone(), true
		}
	}
	return models.Resource{}, false
}

// UnassignedPersons returns the persons not held by any resource of this engine
func (e *Engine) UnassignedPersons(persons []models.Person) []models.Person {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return UnassignedPersons(persons, e.resources)
}

// Occupancy sums capacity and assignments over all resources
func (e *Engine) Occupancy() Occupancy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	o := Occupancy{Resources: len(e.resources)}
	for _, r := range e.resources {
		o.Capacity += r.Capacity
		o.Assigned += len(r.AssignedPersonIDs)
		o.Available += r.Available
	}
	return o
}

// Validate checks that resources could be loaded by Replace: each has this
// engine's kind (or none) and a consistent capacity invariant.
func (e *Engine) Validate(resources []models.Resource) error {
	for _, r := range resources {
		if r.Kind != "" && r.Kind != e.kind {
			return fmt.Errorf("%w: resource %s has kind %s, want %s", ErrInvariant, r.ID, r.Kind, e.kind)
		}
		if err := CheckInvariant(r); err != nil {
			return err
		}
	}
	return nil
}

// Replace swaps in persisted resources after validating them.
// The engine is left untouched if any resource is inconsistent.
func (e *Engine) Replace(resources []models.Resource) error {
	if err := e.Validate(resources); err != nil {
		return err
	}
	next := make([]models.Resource, len(resources))
	for i, r := range resources {
		next[i] = r.Clone()
		next[i].Kind = e.kind
	}

	e.mu.Lock()
	e.resources = next
	e.mu.Unlock()
	return nil
}

// CheckInvariant verifies the capacity counters of r.
func CheckInvariant(r models.Resource) error {
	assigned := len(r.AssignedPersonIDs)
	switch {
	case r.Capacity < 1:
		return fmt.Errorf("%w: resource %s capacity %d", ErrInvariant, r.ID, r.Capacity)
	case assigned > r.Capacity:
		return fmt.Errorf("%w: resource %s holds %d of %d", ErrInvariant, r.ID, assigned, r.Capacity)
	case r.Available < 0 || r.Available != r.Capacity-assigned:
		return fmt.Errorf("%w: resource %s available %d, want %d", ErrInvariant, r.ID, r.Available, r.Capacity-assigned)
	}
	seen := make(map[string]struct{}, assigned)
	for _, id := range r.AssignedPersonIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: resource %s lists %s twice", ErrInvariant, r.ID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// UnassignedPersons returns the persons whose id is in no resource's
// assignment set. It is computed fresh on every call.
func UnassignedPersons(persons []models.Person, resources []models.Resource) []models.Person {
	assigned := make(map[string]struct{})
	for _, r := range resources {
		for _, id := range r.AssignedPersonIDs {
			assigned[id] = struct{}{}
		}
	}

	out := make([]models.Person, 0, len(persons))
	for _, p := range persons {
		if _, ok := assigned[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Capacity is checked before the idempotency check, so a full resource
// rejects even a person it already holds.
func (e *Engine) assignLocked(r *models.Resource, personID string) error {
	if r.IsFull() {
		e.log.Warn().Str("resource_id", r.ID).Str("person_id", personID).Msg("resource full, assignment rejected")
		return ErrCapacityExceeded
	}
	if !r.Holds(personID) {
		r.AssignedPersonIDs = append(r.AssignedPersonIDs, personID)
	}
	recompute(r)
	e.log.Debug().Str("resource_id", r.ID).Str("person_id", personID).Int("available", r.Available).Msg("person assigned")
	return nil
}

func (e *Engine) releaseLocked(personIDs []string) int {
	drop := make(map[string]struct{}, len(personIDs))
	for _, id := range personIDs {
		drop[id] = struct{}{}
	}

	released := 0
	for i := range e.resources {
		r := &e.resources[i]
		before := len(r.AssignedPersonIDs)
		r.AssignedPersonIDs = slices.DeleteFunc(r.AssignedPersonIDs, func(id string) bool {
			_, ok := drop[id]
			return ok
		})
		if n := before - len(r.AssignedPersonIDs); n > 0 {
			released += n
			recompute(r)
		}
	}
	if released > 0 {
		e.log.Debug().Int("released", released).Msg("assignments released")
	}
	return released
}

func recompute(r *models.Resource) {
	r.Available = r.Capacity - len(r.AssignedPersonIDs)
	r.Version++
}

func (e *Engine) indexOf(id string) int {
	for i := range e.resources {
		if e.resources[i].ID == id {
			return i
		}
	}
	return -1
}
