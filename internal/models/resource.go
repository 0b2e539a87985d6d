package models

// ResourceKind distinguishes the capacity containers people can be assigned to
type ResourceKind string

const (
	KindRoom    ResourceKind = "room"
	KindVehicle ResourceKind = "vehicle"
)

// Room types
const (
	RoomSingle = "single"
	RoomDouble = "double"
	RoomSuite  = "suite"
	RoomFamily = "family"
)

// Vehicle types
const (
	VehicleCar       = "car"
	VehicleVan       = "van"
	VehicleBus       = "bus"
	VehicleLimousine = "limousine"
)

// Types returns the allowed type values for the kind.
func (k ResourceKind) Types() []string {
	switch k {
	case KindRoom:
		return []string{RoomSingle, RoomDouble, RoomSuite, RoomFamily}
	case KindVehicle:
		return []string{VehicleCar, VehicleVan, VehicleBus, VehicleLimousine}
	}
	return nil
}

// Resource is a capacity-bounded container (hotel room or vehicle).
// Available always equals Capacity minus the number of assigned persons.
type Resource struct {
	ID                string       `json:"id"`
	Kind              ResourceKind `json:"kind"`
	Name              string       `json:"name"`
	Type              string       `json:"type"`
	Capacity          int          `json:"capacity"`
	Available         int          `json:"available"`
	AssignedPersonIDs []string     `json:"assigned_person_ids"`
	Price             float64      `json:"price"`
	Amenities         []string     `json:"amenities,omitempty"`
	Version           int64        `json:"version"`
}

// IsFull reports whether no more persons can be assigned
func (r *Resource) IsFull() bool {
	return len(r.AssignedPersonIDs) >= r.Capacity
}

// Holds reports whether personID is assigned to the resource
func (r *Resource) Holds(personID string) bool {
	for _, id := range r.AssignedPersonIDs {
		if id == personID {
			return true
		}
	}
	return false
}

// Clone returns a copy with its own slices.
func (r Resource) Clone() Resource {
	out := r
	out.AssignedPersonIDs = append([]string{}, r.AssignedPersonIDs...)
	if r.Amenities != nil {
		out.Amenities = append([]string(nil), r.Amenities...)
	}
	return out
}
