package storage

import (
	"testing"

	"github.com/B1shwas/Khumbaya-sub000/internal/models"
)

func TestStats(t *testing.T) {
	s := newTestStore(t)
	s.Add(models.Guest{Name: "a", Status: models.RSVPGoing, HasPlusOne: true})
	s.Add(models.Guest{Name: "b", Status: models.RSVPGoing})
	s.Add(models.Guest{Name: "c", Status: models.RSVPPending, HasPlusOne: true})
	s.Add(models.Guest{Name: "d", Status: models.RSVPNotGoing})
	s.Add(models.Guest{Name: "e"})

	got := s.Stats()
	want := Stats{
		Going:         2,
		Pending:       1,
		NotGoing:      1,
		NotInvited:    1,
		TotalGuests:   7,
		InvitedGuests: 4,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestStats_Reconciles(t *testing.T) {
	collections := [][]models.Guest{
		nil,
		{{Status: models.RSVPNotInvited}},
		{{Status: models.RSVPGoing}, {Status: models.RSVPGoing}, {Status: models.RSVPNotGoing}},
		{{Status: "legacy"}, {Status: models.RSVPPending}},
	}

	for i, guests := range collections {
		st := computeStats(guests)
		if sum := st.Going + st.Pending + st.NotGoing + st.NotInvited; sum != len(guests) {
			t.Fatalf("collection %d: expected buckets to sum to %d, got %d", i, len(guests), sum)
		}
		if st.InvitedGuests != len(guests)-st.NotInvited {
			t.Fatalf("collection %d: expected invited %d, got %d", i, len(guests)-st.NotInvited, st.InvitedGuests)
		}
	}
}
