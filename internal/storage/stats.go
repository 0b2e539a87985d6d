package storage

import "github.com/B1shwas/Khumbaya-sub000/internal/models"

// Stats is the guest list rollup shown above the list.
// Going + Pending + NotGoing + NotInvited always equals the number of guests.
type Stats struct {
	Going         int `json:"going"`
	Pending       int `json:"pending"`
	NotGoing      int `json:"not_going"`
	NotInvited    int `json:"not_invited"`
	TotalGuests   int `json:"total_guests"`
	InvitedGuests int `json:"invited_guests"`
}

// Stats counts guests by status. TotalGuests counts each guest once plus one
// for a plus-one.
func (s *GuestStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return computeStats(s.guests)
}

func computeStats(guests []models.Guest) Stats {
	var st Stats
	for _, g := range guests {
		switch g.Status {
		case models.RSVPGoing:
			st.Going++
		case models.RSVPPending:
			st.Pending++
		case models.RSVPNotGoing:
			st.NotGoing++
		default:
			// unknown labels count as not invited so the buckets still reconcile
			st.NotInvited++
		}

		st.TotalGuests++
		if g.HasPlusOne {
			st.TotalGuests++
		}
	}
	st.InvitedGuests = len(guests) - st.NotInvited
	return st
}
