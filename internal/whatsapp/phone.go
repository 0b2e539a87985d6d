package whatsapp

import (
	"fmt"
	"strings"
)

// NormalizePhoneNumber normalizes phone numbers to international format.
// Israeli local numbers (05XXXXXXXX) become 9725XXXXXXXX.
func NormalizePhoneNumber(phoneNumber string) string {
	phoneNumber = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phoneNumber)

	if strings.HasPrefix(phoneNumber, "0") && len(phoneNumber) == 10 {
		phoneNumber = "972" + phoneNumber[1:]
	}

	// 9720... means the trunk zero was kept after the country code
	if strings.HasPrefix(phoneNumber, "9720") {
		phoneNumber = "972" + phoneNumber[4:]
	}

	return phoneNumber
}

// SamePhone reports whether two numbers normalize to the same value
func SamePhone(a, b string) bool {
	na := NormalizePhoneNumber(a)
	return na != "" && na == NormalizePhoneNumber(b)
}

// Invitation carries what goes into an invitation message
type Invitation struct {
	GuestName string
	Date      string
	Location  string
	BrideName string
	GroomName string
}

// FormatInvitation renders the invitation text with reply instructions
func FormatInvitation(inv Invitation) string {
	return fmt.Sprintf(
		"🎉 *Wedding Invitation*\n\n"+
			"Dear %s,\n\n"+
			"You are cordially invited to celebrate the wedding of\n\n"+
			"*%s* & *%s*\n\n"+
			"📅 Date: %s\n"+
			"📍 Location: %s\n\n"+
			"Please confirm your attendance.\n\n"+
			"Reply with:\n✅ *YES* to accept\n❌ *NO* to decline",
		inv.GuestName, inv.BrideName, inv.GroomName, inv.Date, inv.Location,
	)
}
