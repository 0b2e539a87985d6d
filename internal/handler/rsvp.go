package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/B1shwas/Khumbaya-sub000/internal/models"
	"github.com/B1shwas/Khumbaya-sub000/internal/storage"
	"github.com/B1shwas/Khumbaya-sub000/internal/whatsapp"
)

var (
	ErrGuestNotFound = errors.New("guest not found")
	ErrNoPhone       = errors.New("guest has no phone number")
)

// Messenger delivers invitations and replies to a guest's phone
type Messenger interface {
	SendInvitation(ctx context.Context, phoneNumber string, inv whatsapp.Invitation) error
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

type RSVPHandler struct {
	messenger Messenger
	guests    *storage.GuestStore
	config    *Config
	log       zerolog.Logger
}

type Config struct {
	WeddingDate     string
	WeddingLocation string
	BrideName       string
	GroomName       string
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(messenger Messenger, guests *storage.GuestStore, cfg *Config, log zerolog.Logger) *RSVPHandler {
	return &RSVPHandler{
		messenger: messenger,
		guests:    guests,
		config:    cfg,
		log:       log.With().Str("component", "rsvp_handler").Logger(),
	}
}

// HandleMessage processes incoming WhatsApp messages for RSVP responses
func (h *RSVPHandler) HandleMessage(msg *events.Message) error {
	if msg.Message == nil {
		return nil
	}

	text := msg.Message.GetConversation()
	if text == "" {
		text = msg.Message.GetExtendedTextMessage().GetText()
	}
	if text == "" {
		return nil
	}

	_, err := h.HandleReply(context.Background(), msg.Info.Sender.User, text)
	return err
}

// HandleReply applies a free-text reply from phoneNumber to the matching
// invited guest and confirms back. It returns the status that was set, or ""
// when the sender is unknown, was never invited, or the text is not a reply.
func (h *RSVPHandler) HandleReply(ctx context.Context, phoneNumber, text string) (models.RSVPStatus, error) {
	guest, ok := h.guests.Find(func(g models.Guest) bool {
		return whatsapp.SamePhone(g.Phone, phoneNumber)
	})
	if !ok || !guest.Status.IsInvited() {
		h.log.Debug().Str("phone", phoneNumber).Msg("reply from unknown or uninvited number, ignoring")
		return "", nil
	}

	status, ok := ParseReply(text)
	if !ok {
		return "", nil
	}

	if !h.guests.UpdateGuestStatus(guest.ID, status) {
		return "", fmt.Errorf("failed to update RSVP: %w", ErrGuestNotFound)
	}
	h.log.Info().Str("guest_id", guest.ID).Str("status", string(status)).Msg("RSVP received")

	if err := h.messenger.SendMessage(ctx, phoneNumber, h.confirmation(status)); err != nil {
		h.log.Error().Err(err).Str("guest_id", guest.ID).Msg("confirmation delivery failed")
		return status, fmt.Errorf("failed to send confirmation: %w", err)
	}
	return status, nil
}

// SendInvitation delivers an invitation to the guest and, once delivered,
// marks them pending. A failed delivery leaves the guest untouched.
func (h *RSVPHandler) SendInvitation(ctx context.Context, guestID string) error {
	guest, ok := h.guests.Get(guestID)
	if !ok {
		return ErrGuestNotFound
	}
	if strings.TrimSpace(guest.Phone) == "" {
		return ErrNoPhone
	}

	inv := whatsapp.Invitation{
		GuestName: guest.Name,
		Date:      h.config.WeddingDate,
		Location:  h.config.WeddingLocation,
		BrideName: h.config.BrideName,
		GroomName: h.config.GroomName,
	}
	if err := h.messenger.SendInvitation(ctx, guest.Phone, inv); err != nil {
		h.log.Error().Err(err).Str("guest_id", guestID).Msg("invitation delivery failed")
		return fmt.Errorf("failed to send invitation: %w", err)
	}

	h.guests.SendInvite(guestID)
	return nil
}

func (h *RSVPHandler) confirmation(status models.RSVPStatus) string {
	switch status {
	case models.RSVPGoing:
		return fmt.Sprintf(
			"🎉 Wonderful! We're so excited to celebrate with you!\n\n"+
				"We've confirmed your attendance for the wedding of %s & %s on %s.\n\n"+
				"See you there! 💕",
			h.config.BrideName, h.config.GroomName, h.config.WeddingDate,
		)
	case models.RSVPNotGoing:
		return fmt.Sprintf(
			"Thank you for letting us know. We're sorry you won't be able to join us for the wedding of %s & %s.\n\n"+
				"We'll miss you! 💕",
			h.config.BrideName, h.config.GroomName,
		)
	default:
		return "Thanks! We've kept your invitation open, reply YES or NO once you know. 💕"
	}
}

var (
	declinePhrases = []string{"not coming", "can't come", "cant come", "won't come", "wont come", "can't make it", "cannot make it", "לא מגיע", "לא מגיעה", "לא מגיעים", "לא נגיע", "לא אגיע"}
	acceptWords    = []string{"yes", "yep", "yeah", "accept", "accepting", "attending", "coming", "will come", "will be there", "כן", "מגיע", "מגיעה", "מגיעים", "נגיע", "אגיע"}
	declineWords   = []string{"no", "nope", "decline", "declining", "לא"}
	maybeWords     = []string{"maybe", "not sure", "perhaps", "אולי"}
)

// ParseReply maps a free-text reply to an RSVP status. Negative phrases are
// checked before positive words, so "not coming" never reads as "coming".
func ParseReply(text string) (models.RSVPStatus, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	text = apostrophes.Replace(text)
	switch {
	case strings.Contains(text, "❌"):
		return models.RSVPNotGoing, true
	case strings.Contains(text, "✅"):
		return models.RSVPGoing, true
	}

	padded := " " + strings.Join(strings.FieldsFunc(text, isSeparator), " ") + " "
	switch {
	case containsAny(padded, declinePhrases...):
		return models.RSVPNotGoing, true
	case containsAny(padded, maybeWords...):
		return models.RSVPPending, true
	case containsAny(padded, acceptWords...):
		return models.RSVPGoing, true
	case containsAny(padded, declineWords...):
		return models.RSVPNotGoing, true
	}
	return "", false
}

// phone keyboards often send typographic apostrophes
var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
}

// containsAny checks if the padded text contains any keyword as whole words
func containsAny(padded string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(padded, " "+keyword+" ") {
			return true
		}
	}
	return false
}
