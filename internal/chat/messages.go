package chat

import (
	"fmt"
	"strings"
)

// Engine-originated user notifications. Replies to the initiating user live
// in the transport layer; these are the pushes the engine sends on its own
// (match found, partner gone, ban status changes).
const (
	msgPartnerLeft   = "Your partner left the conversation. Send /search to find a new one."
	msgMediaApproved = "Your partner accepted the media. Future media will be delivered directly."
	msgMediaRejected = "Your partner declined the media."
	msgUnbanned      = "Your ban was lifted. Send /search to start chatting again."
	msgBanLifted     = "Your temporary ban has expired. Send /search to start chatting again."
)

func matchedMessage(partner Profile) string {
	var b strings.Builder
	b.WriteString("Partner found!\n")
	switch partner.Gender {
	case GenderMale:
		b.WriteString("Gender: male\n")
	case GenderFemale:
		b.WriteString("Gender: female\n")
	}
	if partner.Age > 0 {
		fmt.Fprintf(&b, "Age: %d\n", partner.Age)
	}
	if partner.Country != "" {
		fmt.Fprintf(&b, "Country: %s\n", partner.Country)
	}
	b.WriteString("\nSay hi! Use /next for a new partner or /stop to leave.")
	return b.String()
}

func bannedMessage(rec BanRecord) string {
	if rec.Permanent {
		return "You have been permanently banned. Reason: " + rec.Reason
	}
	if rec.ExpiresAt != nil {
		return fmt.Sprintf("You have been banned until %s. Reason: %s",
			rec.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"), rec.Reason)
	}
	return "You have been banned. Reason: " + rec.Reason
}
