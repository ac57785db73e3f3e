package telegram

import (
	"errors"
	"fmt"

	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/services"
)

const (
	msgWelcome = "Welcome to VeilChat, anonymous 1:1 chat.\n\n" +
		"/search — find a random partner\n" +
		"/find male|female — find a partner by gender (premium)\n" +
		"/next — switch partner\n/stop — end the chat\n" +
		"/help — all commands"
	msgHelp = "Commands:\n" +
		"/search — find a random partner\n" +
		"/find male|female — find a partner by gender (premium)\n" +
		"/next — end chat and search again\n" +
		"/stop — stop searching or end the chat\n" +
		"/report — report your partner\n" +
		"/gender /age /country — edit your profile\n" +
		"/profile — show your profile\n" +
		"/link — your invite link (earn premium)"
	msgSearching      = "Searching for a partner..."
	msgMediaOffered   = "Media sent. Waiting for your partner's consent."
	msgMediaDelivered = "Media delivered."
	msgFeedbackPrompt = "How was the conversation?"
	msgNotRegistered  = "Send /start first."
	msgNotAuthorized  = "You are not allowed to do that."
	msgUnknownCommand = "Unknown command. Send /help."
	msgInternalError  = "Something went wrong, please try again."
)

// replyFor maps engine and service errors to user-facing replies. Every
// recoverable rejection gets a message; nothing is silently dropped.
func replyFor(err error) string {
	var violation *chat.PolicyViolationError
	if errors.As(err, &violation) {
		if violation.Banned {
			// The engine already delivered the ban notice.
			return ""
		}
		return fmt.Sprintf("⚠️ Message blocked (%s). Warning %d/%d. Reaching the limit means a temporary ban.",
			violation.Reason, violation.Count, violation.Limit)
	}

	switch {
	case errors.Is(err, chat.ErrBanned):
		return "You are banned and cannot use the chat right now."
	case errors.Is(err, chat.ErrAlreadyQueued):
		return "You are already searching. Send /stop to cancel."
	case errors.Is(err, chat.ErrAlreadyPaired):
		return "You are already in a conversation. Send /next or /stop first."
	case errors.Is(err, chat.ErrNotPaired):
		return "You are not connected to anyone. Send /search to find a partner."
	case errors.Is(err, chat.ErrRecipientBusy):
		return "Your partner is still deciding on your previous media. Please wait."
	case errors.Is(err, chat.ErrTokenNotFound):
		return "This media offer is no longer available."
	case errors.Is(err, chat.ErrNotRecipient):
		return "This offer was not addressed to you."
	case errors.Is(err, chat.ErrAlreadySupported):
		return "You already thanked this user."
	case errors.Is(err, chat.ErrSelfReport), errors.Is(err, chat.ErrSelfSupport):
		return "You cannot do that to yourself."
	case errors.Is(err, chat.ErrProfileIncomplete):
		return "Please complete your profile first: /gender"
	case errors.Is(err, chat.ErrPremiumRequired):
		return "Gender search is a premium feature. Get premium with /link."
	case errors.Is(err, services.ErrInvalidAge):
		return "Age must be between 13 and 99."
	case errors.Is(err, services.ErrInvalidGender):
		return "Gender must be male or female."
	}
	return msgInternalError
}

func consentPromptText(kind chat.MediaKind) string {
	return fmt.Sprintf("Your partner wants to send you a %s. Accept?", kind)
}
