package chat

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine and its components. All of them are
// recoverable: the transport maps each one to a reply for the initiating user
// and no shared state is mutated on the error path.
var (
	ErrAlreadyQueued     = errors.New("already waiting for a partner")
	ErrAlreadyPaired     = errors.New("already in a conversation")
	ErrNotPaired         = errors.New("not in a conversation")
	ErrRecipientBusy     = errors.New("recipient already has a pending transfer")
	ErrTokenNotFound     = errors.New("transfer not found or already decided")
	ErrNotRecipient      = errors.New("transfer addressed to someone else")
	ErrAlreadySupported  = errors.New("user already supported")
	ErrSelfReport        = errors.New("cannot report yourself")
	ErrSelfSupport       = errors.New("cannot support yourself")
	ErrBanned            = errors.New("user is banned")
	ErrProfileIncomplete = errors.New("profile is incomplete")
	ErrPremiumRequired   = errors.New("premium required")
)

// PolicyViolationError reports a moderation filter hit on an outgoing text.
// When Banned is true the warning limit was reached and the sender has
// already been banned and torn down by the engine.
type PolicyViolationError struct {
	Reason string
	Count  int
	Limit  int
	Banned bool
}

func (e *PolicyViolationError) Error() string {
	if e.Banned {
		return fmt.Sprintf("policy violation (%s): warning limit reached, banned", e.Reason)
	}
	return fmt.Sprintf("policy violation (%s): warning %d/%d", e.Reason, e.Count, e.Limit)
}
