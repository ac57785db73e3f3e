package chat

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is a media item offered to a partner and awaiting their decision.
// It exists only between offer and decision; disconnects abandon it.
type Transfer struct {
	Token     string
	Sender    int64
	Recipient int64
	Item      MediaItem
	CreatedAt time.Time
}

type grantKey struct {
	sender    int64
	recipient int64
}

// ConsentCoordinator tracks pending media transfers and sticky auto-approve
// grants. At most one pending transfer per recipient at a time; a second
// offer is rejected until the first is decided. A grant is scoped to the
// ordered (sender, recipient) pair and, once earned through an acceptance,
// is never revoked automatically.
type ConsentCoordinator struct {
	transfers   map[string]*Transfer
	byRecipient map[int64]string
	grants      map[grantKey]bool
	now         func() time.Time
}

func NewConsentCoordinator() *ConsentCoordinator {
	return &ConsentCoordinator{
		transfers:   make(map[string]*Transfer),
		byRecipient: make(map[int64]string),
		grants:      make(map[grantKey]bool),
		now:         time.Now,
	}
}

// Offer registers a pending transfer and returns its token. When the sender
// already holds a grant from the recipient, granted is true and no transfer
// is created: the caller delivers immediately.
func (c *ConsentCoordinator) Offer(sender, recipient int64, item MediaItem) (token string, granted bool, err error) {
	if c.grants[grantKey{sender, recipient}] {
		return "", true, nil
	}
	if _, busy := c.byRecipient[recipient]; busy {
		return "", false, ErrRecipientBusy
	}
	t := &Transfer{
		Token:     uuid.NewString(),
		Sender:    sender,
		Recipient: recipient,
		Item:      item,
		CreatedAt: c.now(),
	}
	c.transfers[t.Token] = t
	c.byRecipient[recipient] = t.Token
	return t.Token, false, nil
}

// Accept resolves the transfer as delivered and sets the sender's grant for
// future transfers to this recipient.
func (c *ConsentCoordinator) Accept(token string, actor int64) (*Transfer, error) {
	t, err := c.take(token, actor)
	if err != nil {
		return nil, err
	}
	c.grants[grantKey{t.Sender, t.Recipient}] = true
	return t, nil
}

// Reject resolves the transfer as discarded. No grant is set.
func (c *ConsentCoordinator) Reject(token string, actor int64) (*Transfer, error) {
	return c.take(token, actor)
}

func (c *ConsentCoordinator) take(token string, actor int64) (*Transfer, error) {
	t, ok := c.transfers[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	if t.Recipient != actor {
		return nil, ErrNotRecipient
	}
	delete(c.transfers, token)
	delete(c.byRecipient, t.Recipient)
	return t, nil
}

// Abandon cancels every pending transfer the user is party to, as sender or
// recipient, and returns them. Called whenever a user unpairs, disconnects
// or is banned; no orphaned transfer may outlive its conversation.
func (c *ConsentCoordinator) Abandon(userID int64) []*Transfer {
	var abandoned []*Transfer
	for token, t := range c.transfers {
		if t.Sender == userID || t.Recipient == userID {
			delete(c.transfers, token)
			delete(c.byRecipient, t.Recipient)
			abandoned = append(abandoned, t)
		}
	}
	return abandoned
}

// HasGrant reports whether sender holds a standing grant from recipient.
func (c *ConsentCoordinator) HasGrant(sender, recipient int64) bool {
	return c.grants[grantKey{sender, recipient}]
}

// Pending returns the number of undecided transfers.
func (c *ConsentCoordinator) Pending() int {
	return len(c.transfers)
}
