package chat

import "time"

// BanRecord is the in-memory ban status of one user. A nil ExpiresAt with
// Permanent set means forever; a past ExpiresAt is treated as not-banned
// lazily, no timer needed for correctness.
type BanRecord struct {
	Reason    string
	Permanent bool
	ExpiresAt *time.Time
}

// Active reports whether the record still bans at the given instant.
func (r BanRecord) Active(now time.Time) bool {
	if r.Permanent {
		return true
	}
	return r.ExpiresAt != nil && r.ExpiresAt.After(now)
}

// BanRegistry is the authoritative in-memory store of ban status. The owner
// ID is always exempt regardless of any stored record. The engine mirrors
// mutations into the durable archive.
type BanRegistry struct {
	ownerID int64
	records map[int64]BanRecord
	now     func() time.Time
}

func NewBanRegistry(ownerID int64) *BanRegistry {
	return &BanRegistry{
		ownerID: ownerID,
		records: make(map[int64]BanRecord),
		now:     time.Now,
	}
}

// Load replaces the registry contents, used once at startup with the still
// active records from the archive.
func (b *BanRegistry) Load(records map[int64]BanRecord) {
	for id, rec := range records {
		b.records[id] = rec
	}
}

// IsBanned reports the user's current status. Expired temporary bans are
// dropped on the spot.
func (b *BanRegistry) IsBanned(userID int64) bool {
	if userID == b.ownerID {
		return false
	}
	rec, ok := b.records[userID]
	if !ok {
		return false
	}
	if !rec.Active(b.now()) {
		delete(b.records, userID)
		return false
	}
	return true
}

// Record returns the stored record, if any, without expiry evaluation.
func (b *BanRegistry) Record(userID int64) (BanRecord, bool) {
	rec, ok := b.records[userID]
	return rec, ok
}

// Ban stores rec for the user, overwriting any prior record. There is no ban
// stacking: last writer wins.
func (b *BanRegistry) Ban(userID int64, rec BanRecord) {
	b.records[userID] = rec
}

// Unban clears the user's record. Idempotent.
func (b *BanRegistry) Unban(userID int64) bool {
	_, ok := b.records[userID]
	delete(b.records, userID)
	return ok
}

// SweepExpired drops every lapsed temporary ban and returns the affected
// user IDs so the caller can notify them and reset their warning counters.
func (b *BanRegistry) SweepExpired() []int64 {
	now := b.now()
	var lapsed []int64
	for id, rec := range b.records {
		if !rec.Active(now) {
			delete(b.records, id)
			lapsed = append(lapsed, id)
		}
	}
	return lapsed
}

// Count returns the number of stored records, expired ones included.
func (b *BanRegistry) Count() int {
	return len(b.records)
}
