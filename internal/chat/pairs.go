package chat

// PairTable is the authoritative symmetric map of active conversations.
// The relation is functional: every user has at most one partner, and
// A -> B always implies B -> A.
type PairTable struct {
	partners map[int64]int64
}

func NewPairTable() *PairTable {
	return &PairTable{partners: make(map[int64]int64)}
}

// Pair establishes the symmetric entries a <-> b.
func (t *PairTable) Pair(a, b int64) error {
	if _, ok := t.partners[a]; ok {
		return ErrAlreadyPaired
	}
	if _, ok := t.partners[b]; ok {
		return ErrAlreadyPaired
	}
	t.partners[a] = b
	t.partners[b] = a
	return nil
}

// Unpair removes both directed entries and returns the former partner so the
// caller can notify them. Idempotent: unpairing an unpaired user is a no-op.
func (t *PairTable) Unpair(userID int64) (partner int64, ok bool) {
	partner, ok = t.partners[userID]
	if !ok {
		return 0, false
	}
	delete(t.partners, userID)
	delete(t.partners, partner)
	return partner, true
}

// PartnerOf returns the user's current partner, if any.
func (t *PairTable) PartnerOf(userID int64) (int64, bool) {
	partner, ok := t.partners[userID]
	return partner, ok
}

// Len returns the number of active pairs.
func (t *PairTable) Len() int {
	return len(t.partners) / 2
}
