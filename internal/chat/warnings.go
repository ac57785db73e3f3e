package chat

// WarningLedger counts moderation violations per user. Counts live only in
// memory; losing them on restart is accepted.
type WarningLedger struct {
	limit  int
	counts map[int64]int
}

func NewWarningLedger(limit int) *WarningLedger {
	if limit <= 0 {
		limit = 3
	}
	return &WarningLedger{limit: limit, counts: make(map[int64]int)}
}

// RecordViolation increments the user's counter. When the count reaches the
// limit it resets to zero and banned is true; the caller owns the actual ban
// and the queue/pair teardown.
func (w *WarningLedger) RecordViolation(userID int64) (count int, banned bool) {
	w.counts[userID]++
	count = w.counts[userID]
	if count >= w.limit {
		delete(w.counts, userID)
		return count, true
	}
	return count, false
}

// Count returns the user's current warning count.
func (w *WarningLedger) Count(userID int64) int {
	return w.counts[userID]
}

// Limit returns the configured warning limit.
func (w *WarningLedger) Limit() int {
	return w.limit
}

// Reset clears the user's counter, used on ban and on ban expiry.
func (w *WarningLedger) Reset(userID int64) {
	delete(w.counts, userID)
}
