package chat

import "time"

// Gender is the profile attribute the matchmaker can filter on.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnset  Gender = ""
)

// Entry is one user waiting for a partner. Gender is a snapshot of the
// user's own profile taken at enqueue time; Want selects the queue: unset
// means the default (random) queue, anything else the attribute-seeking one.
type Entry struct {
	UserID     int64
	Gender     Gender
	Want       Gender
	EnqueuedAt time.Time
}

// QueueSet holds the two waiting queues, both strictly FIFO. A user appears
// in at most one of them; the engine additionally guarantees a queued user is
// never simultaneously paired.
type QueueSet struct {
	random  []Entry
	seeking []Entry
	members map[int64]bool
}

func NewQueueSet() *QueueSet {
	return &QueueSet{members: make(map[int64]bool)}
}

// Enqueue appends e to the queue selected by e.Want.
func (q *QueueSet) Enqueue(e Entry) error {
	if q.members[e.UserID] {
		return ErrAlreadyQueued
	}
	q.members[e.UserID] = true
	if e.Want == GenderUnset {
		q.random = append(q.random, e)
	} else {
		q.seeking = append(q.seeking, e)
	}
	return nil
}

// Remove drops the user from whichever queue holds it. Idempotent.
func (q *QueueSet) Remove(userID int64) bool {
	if !q.members[userID] {
		return false
	}
	delete(q.members, userID)
	q.random = removeEntry(q.random, userID)
	q.seeking = removeEntry(q.seeking, userID)
	return true
}

// Contains reports whether the user waits in any queue.
func (q *QueueSet) Contains(userID int64) bool {
	return q.members[userID]
}

// Len returns the sizes of the random and attribute-seeking queues.
func (q *QueueSet) Len() (random, seeking int) {
	return len(q.random), len(q.seeking)
}

func removeEntry(entries []Entry, userID int64) []Entry {
	for i, e := range entries {
		if e.UserID == userID {
			return append(entries[:i], entries[i+1:]...)
		}
	}
	return entries
}
