package chat

// Match is a pair of users the matchmaker pulled out of the waiting queues.
type Match struct {
	A, B Entry
}

// RunMatch removes matched users from the queues and returns the new pairs,
// oldest-enqueued-first with no randomization.
//
// Two passes, in order:
//  1. Attribute pass: for the oldest attribute-seeking entries first, scan
//     the random queue front-to-back for the first waiting user whose own
//     gender satisfies the seeker's wish. At most one match per invocation
//     so every call stays deterministic and auditable.
//  2. Default pass: drain the random queue pairwise, strict FIFO.
func (q *QueueSet) RunMatch() []Match {
	var matches []Match

	for _, seeker := range q.seeking {
		found := false
		for _, candidate := range q.random {
			if candidate.Gender == seeker.Want {
				q.Remove(seeker.UserID)
				q.Remove(candidate.UserID)
				matches = append(matches, Match{A: seeker, B: candidate})
				found = true
				break
			}
		}
		if found {
			break
		}
	}

	for len(q.random) >= 2 {
		a, b := q.random[0], q.random[1]
		q.Remove(a.UserID)
		q.Remove(b.UserID)
		matches = append(matches, Match{A: a, B: b})
	}

	return matches
}
