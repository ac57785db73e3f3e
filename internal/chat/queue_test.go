package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueSet_Enqueue(t *testing.T) {
	q := NewQueueSet()

	require.NoError(t, q.Enqueue(Entry{UserID: 1, EnqueuedAt: time.Now()}))
	assert.True(t, q.Contains(1))

	random, seeking := q.Len()
	assert.Equal(t, 1, random)
	assert.Equal(t, 0, seeking)
}

func TestQueueSet_EnqueueTwiceRejected(t *testing.T) {
	q := NewQueueSet()

	require.NoError(t, q.Enqueue(Entry{UserID: 1}))

	err := q.Enqueue(Entry{UserID: 1})
	assert.ErrorIs(t, err, ErrAlreadyQueued)

	// Re-enqueue into the other queue is rejected too
	err = q.Enqueue(Entry{UserID: 1, Want: GenderFemale})
	assert.ErrorIs(t, err, ErrAlreadyQueued)
}

func TestQueueSet_WantSelectsQueue(t *testing.T) {
	q := NewQueueSet()

	require.NoError(t, q.Enqueue(Entry{UserID: 1}))
	require.NoError(t, q.Enqueue(Entry{UserID: 2, Want: GenderFemale}))

	random, seeking := q.Len()
	assert.Equal(t, 1, random)
	assert.Equal(t, 1, seeking)
}

func TestQueueSet_Remove(t *testing.T) {
	q := NewQueueSet()

	require.NoError(t, q.Enqueue(Entry{UserID: 1}))
	require.NoError(t, q.Enqueue(Entry{UserID: 2, Want: GenderMale}))

	assert.True(t, q.Remove(1))
	assert.False(t, q.Contains(1))
	assert.True(t, q.Remove(2))

	// Idempotent
	assert.False(t, q.Remove(1))
	assert.False(t, q.Remove(99))

	random, seeking := q.Len()
	assert.Equal(t, 0, random)
	assert.Equal(t, 0, seeking)
}

func TestQueueSet_MembershipStaysConsistent(t *testing.T) {
	q := NewQueueSet()

	// Interleave enqueues and removes and verify Contains always agrees
	// with the queue contents.
	for i := int64(1); i <= 50; i++ {
		want := GenderUnset
		if i%3 == 0 {
			want = GenderFemale
		}
		require.NoError(t, q.Enqueue(Entry{UserID: i, Want: want}))
	}
	for i := int64(2); i <= 50; i += 2 {
		assert.True(t, q.Remove(i))
	}

	random, seeking := q.Len()
	total := random + seeking
	assert.Equal(t, 25, total)
	for i := int64(1); i <= 50; i++ {
		assert.Equal(t, i%2 == 1, q.Contains(i), "user %d", i)
	}
}
