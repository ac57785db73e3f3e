package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarningLedger_EscalatesAtLimit(t *testing.T) {
	w := NewWarningLedger(3)

	count, banned := w.RecordViolation(1)
	assert.Equal(t, 1, count)
	assert.False(t, banned)

	count, banned = w.RecordViolation(1)
	assert.Equal(t, 2, count)
	assert.False(t, banned)

	count, banned = w.RecordViolation(1)
	assert.Equal(t, 3, count)
	assert.True(t, banned)

	// The counter resets with the ban so a later unban starts clean.
	assert.Equal(t, 0, w.Count(1))
}

func TestWarningLedger_CountsPerUser(t *testing.T) {
	w := NewWarningLedger(3)

	w.RecordViolation(1)
	w.RecordViolation(1)
	w.RecordViolation(2)

	assert.Equal(t, 2, w.Count(1))
	assert.Equal(t, 1, w.Count(2))
}

func TestWarningLedger_Reset(t *testing.T) {
	w := NewWarningLedger(3)

	w.RecordViolation(1)
	w.RecordViolation(1)
	w.Reset(1)

	assert.Equal(t, 0, w.Count(1))

	count, banned := w.RecordViolation(1)
	assert.Equal(t, 1, count)
	assert.False(t, banned)
}

func TestWarningLedger_DefaultLimit(t *testing.T) {
	w := NewWarningLedger(0)
	assert.Equal(t, 3, w.Limit())
}
