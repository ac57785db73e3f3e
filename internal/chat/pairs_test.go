package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairTable_PairIsSymmetric(t *testing.T) {
	pt := NewPairTable()

	require.NoError(t, pt.Pair(1, 2))

	partner, ok := pt.PartnerOf(1)
	require.True(t, ok)
	assert.Equal(t, int64(2), partner)

	partner, ok = pt.PartnerOf(2)
	require.True(t, ok)
	assert.Equal(t, int64(1), partner)

	assert.Equal(t, 1, pt.Len())
}

func TestPairTable_RejectsDoublePairing(t *testing.T) {
	pt := NewPairTable()

	require.NoError(t, pt.Pair(1, 2))

	assert.ErrorIs(t, pt.Pair(1, 3), ErrAlreadyPaired)
	assert.ErrorIs(t, pt.Pair(3, 2), ErrAlreadyPaired)

	// The failed attempts must not leave user 3 half-paired
	_, ok := pt.PartnerOf(3)
	assert.False(t, ok)
}

func TestPairTable_UnpairRemovesBothSides(t *testing.T) {
	pt := NewPairTable()

	require.NoError(t, pt.Pair(1, 2))

	partner, ok := pt.Unpair(1)
	require.True(t, ok)
	assert.Equal(t, int64(2), partner)

	_, ok = pt.PartnerOf(1)
	assert.False(t, ok)
	_, ok = pt.PartnerOf(2)
	assert.False(t, ok)
	assert.Equal(t, 0, pt.Len())

	// Idempotent
	_, ok = pt.Unpair(1)
	assert.False(t, ok)
}
