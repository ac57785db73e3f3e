package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_WholeWordMatching(t *testing.T) {
	f := NewFilter(BannedPhrases)

	tests := []struct {
		name      string
		text      string
		violating bool
	}{
		{"clean text", "hello, how are you?", false},
		{"banned word", "you ass", true},
		{"banned word uppercase", "you ASS", true},
		{"substring does not trip", "I have a class at noon", false},
		{"substring in passage", "let me pass this on", false},
		{"banned word with punctuation", "spam!", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.violating, f.IsViolating(tt.text))
		})
	}
}

func TestFilter_DetectsLinks(t *testing.T) {
	f := NewFilter(BannedPhrases)

	tests := []struct {
		name      string
		text      string
		violating bool
	}{
		{"https", "check https://example.com now", true},
		{"http", "http://bad.site", true},
		{"telegram deep link", "join tg://resolve?domain=somebot", true},
		{"www without scheme", "visit www.example.com please", true},
		{"no link", "i like dots. and more dots.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.violating, f.IsViolating(tt.text))
		})
	}
}

func TestFilter_CheckReturnsReason(t *testing.T) {
	f := NewFilter(BannedPhrases)

	reason, violating := f.Check("see https://example.com")
	assert.True(t, violating)
	assert.Equal(t, "link_not_allowed", reason)

	reason, violating = f.Check("total spam")
	assert.True(t, violating)
	assert.Equal(t, "inappropriate_language", reason)

	reason, violating = f.Check("all good here")
	assert.False(t, violating)
	assert.Empty(t, reason)
}

func TestFilter_CustomPhraseList(t *testing.T) {
	f := NewFilter([]string{"forbidden"})

	assert.True(t, f.IsViolating("this is forbidden content"))
	assert.False(t, f.IsViolating("total spam"))
}
