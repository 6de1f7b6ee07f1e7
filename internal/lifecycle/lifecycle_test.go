package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vulong264/cvstatuschecker/internal/lifecycle"
)

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{
		"PENDING", "EMAILED", "EMAIL_OPENED", "REPLIED", "INTERESTED", "NOT_INTERESTED",
	}
	for _, s := range valid {
		got, err := lifecycle.ParseStatus(s)
		assert.NoError(t, err, s)
		assert.Equal(t, s, string(got))
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, s := range []string{"", "pending", "EMAILED ", "ARCHIVED"} {
		_, err := lifecycle.ParseStatus(s)
		assert.Error(t, err, "ParseStatus(%q) should fail", s)
	}
}

func TestNextStatus_OpenAdvancesOnlyFromEmailed(t *testing.T) {
	next, changed := lifecycle.NextStatus(lifecycle.StatusEmailed, lifecycle.EventOpen)
	assert.True(t, changed)
	assert.Equal(t, lifecycle.StatusEmailOpened, next)

	// A second open on an already-opened campaign is a no-op.
	next, changed = lifecycle.NextStatus(lifecycle.StatusEmailOpened, lifecycle.EventOpen)
	assert.False(t, changed)
	assert.Equal(t, lifecycle.StatusEmailOpened, next)
}

func TestNextStatus_ReplyAdvancesFromEmailedAndOpened(t *testing.T) {
	for _, from := range []lifecycle.Status{lifecycle.StatusEmailed, lifecycle.StatusEmailOpened} {
		next, changed := lifecycle.NextStatus(from, lifecycle.EventReply)
		assert.True(t, changed, "reply from %s", from)
		assert.Equal(t, lifecycle.StatusReplied, next)
	}
}

func TestNextStatus_NoRegression(t *testing.T) {
	// Events never touch PENDING, REPLIED or the terminal states.
	unmoved := []lifecycle.Status{
		lifecycle.StatusPending,
		lifecycle.StatusReplied,
		lifecycle.StatusInterested,
		lifecycle.StatusNotInterested,
	}
	for _, from := range unmoved {
		for _, ev := range []lifecycle.EventKind{lifecycle.EventOpen, lifecycle.EventReply} {
			next, changed := lifecycle.NextStatus(from, ev)
			assert.False(t, changed, "%s + %s", from, ev)
			assert.Equal(t, from, next)
		}
	}
}

func TestNextStatus_UnknownEvent(t *testing.T) {
	next, changed := lifecycle.NextStatus(lifecycle.StatusEmailed, lifecycle.EventKind("bounce"))
	assert.False(t, changed)
	assert.Equal(t, lifecycle.StatusEmailed, next)
}
