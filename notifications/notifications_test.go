package notifications

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_NotifyAndDismiss(t *testing.T) {
	c := NewCenter(&bytes.Buffer{})

	first := c.Notify(LevelInfo, "locker created")
	second := c.Notify(LevelWarning, "upload slow")

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	notices := c.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, "locker created", notices[0].Message)
	assert.Equal(t, LevelWarning, notices[1].Level)

	c.Dismiss(first)
	notices = c.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, second, notices[0].ID)

	c.Dismiss("unknown")
	assert.Len(t, c.Notices(), 1)
}

func TestCenter_Alert(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	c := NewCenter(&buf)

	c.Alert("fatal: no auth config")

	assert.Equal(t, "fatal: no auth config\n", buf.String())
	notices := c.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, LevelError, notices[0].Level)
}

func TestCenter_NoticesIsSnapshot(t *testing.T) {
	c := NewCenter(&bytes.Buffer{})
	c.Notify(LevelInfo, "a")

	snap := c.Notices()
	snap[0].Message = "changed"
	assert.Equal(t, "a", c.Notices()[0].Message)
}
