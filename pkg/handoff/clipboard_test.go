package handoff

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubClipboard(t *testing.T, sys, osc func(string) error) {
	t.Helper()
	origSys, origOSC := clipboardWriteAll, clipboardWriteOSC52
	clipboardWriteAll, clipboardWriteOSC52 = sys, osc
	t.Cleanup(func() { clipboardWriteAll, clipboardWriteOSC52 = origSys, origOSC })
}

func TestCopyToClipboard(t *testing.T) {
	t.Run("system clipboard", func(t *testing.T) {
		var got string
		oscCalled := false
		stubClipboard(t,
			func(s string) error { got = s; return nil },
			func(string) error { oscCalled = true; return nil })
		require.NoError(t, CopyToClipboard("note body"))
		assert.Equal(t, "note body", got)
		assert.False(t, oscCalled)
	})

	t.Run("osc52 fallback", func(t *testing.T) {
		var got string
		stubClipboard(t,
			func(string) error { return errors.New("exit status 1") },
			func(s string) error { got = s; return nil })
		require.NoError(t, CopyToClipboard("note body"))
		assert.Equal(t, "note body", got)
	})

	t.Run("both fail", func(t *testing.T) {
		stubClipboard(t,
			func(string) error { return errors.New("no xclip") },
			func(string) error { return errors.New("no tty") })
		err := CopyToClipboard("note body")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no xclip")
		assert.Contains(t, err.Error(), "no tty")
	})
}

func TestWriteOSC52Sequence(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var buf bytes.Buffer
	require.NoError(t, writeOSC52Sequence(&buf, "hello"))
	out := buf.String()
	assert.Contains(t, out, "\x1b]52;")
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("hello")))
}

func TestOSC52Supported(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, osc52Supported())
	t.Setenv("TERM", "")
	assert.False(t, osc52Supported())
	t.Setenv("TERM", "xterm")
	assert.True(t, osc52Supported())
}
