package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateConstructors(t *testing.T) {
	_, err := NewReviewing("raw", "")
	require.ErrorIs(t, err, ErrEmptyDocument)
	_, err = NewRefining("raw", "", "shorter")
	require.ErrorIs(t, err, ErrEmptyDocument)
	_, err = NewReady("raw", "", "name", "obsidian://new")
	require.ErrorIs(t, err, ErrEmptyDocument)

	rv, err := NewReviewing("raw", "# doc")
	require.NoError(t, err)
	assert.Equal(t, StatusReviewing, rv.Status())
	assert.Equal(t, "raw", rv.Input())
	assert.Equal(t, "# doc", rv.Doc())

	rf, err := NewRefining("raw", "# doc", "shorter")
	require.NoError(t, err)
	assert.Equal(t, StatusRefining, rf.Status())
	assert.Equal(t, "shorter", rf.Instruction)

	rd, err := NewReady("raw", "# doc", "doc", "obsidian://new?file=doc")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, rd.Status())
	assert.Equal(t, "doc", rd.Filename)
	assert.Equal(t, "# doc", rd.Doc())
}

func TestBusy(t *testing.T) {
	rv, _ := NewReviewing("", "d")
	rf, _ := NewRefining("", "d", "i")
	rd, _ := NewReady("", "d", "f", "l")

	tbl := []struct {
		state State
		busy  bool
	}{
		{Idle{}, false},
		{Generating{RawInput: "x"}, true},
		{rv, false},
		{rf, true},
		{rd, false},
	}
	for _, tt := range tbl {
		t.Run(string(tt.state.Status()), func(t *testing.T) {
			assert.Equal(t, tt.busy, Busy(tt.state))
		})
	}
}
