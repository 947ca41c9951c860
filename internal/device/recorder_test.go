package device

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(image.Pt(3, 4))

	pos, err := r.Position()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(3, 4), pos)

	require.NoError(t, r.Move(10, 20))
	require.NoError(t, r.Press())
	assert.True(t, r.Pressed())
	require.NoError(t, r.Release())
	assert.False(t, r.Pressed())

	assert.Equal(t, []Action{Move(10, 20), Press(), Release()}, r.Actions())
	assert.Equal(t, 1, r.Count(OpMove))

	pos, _ = r.Position()
	assert.Equal(t, image.Pt(10, 20), pos)

	r.Reset()
	assert.Empty(t, r.Actions())
}

func TestRecorder_Fail(t *testing.T) {
	boom := errors.New("boom")
	r := NewRecorder(image.Point{})
	r.Fail = func(a Action) error {
		if a.Op == OpPress {
			return boom
		}
		return nil
	}

	require.NoError(t, r.Move(1, 1))
	assert.ErrorIs(t, r.Press(), boom)
	assert.False(t, r.Pressed())
	assert.Equal(t, []Action{Move(1, 1)}, r.Actions())
}

func TestStream(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf, image.Pt(1, 2))

	require.NoError(t, s.Move(5, 6))
	require.NoError(t, s.Press())
	require.NoError(t, s.Release())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		`{"op":"move","x":5,"y":6}`,
		`{"op":"press"}`,
		`{"op":"release"}`,
	}, lines)

	var a Action
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &a))
	assert.Equal(t, Move(5, 6), a)

	pos, err := s.Position()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(5, 6), pos)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "move(1,-2)", Move(1, -2).String())
	assert.Equal(t, "press", Press().String())
	assert.Equal(t, "release", Release().String())
}
