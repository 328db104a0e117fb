package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToDark(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err)
	require.Equal(t, 80, r.Width())
}

func TestRender_PlainText(t *testing.T) {
	r, err := New(80, "dark")
	require.NoError(t, err)

	out, err := r.Render("hello world")
	require.NoError(t, err)
	require.Contains(t, out, "hello world")
}

func TestRender_Heading(t *testing.T) {
	r, err := New(80, "dark")
	require.NoError(t, err)

	out, err := r.Render("# Deploy status")
	require.NoError(t, err)
	require.Contains(t, out, "Deploy status")
}

func TestRender_WrapsLongLines(t *testing.T) {
	r, err := New(20, "dark")
	require.NoError(t, err)

	out, err := r.Render("one two three four five six seven eight nine ten")
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "\n"), "long content should wrap")
}

func TestNew_LightStyle(t *testing.T) {
	_, err := New(40, "light")
	require.NoError(t, err)
}
