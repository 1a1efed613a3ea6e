package tui

import (
	"strings"
	"testing"

	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestRenderGrid(t *testing.T) {
	assert.Equal(t, "(empty board)\n", RenderGrid(termenv.Ascii, nil))

	out := RenderGrid(termenv.Ascii, []domain.Coordinate{domain.Pt(0, 0), domain.Pt(2, 1)})
	want := "x 0..2, y 0..1\n" +
		"██· · \n" +
		"· · ██\n"
	assert.Equal(t, want, out)
}

func TestRenderGrid_NegativeCoordinates(t *testing.T) {
	out := RenderGrid(termenv.Ascii, []domain.Coordinate{domain.Pt(-1, -1), domain.Pt(0, 0)})
	assert.True(t, strings.HasPrefix(out, "x -1..0, y -1..0\n"))
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestRenderGrid_FallsBackToList(t *testing.T) {
	cells := []domain.Coordinate{domain.Pt(0, 0), domain.Pt(MaxGridSpan, 0)}
	assert.Equal(t, "(0,0) (40,0)\n", RenderGrid(termenv.Ascii, cells))
}

func TestRenderGrid_ColorProfile(t *testing.T) {
	out := RenderGrid(termenv.TrueColor, []domain.Coordinate{domain.Pt(0, 0)})
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, paintedCell)
}

func TestBanner(t *testing.T) {
	out := Banner(termenv.Ascii, "v1.2.3\n")
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "v1.2.3")
	assert.Equal(t, len(bannerLines)+3, strings.Count(out, "\n"))
}

func TestRenderer_Plain(t *testing.T) {
	render := NewRenderer(false)
	out, err := render("# Commands\n\n- `undo` reverts the last action\n")
	assert.NoError(t, err)
	assert.Contains(t, out, "Commands")
	assert.Contains(t, out, "reverts the last action")
}
