package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/muesli/termenv"
)

// MaxGridSpan is the widest bounding box drawn as a grid; larger boards are listed.
const MaxGridSpan = 40

const (
	paintedCell = "██"
	emptyCell   = "· "
	paintColor  = "#f472b6"
)

// RenderGrid draws the painted cells inside their bounding box, rows top to bottom by y.
func RenderGrid(p termenv.Profile, cells []domain.Coordinate) string {
	if len(cells) == 0 {
		return "(empty board)\n"
	}

	minX, maxX, minY, maxY := bounds(cells)
	if maxX-minX+1 > MaxGridSpan || maxY-minY+1 > MaxGridSpan {
		return RenderList(cells)
	}

	painted := make(map[domain.CoordinateKey]struct{}, len(cells))
	for _, c := range cells {
		painted[c.Key()] = struct{}{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "x %d..%d, y %d..%d\n", minX, maxX, minY, maxY)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if _, ok := painted[domain.Pt(x, y).Key()]; ok {
				b.WriteString(p.String(paintedCell).Foreground(p.Color(paintColor)).String())
			} else {
				b.WriteString(emptyCell)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderList prints the cells in the order they appear.
func RenderList(cells []domain.Coordinate) string {
	if len(cells) == 0 {
		return "(empty board)\n"
	}
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ") + "\n"
}

func bounds(cells []domain.Coordinate) (minX, maxX, minY, maxY int) {
	minX, maxX = cells[0].X, cells[0].X
	minY, maxY = cells[0].Y, cells[0].Y
	for _, c := range cells[1:] {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}
	return
}
