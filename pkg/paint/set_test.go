package paint_test

import (
	"testing"

	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/paint"
	"github.com/stretchr/testify/assert"
)

func TestSet_ContainsByValue(t *testing.T) {
	s := paint.NewSet()
	s.Add(domain.Coordinate{X: 10, Y: 10})

	// A distinct value with equal components is the same cell.
	assert.True(t, s.Contains(domain.Pt(10, 10)))
	assert.False(t, s.Contains(domain.Pt(10, 11)))
}

func TestSet_AddIsIdempotent(t *testing.T) {
	s := paint.NewSet()
	s.Add(domain.Pt(1, 1))
	s.Add(domain.Pt(2, 2))
	s.Add(domain.Pt(1, 1))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []domain.Coordinate{domain.Pt(1, 1), domain.Pt(2, 2)}, s.List())
}

func TestSet_RemoveAbsentIsNoop(t *testing.T) {
	s := paint.NewSet(domain.Pt(1, 1))
	s.Remove(domain.Pt(9, 9))
	assert.Equal(t, []domain.Coordinate{domain.Pt(1, 1)}, s.List())

	s.Remove(domain.Pt(1, 1))
	assert.Empty(t, s.List())
	assert.Equal(t, 0, s.Len())
}

func TestSet_InsertionOrder(t *testing.T) {
	s := paint.NewSet()
	for _, c := range []domain.Coordinate{domain.Pt(3, 3), domain.Pt(1, 1), domain.Pt(2, 2)} {
		s.Add(c)
	}
	s.Remove(domain.Pt(1, 1))
	s.Add(domain.Pt(1, 1))

	assert.Equal(t, []domain.Coordinate{domain.Pt(3, 3), domain.Pt(2, 2), domain.Pt(1, 1)}, s.List())
}

func TestSet_CloneAndEqual(t *testing.T) {
	s := paint.NewSet(domain.Pt(1, 1), domain.Pt(2, 2))
	c := s.Clone()
	assert.True(t, s.Equal(c))

	c.Remove(domain.Pt(1, 1))
	assert.True(t, s.Contains(domain.Pt(1, 1)), "clone must not share storage")
	assert.False(t, s.Equal(c))

	reordered := paint.NewSet(domain.Pt(2, 2), domain.Pt(1, 1))
	assert.True(t, s.Equal(reordered))
}
