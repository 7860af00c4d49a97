package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox_IoU(t *testing.T) {
	a := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}

	t.Run("identical boxes", func(t *testing.T) {
		assert.InDelta(t, 1.0, a.IoU(a), 1e-9)
	})

	t.Run("disjoint boxes", func(t *testing.T) {
		b := Box{X1: 20, Y1: 20, X2: 30, Y2: 30}
		assert.Equal(t, 0.0, a.IoU(b))
	})

	t.Run("half overlap", func(t *testing.T) {
		// intersection 50, union 150
		b := Box{X1: 5, Y1: 0, X2: 15, Y2: 10}
		assert.InDelta(t, 50.0/150.0, a.IoU(b), 1e-9)
	})

	t.Run("touching edges is zero", func(t *testing.T) {
		b := Box{X1: 10, Y1: 0, X2: 20, Y2: 10}
		assert.Equal(t, 0.0, a.IoU(b))
	})

	t.Run("degenerate box has zero area", func(t *testing.T) {
		b := Box{X1: 5, Y1: 5, X2: 5, Y2: 5}
		assert.Equal(t, 0.0, b.Area())
		assert.Equal(t, 0.0, a.IoU(b))
	})
}

func TestFilterByScore(t *testing.T) {
	dets := []Detection{
		{Score: 0.9, ClassID: 0},
		{Score: 0.74, ClassID: 0},
		{Score: 0.75, ClassID: 16},
	}

	kept := FilterByScore(dets, 0.75)
	assert.Len(t, kept, 2)
	assert.Equal(t, 0.9, kept[0].Score)
	assert.Equal(t, 0.75, kept[1].Score)

	assert.Empty(t, FilterByScore(dets, 0.99))
}

func TestNonMaxSuppression(t *testing.T) {
	base := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}
	nearDuplicate := Box{X1: 1, Y1: 0, X2: 11, Y2: 10}
	elsewhere := Box{X1: 100, Y1: 100, X2: 110, Y2: 110}

	t.Run("suppresses overlapping same class", func(t *testing.T) {
		dets := []Detection{
			{Box: nearDuplicate, Score: 0.8, ClassID: 0},
			{Box: base, Score: 0.95, ClassID: 0},
			{Box: elsewhere, Score: 0.7, ClassID: 0},
		}
		kept := NonMaxSuppression(dets, 0.5)
		assert.Len(t, kept, 2)
		assert.Equal(t, 0.95, kept[0].Score)
		assert.Equal(t, 0.7, kept[1].Score)
	})

	t.Run("keeps overlapping different classes", func(t *testing.T) {
		dets := []Detection{
			{Box: base, Score: 0.95, ClassID: 0},
			{Box: nearDuplicate, Score: 0.8, ClassID: 16},
		}
		kept := NonMaxSuppression(dets, 0.5)
		assert.Len(t, kept, 2)
	})

	t.Run("single detection passes through", func(t *testing.T) {
		dets := []Detection{{Box: base, Score: 0.5, ClassID: 0}}
		assert.Equal(t, dets, NonMaxSuppression(dets, 0.5))
	})

	t.Run("result sorted by descending score", func(t *testing.T) {
		dets := []Detection{
			{Box: elsewhere, Score: 0.6, ClassID: 0},
			{Box: base, Score: 0.9, ClassID: 0},
		}
		kept := NonMaxSuppression(dets, 0.5)
		assert.Equal(t, 0.9, kept[0].Score)
		assert.Equal(t, 0.6, kept[1].Score)
	})
}

func TestContainsClass(t *testing.T) {
	dets := []Detection{
		{ClassID: 0},  // person
		{ClassID: 16}, // dog
	}
	assert.True(t, ContainsClass(dets, "person"))
	assert.True(t, ContainsClass(dets, "dog"))
	assert.False(t, ContainsClass(dets, "cat"))
	assert.False(t, ContainsClass(nil, "person"))
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "person", ClassName(0))
	assert.Equal(t, "toothbrush", ClassName(79))
	assert.Equal(t, "unknown", ClassName(-1))
	assert.Equal(t, "unknown", ClassName(80))

	assert.True(t, KnownClass("person"))
	assert.False(t, KnownClass("unicorn"))
}
