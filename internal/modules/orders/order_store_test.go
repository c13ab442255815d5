package orders_test

import (
	"errors"
	"testing"

	"reader-booking/internal/models"
	"reader-booking/internal/modules/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageOf(ids ...int64) models.Page[models.Order] {
	content := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		content = append(content, models.Order{ID: id, ClientID: 11, City: "Reykjavik"})
	}
	return models.NewPage(content, len(ids), models.LimitSmall)
}

func TestReplacePageClearsError(t *testing.T) {
	s := orders.NewStore()
	s.SetError(errors.New("boom"))
	require.Error(t, s.LastError())

	q := models.Query{Page: 1, Limit: 10}
	s.ReplacePage(pageOf(1, 2, 3), q)

	assert.NoError(t, s.LastError())
	assert.Len(t, s.Items(), 3)
	assert.Equal(t, 3, s.ItemsCount())
	assert.Equal(t, q, s.LastQuery())
}

func TestReplacePageDedupesIDs(t *testing.T) {
	s := orders.NewStore()
	page := pageOf(1, 2)
	page.Content = append(page.Content, models.Order{ID: 1, City: "Akureyri"})
	s.ReplacePage(page, models.Query{Page: 1, Limit: 10})

	items := s.Items()
	require.Len(t, items, 2)
	// First occurrence wins.
	assert.Equal(t, "Reykjavik", items[0].City)
}

func TestQueryFailureKeepsLastGoodPage(t *testing.T) {
	s := orders.NewStore()
	s.ReplacePage(pageOf(1, 2), models.Query{Page: 1, Limit: 10})

	s.SetError(errors.New("network down"))

	assert.Len(t, s.Items(), 2)
	assert.Error(t, s.LastError())
}

func TestPatchOne(t *testing.T) {
	s := orders.NewStore()
	s.ReplacePage(pageOf(1, 2), models.Query{Page: 1, Limit: 10})

	readerID := int64(3)
	accepted := true
	patched := s.PatchOne(2, models.OrderPatch{ReaderID: &readerID, IsAccepted: &accepted})
	require.True(t, patched)

	o, ok := s.Get(2)
	require.True(t, ok)
	require.NotNil(t, o.ReaderID)
	assert.EqualValues(t, 3, *o.ReaderID)
	assert.True(t, o.IsAccepted)
	// Identity and unrelated fields stay put.
	assert.EqualValues(t, 2, o.ID)
	assert.EqualValues(t, 11, o.ClientID)
	assert.Equal(t, "Reykjavik", o.City)

	// The sibling order is untouched.
	other, ok := s.Get(1)
	require.True(t, ok)
	assert.Nil(t, other.ReaderID)
}

func TestPatchOneMissingIsNoop(t *testing.T) {
	s := orders.NewStore()
	s.ReplacePage(pageOf(1), models.Query{Page: 1, Limit: 10})

	accepted := true
	assert.NotPanics(t, func() {
		assert.False(t, s.PatchOne(404, models.OrderPatch{IsAccepted: &accepted}))
	})
	assert.Len(t, s.Items(), 1)
}

func TestBeginMutationGuards(t *testing.T) {
	s := orders.NewStore()
	s.ReplacePage(pageOf(7), models.Query{Page: 1, Limit: 10})

	require.NoError(t, s.BeginMutation(7))
	assert.True(t, s.InFlight(7))

	// Second mutation on the same order while in flight.
	assert.ErrorIs(t, s.BeginMutation(7), models.ErrConcurrentMutation)

	// Orders not on the current page cannot be mutated.
	assert.ErrorIs(t, s.BeginMutation(404), models.ErrConcurrentMutation)

	s.EndMutation(7)
	assert.False(t, s.InFlight(7))
	assert.NoError(t, s.BeginMutation(7))
}
