package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func week(number int, days ...Day) Week {
	return Week{WeekNumber: number, Days: days}
}

func day(number int, orders ...int) Day {
	blocks := make([]ContentBlock, len(orders))
	for i, o := range orders {
		blocks[i] = ContentBlock{Type: BlockTypeText, Order: o}
	}
	return Day{DayNumber: number, Name: "Day", Blocks: blocks}
}

func TestValidateTree(t *testing.T) {
	t.Run("empty tree is valid", func(t *testing.T) {
		assert.NoError(t, ValidateTree(nil))
		assert.NoError(t, ValidateTree([]Week{}))
	})

	t.Run("well-formed multi-week tree", func(t *testing.T) {
		tree := []Week{
			week(1, day(1, 1, 2, 3), day(2, 1)),
			week(2, day(1, 1)),
			week(3),
		}
		assert.NoError(t, ValidateTree(tree))
	})

	t.Run("week numbers must start at 1", func(t *testing.T) {
		err := ValidateTree([]Week{week(2)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want 1")
	})

	t.Run("week numbers must be consecutive", func(t *testing.T) {
		err := ValidateTree([]Week{week(1), week(3)})
		require.Error(t, err)
	})

	t.Run("duplicate day number within a week", func(t *testing.T) {
		err := ValidateTree([]Week{week(1, day(1), day(1))})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate day number 1")
	})

	t.Run("same day number in different weeks is fine", func(t *testing.T) {
		assert.NoError(t, ValidateTree([]Week{week(1, day(1)), week(2, day(1))}))
	})

	t.Run("duplicate block order within a day", func(t *testing.T) {
		err := ValidateTree([]Week{week(1, day(1, 1, 1))})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate block order 1")
	})

	t.Run("same block order in different days is fine", func(t *testing.T) {
		assert.NoError(t, ValidateTree([]Week{week(1, day(1, 1, 2), day(2, 1, 2))}))
	})
}

func TestDeletable(t *testing.T) {
	cases := []struct {
		state ProgramState
		want  bool
	}{
		{ProgramStateDraft, true},
		{ProgramStateSaved, true},
		{ProgramStateAssigned, false},
		{ProgramStateInShop, false},
	}
	for _, tc := range cases {
		p := Program{State: tc.state}
		assert.Equal(t, tc.want, p.Deletable(), "state %s", tc.state)
	}
}

func TestCheckLifecycleFields(t *testing.T) {
	clientID := primitive.NewObjectID()
	now := time.Now()
	price := 29.99

	t.Run("draft with no companion fields", func(t *testing.T) {
		p := Program{State: ProgramStateDraft}
		assert.NoError(t, p.CheckLifecycleFields())
	})

	t.Run("assigned with both assignment fields", func(t *testing.T) {
		p := Program{State: ProgramStateAssigned, ClientID: &clientID, AssignedAt: &now}
		assert.NoError(t, p.CheckLifecycleFields())
	})

	t.Run("assigned missing assignedAt", func(t *testing.T) {
		p := Program{State: ProgramStateAssigned, ClientID: &clientID}
		assert.Error(t, p.CheckLifecycleFields())
	})

	t.Run("saved carrying stale client reference", func(t *testing.T) {
		p := Program{State: ProgramStateSaved, ClientID: &clientID, AssignedAt: &now}
		assert.Error(t, p.CheckLifecycleFields())
	})

	t.Run("in_shop with both shop fields", func(t *testing.T) {
		p := Program{State: ProgramStateInShop, ShopPrice: &price, ShopListedAt: &now}
		assert.NoError(t, p.CheckLifecycleFields())
	})

	t.Run("in_shop missing price", func(t *testing.T) {
		p := Program{State: ProgramStateInShop, ShopListedAt: &now}
		assert.Error(t, p.CheckLifecycleFields())
	})
}

func TestAssignmentExpiry(t *testing.T) {
	assignedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	duration := 28 * 24 * time.Hour
	a := ProgramAssignment{AssignedAt: assignedAt}

	assert.Equal(t, assignedAt.Add(duration), a.ExpiresAt(duration))
	assert.False(t, a.Expired(assignedAt.Add(duration-time.Second), duration))
	assert.True(t, a.Expired(assignedAt.Add(duration), duration))
	assert.True(t, a.Expired(assignedAt.Add(duration+time.Hour), duration))
}
