package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handoff-sh/handoff/internal/domain"
)

func TestDecisionRepoListRecent(t *testing.T) {
	t.Parallel()

	repo := NewDecisionRepo()
	ctx := context.Background()

	var ids []uuid.UUID
	for range 5 {
		d := &domain.RoutingDecision{ID: uuid.New(), Outcome: domain.OutcomeAssigned}
		ids = append(ids, d.ID)
		require.NoError(t, repo.Record(ctx, d))
	}

	t.Run("newest first", func(t *testing.T) {
		recent, err := repo.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, ids[4], recent[0].ID)
		assert.Equal(t, ids[3], recent[1].ID)
	})

	t.Run("zero limit returns everything", func(t *testing.T) {
		recent, err := repo.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, recent, 5)
	})

	t.Run("count", func(t *testing.T) {
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 5, n)
	})
}

func TestWaitQueue(t *testing.T) {
	t.Parallel()

	q := NewWaitQueue()
	ctx := context.Background()

	first := domain.QueuedEscalation{EscalationID: uuid.New()}
	second := domain.QueuedEscalation{EscalationID: uuid.New()}

	pos, err := q.Enqueue(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = q.Enqueue(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snapshot, err := q.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.Equal(t, first.EscalationID, snapshot[0].EscalationID)

	head, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, first.EscalationID, head.EscalationID)

	_, err = q.Dequeue(ctx)
	require.NoError(t, err)

	empty, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)
}
