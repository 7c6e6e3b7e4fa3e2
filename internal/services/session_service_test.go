package services

import (
	"testing"

	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/stretchr/testify/assert"
)

func testDataset() *models.Dataset {
	return &models.Dataset{
		Repositories: testRows(),
		Security:     make(map[string]*models.SecurityScorecard),
	}
}

func TestSessionDefaultsAreIsolated(t *testing.T) {
	session := NewSession(testDataset(), NewFilterService(), NewChatService())

	params := session.Params()
	params.Universities = append(params.Universities, "UC Berkeley")
	params.Threshold.Min = 0

	fresh := session.Params()
	assert.Empty(t, fresh.Universities, "mutating a returned copy must not leak into the session")
	assert.Equal(t, 0.8, fresh.Threshold.Min)
}

func TestSessionFilteredMemoization(t *testing.T) {
	chat := NewChatService()
	session := NewSession(testDataset(), NewFilterService(), chat)

	computations := 0
	compute := func(rows []*models.Repository) interface{} {
		computations++
		return len(rows)
	}

	first := session.Aggregate("count", compute)
	second := session.Aggregate("count", compute)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, computations, "unchanged inputs reuse the cached aggregation")

	t.Run("Parameter change invalidates", func(t *testing.T) {
		session.SetParams(&models.FilterParams{Types: []string{"DEV"}})
		result := session.Aggregate("count", compute)
		assert.Equal(t, 2, result)
		assert.Equal(t, 2, computations)
	})

	t.Run("Chat result change invalidates", func(t *testing.T) {
		chat.SetResult(&models.ChatResult{IDs: []int64{1}})
		result := session.Aggregate("count", compute)
		assert.Equal(t, 1, result)
		assert.Equal(t, 3, computations)
	})
}

func TestSessionFilteredView(t *testing.T) {
	chat := NewChatService()
	session := NewSession(testDataset(), NewFilterService(), chat)

	// Defaults gate on affiliation >= 0.8: rows 4 (0.7) and 5 (missing) drop.
	view := session.Filtered()
	assert.Equal(t, []int64{1, 2, 3}, ids(view))

	chat.SetResult(&models.ChatResult{IDs: []int64{2, 3, 5}})
	assert.Equal(t, []int64{2, 3}, ids(session.Filtered()))
}

func TestSessionReset(t *testing.T) {
	chat := NewChatService()
	session := NewSession(testDataset(), NewFilterService(), chat)

	session.SetParams(&models.FilterParams{Types: []string{"EDU"}})
	chat.SetResult(&models.ChatResult{IDs: []int64{2}})

	session.Reset()

	assert.Equal(t, session.Defaults(), session.Params())
	assert.Equal(t, []int64{1, 2, 3}, ids(session.Filtered()), "chat contribution is dropped as well")
	assert.Equal(t, []string{ResetInstruction}, chat.DrainInstructions())
	assert.Empty(t, chat.DrainInstructions(), "draining clears the queue")
}

func TestSessionServiceLifecycle(t *testing.T) {
	service := NewSessionService(testDataset(), NewFilterService())

	created := service.GetOrCreate("")
	assert.NotEmpty(t, created.ID)

	same := service.GetOrCreate(created.ID)
	assert.Same(t, created, same)

	other := service.GetOrCreate("unknown-id")
	assert.NotSame(t, created, other)
	assert.NotEqual(t, created.ID, other.ID)

	assert.NotNil(t, service.ChatFor(created.ID))
	assert.Nil(t, service.ChatFor("never-seen"))

	t.Run("Sessions do not share filter state", func(t *testing.T) {
		created.SetParams(&models.FilterParams{Types: []string{"EDU"}})
		assert.Empty(t, other.Params().Types)
	})
}
