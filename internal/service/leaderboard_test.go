package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hunty-api/internal/domain/entity"
)

func progressEntry(playerID uint, score int, completedAt int64) entity.PlayerProgress {
	return entity.PlayerProgress{
		PlayerID:    playerID,
		TotalScore:  score,
		CompletedAt: completedAt,
		IsCompleted: completedAt != 0,
	}
}

func TestBuildLeaderboard_OrdersByScoreThenCompletionTime(t *testing.T) {
	snapshot := []entity.PlayerProgress{
		progressEntry(1, 100, 2000),
		progressEntry(2, 150, 3000),
		progressEntry(3, 100, 1000),
		progressEntry(4, 50, 500),
	}

	board := BuildLeaderboard(snapshot, 10)
	require.Len(t, board, 4)

	// Очки по убыванию; при равных очках раньше завершивший выше
	assert.Equal(t, uint(2), board[0].PlayerID)
	assert.Equal(t, uint(3), board[1].PlayerID)
	assert.Equal(t, uint(1), board[2].PlayerID)
	assert.Equal(t, uint(4), board[3].PlayerID)

	// Ранги 1-базные в порядке выбора
	for i, e := range board {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestBuildLeaderboard_UnsetCompletionTimeSortsWorst(t *testing.T) {
	snapshot := []entity.PlayerProgress{
		progressEntry(1, 100, 0), // не завершил
		progressEntry(2, 100, 5000),
	}

	board := BuildLeaderboard(snapshot, 10)
	require.Len(t, board, 2)

	// Незавершивший с тем же счётом сортируется как худший, а не лучший
	assert.Equal(t, uint(2), board[0].PlayerID)
	assert.Equal(t, uint(1), board[1].PlayerID)
	assert.False(t, board[1].IsCompleted)
}

func TestBuildLeaderboard_CapsAtMaxSize(t *testing.T) {
	snapshot := make([]entity.PlayerProgress, 0, 30)
	for i := 1; i <= 30; i++ {
		snapshot = append(snapshot, progressEntry(uint(i), i, int64(i)))
	}

	board := BuildLeaderboard(snapshot, 100)
	require.Len(t, board, MaxLeaderboardSize)

	// Лучший по очкам первый
	assert.Equal(t, uint(30), board[0].PlayerID)
	assert.Equal(t, 30, board[0].Score)
}

func TestBuildLeaderboard_FewerEntriesThanLimit(t *testing.T) {
	snapshot := []entity.PlayerProgress{
		progressEntry(1, 10, 100),
	}

	board := BuildLeaderboard(snapshot, 5)
	require.Len(t, board, 1)
	assert.Equal(t, 1, board[0].Rank)
}

func TestBuildLeaderboard_EmptySnapshot(t *testing.T) {
	assert.Empty(t, BuildLeaderboard(nil, 10))
	assert.Empty(t, BuildLeaderboard([]entity.PlayerProgress{}, 10))
}

func TestBuildLeaderboard_Deterministic(t *testing.T) {
	// Полное совпадение очков и времени: порядок тотален и воспроизводим
	snapshot := []entity.PlayerProgress{
		progressEntry(1, 100, 1000),
		progressEntry(2, 100, 1000),
		progressEntry(3, 100, 1000),
	}

	first := BuildLeaderboard(snapshot, 10)
	for i := 0; i < 10; i++ {
		again := BuildLeaderboard(snapshot, 10)
		assert.Equal(t, first, again)
	}
}
