package service

import (
	"math"

	"github.com/yourusername/hunty-api/internal/domain/entity"
)

// MaxLeaderboardSize - максимальный размер возвращаемого лидерборда
const MaxLeaderboardSize = 20

// LeaderboardEntry - строка лидерборда с 1-базным рангом
type LeaderboardEntry struct {
	Rank        int   `json:"rank"`
	PlayerID    uint  `json:"player_id"`
	Score       int   `json:"score"`
	CompletedAt int64 `json:"completed_at"`
	IsCompleted bool  `json:"is_completed"`
}

// BuildLeaderboard - чистая функция над снимком прогресса игроков ханта.
// Возвращает топ-K по убыванию очков; при равенстве очков раньше идёт игрок
// с меньшим временем завершения, а незавершившие (completed_at == 0)
// сортируются как наихудшие.
//
// Выбор детерминирован: на каждом шаге выбирается лучшая из оставшихся записей,
// пока не набрано K или записи не закончились. Порядок тотален даже при
// полном совпадении очков и состояний.
func BuildLeaderboard(snapshot []entity.PlayerProgress, limit int) []LeaderboardEntry {
	if limit > MaxLeaderboardSize {
		limit = MaxLeaderboardSize
	}
	if limit < 0 {
		limit = 0
	}

	selected := make([]bool, len(snapshot))
	result := make([]LeaderboardEntry, 0, limit)

	for rank := 1; rank <= limit; rank++ {
		best := bestRemainingIndex(snapshot, selected)
		if best < 0 {
			break
		}
		selected[best] = true
		p := snapshot[best]
		result = append(result, LeaderboardEntry{
			Rank:        rank,
			PlayerID:    p.PlayerID,
			Score:       p.TotalScore,
			CompletedAt: p.CompletedAt,
			IsCompleted: p.IsCompleted,
		})
	}

	return result
}

// bestRemainingIndex возвращает индекс лучшей невыбранной записи или -1.
// Порядок: очки по убыванию, затем completed_at по возрастанию (0 = последним).
func bestRemainingIndex(snapshot []entity.PlayerProgress, selected []bool) int {
	best := -1
	for i := range snapshot {
		if selected[i] {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		if snapshot[i].TotalScore > snapshot[best].TotalScore {
			best = i
			continue
		}
		if snapshot[i].TotalScore == snapshot[best].TotalScore {
			if completionOrder(snapshot[i].CompletedAt) < completionOrder(snapshot[best].CompletedAt) {
				best = i
			}
		}
	}
	return best
}

// completionOrder переводит время завершения в ключ сортировки:
// незавершившие (0) трактуются как +бесконечность
func completionOrder(completedAt int64) int64 {
	if completedAt == 0 {
		return math.MaxInt64
	}
	return completedAt
}
