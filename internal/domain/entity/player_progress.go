package entity

import (
	"time"

	"github.com/lib/pq"
)

// PlayerProgress представляет прогресс игрока в конкретном ханте.
// Ровно одна запись на пару (hunt_id, player_id); создаётся при регистрации
// и никогда не удаляется.
type PlayerProgress struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	HuntID   uint `gorm:"not null;uniqueIndex:idx_hunt_player" json:"hunt_id"`
	PlayerID uint `gorm:"not null;uniqueIndex:idx_hunt_player;index" json:"player_id"`

	// CompletedClues хранит ID решённых подсказок в порядке решения
	CompletedClues pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'" json:"completed_clues"`
	TotalScore     int           `gorm:"not null;default:0" json:"total_score"`

	// CompletedAt — unix-время завершения всех обязательных подсказок; 0 = не завершено
	IsCompleted   bool  `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt   int64 `gorm:"not null;default:0" json:"completed_at"`
	RewardClaimed bool  `gorm:"not null;default:false" json:"reward_claimed"`

	CreatedAt time.Time `json:"registered_at"`
	UpdatedAt time.Time `json:"-"`
}

// TableName определяет имя таблицы для GORM
func (PlayerProgress) TableName() string {
	return "player_progress"
}

// HasCompletedClue проверяет, решена ли подсказка этим игроком
func (p *PlayerProgress) HasCompletedClue(clueID uint) bool {
	for _, id := range p.CompletedClues {
		if uint(id) == clueID {
			return true
		}
	}
	return false
}

// CompleteClue добавляет подсказку в список решённых и начисляет очки.
// Порядок вставки сохраняется (порядок решения).
func (p *PlayerProgress) CompleteClue(clueID uint, points int) {
	p.CompletedClues = append(p.CompletedClues, int64(clueID))
	p.TotalScore += points
}
