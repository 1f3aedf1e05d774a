package repository

import (
	"github.com/yourusername/hunty-api/internal/domain/entity"
	"gorm.io/gorm"
)

// ProgressRepository определяет методы для работы с прогрессом игроков
type ProgressRepository interface {
	Create(progress *entity.PlayerProgress) error
	Get(huntID, playerID uint) (*entity.PlayerProgress, error)
	Save(progress *entity.PlayerProgress) error
	// MarkClaimed помечает награду полученной внутри переданной транзакции
	MarkClaimed(tx *gorm.DB, huntID, playerID uint) error
	// ListByHunt возвращает прогресс всех игроков ханта (снимок для лидерборда и статистики)
	ListByHunt(huntID uint) ([]entity.PlayerProgress, error)
	CountByHunt(huntID uint) (int64, error)
}
