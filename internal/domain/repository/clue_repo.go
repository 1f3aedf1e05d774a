package repository

import (
	"github.com/yourusername/hunty-api/internal/domain/entity"
	"gorm.io/gorm"
)

// ClueRepository определяет методы для работы с подсказками
type ClueRepository interface {
	// CreateWithSequence присваивает подсказке следующий последовательный clue_id
	// в рамках ханта и сохраняет её внутри переданной транзакции.
	// Нумерация начинается с 1 и никогда не переиспользуется.
	CreateWithSequence(tx *gorm.DB, clue *entity.Clue) error
	GetByHuntAndClueID(huntID, clueID uint) (*entity.Clue, error)
	ListByHunt(huntID uint) ([]entity.Clue, error)
	CountByHunt(huntID uint) (int64, error)
}
