package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// ClueRepo реализует repository.ClueRepository
type ClueRepo struct {
	db *gorm.DB
}

// NewClueRepo создает новый репозиторий подсказок
func NewClueRepo(db *gorm.DB) *ClueRepo {
	return &ClueRepo{db: db}
}

// CreateWithSequence присваивает следующий clue_id в рамках ханта и сохраняет подсказку.
// Выполняется внутри переданной транзакции вместе с инкрементом total_clues ханта,
// поэтому счетчик и запись подсказки согласованы при любом исходе.
func (r *ClueRepo) CreateWithSequence(tx *gorm.DB, clue *entity.Clue) error {
	var nextID int64
	err := tx.Model(&entity.Clue{}).
		Where("hunt_id = ?", clue.HuntID).
		Select("COALESCE(MAX(clue_id), 0) + 1").
		Scan(&nextID).Error
	if err != nil {
		return err
	}
	clue.ClueID = uint(nextID)
	return tx.Create(clue).Error
}

// GetByHuntAndClueID возвращает подсказку по паре (hunt_id, clue_id)
func (r *ClueRepo) GetByHuntAndClueID(huntID, clueID uint) (*entity.Clue, error) {
	var clue entity.Clue
	err := r.db.Where("hunt_id = ? AND clue_id = ?", huntID, clueID).
		First(&clue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &clue, nil
}

// ListByHunt возвращает все подсказки ханта в порядке clue_id
func (r *ClueRepo) ListByHunt(huntID uint) ([]entity.Clue, error) {
	var clues []entity.Clue
	err := r.db.Where("hunt_id = ?", huntID).
		Order("clue_id ASC").
		Find(&clues).Error
	return clues, err
}

// CountByHunt возвращает количество подсказок ханта
func (r *ClueRepo) CountByHunt(huntID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Clue{}).
		Where("hunt_id = ?", huntID).
		Count(&count).Error
	return count, err
}
