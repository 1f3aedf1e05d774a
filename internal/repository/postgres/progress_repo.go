package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// ProgressRepo реализует repository.ProgressRepository
type ProgressRepo struct {
	db *gorm.DB
}

// NewProgressRepo создает новый репозиторий прогресса игроков
func NewProgressRepo(db *gorm.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// Create сохраняет запись прогресса. Уникальный индекс (hunt_id, player_id)
// отклоняет повторную регистрацию на уровне базы.
func (r *ProgressRepo) Create(progress *entity.PlayerProgress) error {
	err := r.db.Create(progress).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrAlreadyDone
	}
	return err
}

// Get возвращает прогресс игрока в ханте
func (r *ProgressRepo) Get(huntID, playerID uint) (*entity.PlayerProgress, error) {
	var progress entity.PlayerProgress
	err := r.db.Where("hunt_id = ? AND player_id = ?", huntID, playerID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// Save сохраняет изменения прогресса (решённые подсказки, очки, флаг завершения)
func (r *ProgressRepo) Save(progress *entity.PlayerProgress) error {
	return r.db.Save(progress).Error
}

// MarkClaimed помечает награду полученной внутри переданной транзакции
func (r *ProgressRepo) MarkClaimed(tx *gorm.DB, huntID, playerID uint) error {
	result := tx.Model(&entity.PlayerProgress{}).
		Where("hunt_id = ? AND player_id = ?", huntID, playerID).
		UpdateColumn("reward_claimed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListByHunt возвращает прогресс всех игроков ханта
func (r *ProgressRepo) ListByHunt(huntID uint) ([]entity.PlayerProgress, error) {
	var progress []entity.PlayerProgress
	err := r.db.Where("hunt_id = ?", huntID).
		Order("id ASC").
		Find(&progress).Error
	return progress, err
}

// CountByHunt возвращает количество зарегистрированных игроков ханта
func (r *ProgressRepo) CountByHunt(huntID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.PlayerProgress{}).
		Where("hunt_id = ?", huntID).
		Count(&count).Error
	return count, err
}
