package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// HuntRepo реализует repository.HuntRepository
type HuntRepo struct {
	db *gorm.DB
}

// NewHuntRepo создает новый репозиторий хантов
func NewHuntRepo(db *gorm.DB) *HuntRepo {
	return &HuntRepo{db: db}
}

// Create сохраняет новый хант; ID присваивает база (последовательность)
func (r *HuntRepo) Create(hunt *entity.Hunt) error {
	return r.db.Create(hunt).Error
}

// GetByID возвращает хант по ID
func (r *HuntRepo) GetByID(id uint) (*entity.Hunt, error) {
	var hunt entity.Hunt
	err := r.db.First(&hunt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &hunt, nil
}

// Update сохраняет изменения ханта целиком
func (r *HuntRepo) Update(hunt *entity.Hunt) error {
	return r.db.Save(hunt).Error
}

// UpdateStatus точечно обновляет статус без перетирания остальных полей.
// activatedAt записывается только при ненулевом значении (активация).
func (r *HuntRepo) UpdateStatus(huntID uint, status string, activatedAt int64) error {
	updates := map[string]interface{}{"status": status}
	if activatedAt != 0 {
		updates["activated_at"] = activatedAt
	}
	result := r.db.Model(&entity.Hunt{}).Where("id = ?", huntID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IncrementClaimedCount атомарно увеличивает счетчик полученных наград.
// Условие в WHERE держит инвариант claimed_count <= max_winners на уровне базы:
// конкурентные получатели последнего слота не могут превысить лимит,
// даже пройдя проверку слотов по устаревшему снимку ханта
func (r *HuntRepo) IncrementClaimedCount(tx *gorm.DB, huntID uint) error {
	result := tx.Model(&entity.Hunt{}).
		Where("id = ? AND reward_claimed_count < reward_max_winners", huntID).
		UpdateColumn("reward_claimed_count", gorm.Expr("reward_claimed_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrResourceExhausted
	}
	return nil
}

// List возвращает ханты с пагинацией и общим количеством
func (r *HuntRepo) List(limit, offset int) ([]entity.Hunt, int64, error) {
	var hunts []entity.Hunt
	var total int64

	if err := r.db.Model(&entity.Hunt{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&hunts).Error
	if err != nil {
		return nil, 0, err
	}

	return hunts, total, nil
}

// ListByCreator возвращает ханты конкретного создателя
func (r *HuntRepo) ListByCreator(creatorID uint, limit, offset int) ([]entity.Hunt, error) {
	var hunts []entity.Hunt
	err := r.db.Where("creator_id = ?", creatorID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&hunts).Error
	return hunts, err
}
