package repository

import (
	"github.com/yourusername/hunty-api/internal/domain/entity"
	"gorm.io/gorm"
)

// HuntRepository определяет методы для работы с хантами
type HuntRepository interface {
	Create(hunt *entity.Hunt) error
	GetByID(id uint) (*entity.Hunt, error)
	Update(hunt *entity.Hunt) error
	// UpdateStatus точечно обновляет статус (и activated_at при активации) без full Save
	UpdateStatus(huntID uint, status string, activatedAt int64) error
	// IncrementClaimedCount атомарно увеличивает reward_claimed_count на 1
	// внутри переданной транзакции. Возвращает ErrResourceExhausted, если
	// счетчик уже достиг reward_max_winners: лимит победителей не может быть
	// превышен даже конкурентными получениями
	IncrementClaimedCount(tx *gorm.DB, huntID uint) error
	List(limit, offset int) ([]entity.Hunt, int64, error)
	ListByCreator(creatorID uint, limit, offset int) ([]entity.Hunt, error)
}
