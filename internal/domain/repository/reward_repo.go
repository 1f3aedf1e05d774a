package repository

import (
	"github.com/yourusername/hunty-api/internal/domain/entity"
	"gorm.io/gorm"
)

// RewardRepository определяет методы для работы с призовыми пулами
// и записями о раздачах наград
type RewardRepository interface {
	// GetPoolBalance возвращает баланс пула ханта (0, если пул ещё не создан)
	GetPoolBalance(huntID uint) (int64, error)
	// CreditPool увеличивает баланс пула на amount (upsert записи пула)
	CreditPool(huntID uint, amount int64) error
	// DebitPool уменьшает баланс пула на amount внутри переданной транзакции.
	// Возвращает ErrResourceExhausted, если средств недостаточно — баланс
	// никогда не уходит в минус.
	DebitPool(tx *gorm.DB, huntID uint, amount int64) error

	// GetDistribution возвращает запись о раздаче для пары (hunt, player)
	// или ErrNotFound, если раздачи не было
	GetDistribution(huntID, playerID uint) (*entity.DistributionRecord, error)
	// CreateDistribution сохраняет неизменяемую запись о раздаче
	// внутри переданной транзакции
	CreateDistribution(tx *gorm.DB, record *entity.DistributionRecord) error
}
