package postgres

import (
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// RewardRepo реализует repository.RewardRepository
type RewardRepo struct {
	db *gorm.DB
}

// NewRewardRepo создает новый репозиторий призовых пулов и раздач
func NewRewardRepo(db *gorm.DB) *RewardRepo {
	return &RewardRepo{db: db}
}

// GetPoolBalance возвращает баланс пула ханта. Отсутствие записи пула
// означает, что пул ещё не финансировался — это валидный баланс 0.
func (r *RewardRepo) GetPoolBalance(huntID uint) (int64, error) {
	var pool entity.RewardPool
	err := r.db.First(&pool, "hunt_id = ?", huntID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return pool.Balance, nil
}

// CreditPool увеличивает баланс пула на amount. Запись пула создается лениво
// при первом финансировании (upsert), пулы разных хантов изолированы по ключу.
func (r *RewardRepo) CreditPool(huntID uint, amount int64) error {
	pool := entity.RewardPool{HuntID: huntID, Balance: amount}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hunt_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance": gorm.Expr("reward_pools.balance + ?", amount),
		}),
	}).Create(&pool).Error
}

// DebitPool уменьшает баланс пула внутри переданной транзакции.
// Условие balance >= amount в самом UPDATE гарантирует, что баланс
// никогда не уходит в минус; ноль затронутых строк = недостаточно средств.
func (r *RewardRepo) DebitPool(tx *gorm.DB, huntID uint, amount int64) error {
	result := tx.Model(&entity.RewardPool{}).
		Where("hunt_id = ? AND balance >= ?", huntID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		log.Printf("[RewardRepo] Отказ в дебете пула ханта #%d: недостаточно средств (запрошено %d)", huntID, amount)
		return apperrors.ErrResourceExhausted
	}
	return nil
}

// GetDistribution возвращает запись о раздаче для пары (hunt, player)
func (r *RewardRepo) GetDistribution(huntID, playerID uint) (*entity.DistributionRecord, error) {
	var record entity.DistributionRecord
	err := r.db.Where("hunt_id = ? AND player_id = ?", huntID, playerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// CreateDistribution сохраняет запись о раздаче внутри переданной транзакции.
// Запись неизменяема; уникальный индекс (hunt_id, player_id) защищает
// от двойной раздачи и на уровне базы.
func (r *RewardRepo) CreateDistribution(tx *gorm.DB, record *entity.DistributionRecord) error {
	err := tx.Create(record).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrAlreadyDone
	}
	return err
}
