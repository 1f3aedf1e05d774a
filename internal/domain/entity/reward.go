package entity

import (
	"time"
)

// RewardPool хранит баланс призового пула конкретного ханта.
// Пулы разных хантов полностью изолированы. Инвариант: Balance >= 0.
type RewardPool struct {
	HuntID    uint      `gorm:"primaryKey" json:"hunt_id"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (RewardPool) TableName() string {
	return "reward_pools"
}

// DistributionRecord — неизменяемая запись об успешной раздаче награды.
// Её наличие является авторитетным признаком "уже выдано" для пары (hunt, player).
type DistributionRecord struct {
	ID       uint  `gorm:"primaryKey" json:"-"`
	HuntID   uint  `gorm:"not null;uniqueIndex:idx_hunt_player_dist" json:"hunt_id"`
	PlayerID uint  `gorm:"not null;uniqueIndex:idx_hunt_player_dist" json:"player_id"`
	Amount   int64 `gorm:"not null;default:0" json:"amount"`
	NftID    *uint `gorm:"index" json:"nft_id,omitempty"`

	CreatedAt time.Time `json:"distributed_at"`
}

// TableName определяет имя таблицы для GORM
func (DistributionRecord) TableName() string {
	return "distribution_records"
}

// DistributionConfig описывает запрашиваемую раздачу: сумма токенов и/или NFT.
// Для валидной раздачи должен быть задан хотя бы один тип награды.
type DistributionConfig struct {
	Amount      int64       `json:"amount"`
	NftEnabled  bool        `json:"nft_enabled"`
	NftIssuer   string      `json:"nft_issuer,omitempty"`
	NftMetadata NftMetadata `json:"nft_metadata,omitempty"`
}

// HasAmount возвращает true, если запрошена выплата токенов
func (c *DistributionConfig) HasAmount() bool {
	return c.Amount > 0
}

// HasNft возвращает true, если запрошен выпуск NFT
func (c *DistributionConfig) HasNft() bool {
	return c.NftEnabled
}

// IsValid проверяет, что сконфигурирован хотя бы один тип награды
func (c *DistributionConfig) IsValid() bool {
	return c.HasAmount() || c.HasNft()
}
