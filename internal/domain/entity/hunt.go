package entity

import (
	"time"
)

// Константы статусов ханта
const (
	HuntStatusDraft     = "draft"
	HuntStatusActive    = "active"
	HuntStatusCompleted = "completed"
	HuntStatusCancelled = "cancelled"
)

// Лимиты жизненного цикла ханта
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxCluesPerHunt      = 100
)

// RewardConfig описывает конфигурацию наград ханта. Встраивается в Hunt.
// Инвариант: ClaimedCount <= MaxWinners.
type RewardConfig struct {
	PoolTotal    int64  `gorm:"not null;default:0" json:"pool_total"`
	NftEnabled   bool   `gorm:"not null;default:false" json:"nft_enabled"`
	NftIssuer    string `gorm:"size:255;not null;default:''" json:"nft_issuer,omitempty"`
	MaxWinners   int    `gorm:"not null;default:0" json:"max_winners"`
	ClaimedCount int    `gorm:"not null;default:0" json:"claimed_count"`
}

// RewardPerWinner возвращает размер награды на победителя (целочисленное деление).
func (rc *RewardConfig) RewardPerWinner() int64 {
	if rc.MaxWinners <= 0 {
		return 0
	}
	return rc.PoolTotal / int64(rc.MaxWinners)
}

// HasRewardSlots возвращает true, если остались свободные слоты победителей
func (rc *RewardConfig) HasRewardSlots() bool {
	return rc.ClaimedCount < rc.MaxWinners
}

// Hunt представляет квест-охоту (scavenger hunt)
type Hunt struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CreatorID   uint   `gorm:"not null;index" json:"creator_id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"size:2000;not null;default:''" json:"description"`
	Status      string `gorm:"size:20;not null;default:'draft';index" json:"status"`

	// ActivatedAt и EndTime хранятся как unix-время; 0 означает "не задано"
	ActivatedAt int64 `gorm:"not null;default:0" json:"activated_at"`
	EndTime     int64 `gorm:"not null;default:0" json:"end_time"`

	// TotalClues монотонно растёт вместе с добавлением подсказок и никогда не уменьшается
	TotalClues int `gorm:"not null;default:0" json:"total_clues"`

	RewardConfig RewardConfig `gorm:"embedded;embeddedPrefix:reward_" json:"reward_config"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Hunt) TableName() string {
	return "hunts"
}

// IsDraft проверяет, находится ли хант в статусе черновика
func (h *Hunt) IsDraft() bool {
	return h.Status == HuntStatusDraft
}

// IsCancelled проверяет, отменён ли хант
func (h *Hunt) IsCancelled() bool {
	return h.Status == HuntStatusCancelled
}

// IsTerminal возвращает true для терминальных статусов (Completed, Cancelled)
func (h *Hunt) IsTerminal() bool {
	return h.Status == HuntStatusCompleted || h.Status == HuntStatusCancelled
}

// IsLive проверяет, идёт ли хант прямо сейчас: статус Active и,
// если задан EndTime, текущее время ещё не вышло за него.
func (h *Hunt) IsLive(now int64) bool {
	if h.Status != HuntStatusActive {
		return false
	}
	return h.EndTime == 0 || now < h.EndTime
}
