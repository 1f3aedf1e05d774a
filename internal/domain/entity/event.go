package entity

import (
	"time"
)

// Типы публикуемых фактов. Потребляются внешними системами (аналитика, нотификации),
// внутренняя логика на них не опирается.
const (
	EventHuntCreated        = "hunt.created"
	EventHuntActivated      = "hunt.activated"
	EventHuntDeactivated    = "hunt.deactivated"
	EventHuntCancelled      = "hunt.cancelled"
	EventClueAdded          = "clue.added"
	EventClueCompleted      = "clue.completed"
	EventAnswerIncorrect    = "clue.answer_incorrect"
	EventPlayerRegistered   = "player.registered"
	EventHuntCompleted      = "hunt.completed"
	EventRewardDistributed  = "reward.distributed"
	EventPoolFunded         = "pool.funded"
	EventNftMinted          = "nft.minted"
	EventNftTransferred     = "nft.transferred"
	EventNftMetadataUpdated = "nft.metadata_updated"
)

// Event — запись о факте, произошедшем в системе. Публикуется также в Redis-канал.
type Event struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"` // uuid
	Type    string `gorm:"size:50;not null;index" json:"type"`
	HuntID  uint   `gorm:"index" json:"hunt_id,omitempty"`
	ActorID uint   `json:"actor_id,omitempty"`
	Payload string `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Event) TableName() string {
	return "events"
}
