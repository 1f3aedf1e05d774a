package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// NftMetadata - гибкий мешок метаданных NFT для работы с JSONB.
// Ключи не фиксированы схемой: обычно title, description, image_uri,
// hunt_title, rarity, tier, но эмитент может класть и свои.
type NftMetadata map[string]interface{}

// Scan реализует интерфейс sql.Scanner для NftMetadata
// Используется GORM для чтения JSONB данных из базы
func (m *NftMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = NftMetadata{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*m = NftMetadata{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Value реализует интерфейс driver.Valuer для NftMetadata
// Используется GORM для записи NftMetadata в JSONB в базе
func (m NftMetadata) Value() (driver.Value, error) {
	if m == nil || len(m) == 0 {
		return []byte("{}"), nil // Возвращаем пустой JSON объект вместо null
	}
	return json.Marshal(m)
}

// String возвращает строковое поле метаданных (пустая строка, если ключа нет)
func (m NftMetadata) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// NftRecord представляет коллекционный NFT-токен.
// ID глобально уникален, выдается последовательно и никогда не переиспользуется.
// CompletionPlayerID фиксирует игрока, завершившего хант, и сохраняется при передачах.
type NftRecord struct {
	ID                 uint        `gorm:"primaryKey" json:"nft_id"`
	HuntID             uint        `gorm:"not null;index" json:"hunt_id"`
	OwnerID            uint        `gorm:"not null;index" json:"owner_id"`
	CompletionPlayerID uint        `gorm:"not null" json:"completion_player_id"`
	Metadata           NftMetadata `gorm:"type:jsonb;not null" json:"metadata"`
	MintedAt           int64       `gorm:"not null" json:"minted_at"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName определяет имя таблицы для GORM
func (NftRecord) TableName() string {
	return "nft_records"
}
