package repository

import (
	"github.com/yourusername/hunty-api/internal/domain/entity"
	"gorm.io/gorm"
)

// NftRepository определяет методы для работы с реестром NFT
type NftRepository interface {
	// Create сохраняет новый NFT; глобальный последовательный ID присваивает база
	Create(tx *gorm.DB, nft *entity.NftRecord) error
	GetByID(id uint) (*entity.NftRecord, error)
	// UpdateOwner меняет владельца записи (обе стороны индекса владения следуют за колонкой)
	UpdateOwner(nft *entity.NftRecord, newOwnerID uint) error
	UpdateMetadata(nft *entity.NftRecord) error
	// ListByOwner возвращает все NFT владельца (индекс владения)
	ListByOwner(ownerID uint) ([]entity.NftRecord, error)
	// TotalSupply возвращает общее число выпущенных NFT
	TotalSupply() (int64, error)
}
