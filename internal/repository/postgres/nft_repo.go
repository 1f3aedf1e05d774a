package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// NftRepo реализует repository.NftRepository
type NftRepo struct {
	db *gorm.DB
}

// NewNftRepo создает новый репозиторий NFT
func NewNftRepo(db *gorm.DB) *NftRepo {
	return &NftRepo{db: db}
}

// Create сохраняет новый NFT внутри переданной транзакции.
// Глобальный последовательный ID присваивает последовательность базы,
// значения никогда не переиспользуются.
func (r *NftRepo) Create(tx *gorm.DB, nft *entity.NftRecord) error {
	return tx.Create(nft).Error
}

// GetByID возвращает NFT по глобальному ID
func (r *NftRepo) GetByID(id uint) (*entity.NftRecord, error) {
	var nft entity.NftRecord
	err := r.db.First(&nft, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &nft, nil
}

// UpdateOwner меняет владельца записи. Индекс по owner_id следует за колонкой,
// поэтому удаление у отправителя и добавление у получателя — один логический шаг.
func (r *NftRepo) UpdateOwner(nft *entity.NftRecord, newOwnerID uint) error {
	return r.db.Model(nft).UpdateColumn("owner_id", newOwnerID).Error
}

// UpdateMetadata сохраняет изменённые отображаемые метаданные
func (r *NftRepo) UpdateMetadata(nft *entity.NftRecord) error {
	return r.db.Model(nft).UpdateColumn("metadata", nft.Metadata).Error
}

// ListByOwner возвращает все NFT владельца в порядке выпуска
func (r *NftRepo) ListByOwner(ownerID uint) ([]entity.NftRecord, error) {
	var nfts []entity.NftRecord
	err := r.db.Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&nfts).Error
	return nfts, err
}

// TotalSupply возвращает общее число выпущенных NFT
func (r *NftRepo) TotalSupply() (int64, error) {
	var count int64
	err := r.db.Model(&entity.NftRecord{}).Count(&count).Error
	return count, err
}
