package service

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	"github.com/yourusername/hunty-api/internal/domain/repository"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// NftService предоставляет методы реестра NFT: выпуск, передача, метаданные.
// Реестр не зависит от хантов, кроме полей происхождения (hunt_id, completion_player).
type NftService struct {
	nftRepo repository.NftRepository
	db      *gorm.DB
	emitter EventEmitter
}

// NewNftService создает новый сервис реестра NFT
func NewNftService(nftRepo repository.NftRepository, db *gorm.DB, emitter EventEmitter) *NftService {
	return &NftService{
		nftRepo: nftRepo,
		db:      db,
		emitter: emitter,
	}
}

// MintTx выпускает NFT внутри переданной транзакции. Используется координатором
// раздачи, чтобы выпуск и запись о раздаче либо фиксировались вместе,
// либо откатывались вместе.
// Изначальный владелец одновременно фиксируется как завершивший игрок -
// это поле происхождения сохраняется при любых последующих передачах.
func (s *NftService) MintTx(tx *gorm.DB, huntID, ownerID uint, metadata entity.NftMetadata) (*entity.NftRecord, error) {
	if metadata == nil {
		metadata = entity.NftMetadata{}
	}

	nft := &entity.NftRecord{
		HuntID:             huntID,
		OwnerID:            ownerID,
		CompletionPlayerID: ownerID,
		Metadata:           metadata,
		MintedAt:           time.Now().Unix(),
	}

	if err := s.nftRepo.Create(tx, nft); err != nil {
		return nil, fmt.Errorf("failed to mint nft: %w", err)
	}

	return nft, nil
}

// Mint выпускает NFT в собственной транзакции
func (s *NftService) Mint(huntID, ownerID uint, metadata entity.NftMetadata) (*entity.NftRecord, error) {
	var nft *entity.NftRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		nft, txErr = s.MintTx(tx, huntID, ownerID, metadata)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(entity.EventNftMinted, huntID, ownerID, nft)
	return nft, nil
}

// GetNft возвращает NFT по глобальному ID
func (s *NftService) GetNft(nftID uint) (*entity.NftRecord, error) {
	return s.nftRepo.GetByID(nftID)
}

// OwnerOf возвращает текущего владельца NFT
func (s *NftService) OwnerOf(nftID uint) (uint, error) {
	nft, err := s.nftRepo.GetByID(nftID)
	if err != nil {
		return 0, err
	}
	return nft.OwnerID, nil
}

// GetPlayerNfts возвращает все NFT владельца
func (s *NftService) GetPlayerNfts(ownerID uint) ([]entity.NftRecord, error) {
	return s.nftRepo.ListByOwner(ownerID)
}

// TotalSupply возвращает общее число выпущенных NFT
func (s *NftService) TotalSupply() (int64, error) {
	return s.nftRepo.TotalSupply()
}

// Transfer передает NFT новому владельцу. Вызывающий должен быть текущим
// владельцем; передача самому себе отклоняется. Запись владельца и индекс
// владения меняются одним логическим шагом.
func (s *NftService) Transfer(nftID, fromID, toID uint) error {
	nft, err := s.nftRepo.GetByID(nftID)
	if err != nil {
		return err
	}

	if nft.OwnerID != fromID {
		return apperrors.ErrForbidden
	}
	if fromID == toID {
		return apperrors.ErrAlreadyDone
	}

	if err := s.nftRepo.UpdateOwner(nft, toID); err != nil {
		return fmt.Errorf("failed to transfer nft: %w", err)
	}

	log.Printf("[NftService] NFT #%d передан от пользователя #%d пользователю #%d", nftID, fromID, toID)
	s.emitter.Emit(entity.EventNftTransferred, nft.HuntID, fromID, map[string]interface{}{
		"nft_id": nftID,
		"from":   fromID,
		"to":     toID,
	})
	return nil
}

// UpdateMetadata обновляет изменяемые отображаемые поля метаданных (description,
// image_uri). Только владелец; идентичность и происхождение неизменны.
func (s *NftService) UpdateMetadata(nftID, callerID uint, description, imageURI string) error {
	nft, err := s.nftRepo.GetByID(nftID)
	if err != nil {
		return err
	}

	if nft.OwnerID != callerID {
		return apperrors.ErrForbidden
	}

	if nft.Metadata == nil {
		nft.Metadata = entity.NftMetadata{}
	}
	nft.Metadata["description"] = description
	nft.Metadata["image_uri"] = imageURI

	if err := s.nftRepo.UpdateMetadata(nft); err != nil {
		return fmt.Errorf("failed to update nft metadata: %w", err)
	}

	s.emitter.Emit(entity.EventNftMetadataUpdated, nft.HuntID, callerID, map[string]interface{}{
		"nft_id": nftID,
	})
	return nil
}
