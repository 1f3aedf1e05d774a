package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	"github.com/yourusername/hunty-api/internal/domain/repository"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
	"github.com/yourusername/hunty-api/internal/token"
)

// RewardService координирует раздачу наград: выплаты из призового пула
// и выпуск NFT. Пулы хантов изолированы друг от друга: раздача списывает
// средства только из пула своего ханта.
type RewardService struct {
	rewardRepo repository.RewardRepository
	huntRepo   repository.HuntRepository
	nftService *NftService
	ledger     token.Ledger
	db         *gorm.DB
	emitter    EventEmitter

	// treasuryAccount - счёт, на котором токен-сервис держит средства всех пулов
	treasuryAccount string
	// defaultNftIssuer используется, когда конфигурация раздачи не задаёт эмитента
	defaultNftIssuer string
}

// NewRewardService создает новый сервис раздачи наград
func NewRewardService(
	rewardRepo repository.RewardRepository,
	huntRepo repository.HuntRepository,
	nftService *NftService,
	ledger token.Ledger,
	db *gorm.DB,
	emitter EventEmitter,
	treasuryAccount string,
	defaultNftIssuer string,
) *RewardService {
	return &RewardService{
		rewardRepo:       rewardRepo,
		huntRepo:         huntRepo,
		nftService:       nftService,
		ledger:           ledger,
		db:               db,
		emitter:          emitter,
		treasuryAccount:  treasuryAccount,
		defaultNftIssuer: defaultNftIssuer,
	}
}

// FundPool пополняет призовой пул ханта: переводит amount со счёта funder
// на казначейский счёт и увеличивает баланс пула.
// Баланс пула увеличивается только после успешного перевода.
func (s *RewardService) FundPool(ctx context.Context, huntID uint, funderAccount string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if funderAccount == "" {
		return fmt.Errorf("%w: funder account is required", apperrors.ErrValidation)
	}

	// Существование ханта проверяется до внешнего перевода: отказ CreditPool
	// после ухода средств на казначейский счёт означал бы ручную сверку
	// из-за тривиально обнаружимого неверного входа
	if _, err := s.huntRepo.GetByID(huntID); err != nil {
		return err
	}

	if err := s.ledger.Transfer(ctx, funderAccount, s.treasuryAccount, amount); err != nil {
		log.Printf("[RewardService] Ошибка перевода %d в пул ханта #%d: %v", amount, huntID, err)
		return fmt.Errorf("%w: token transfer failed", apperrors.ErrDistributionFailed)
	}

	if err := s.rewardRepo.CreditPool(huntID, amount); err != nil {
		// Перевод уже прошёл, а пул не пополнен - требуется ручная сверка
		log.Printf("[RewardService] КРИТИЧНО: перевод %d для ханта #%d выполнен, но пул не пополнен: %v", amount, huntID, err)
		return err
	}

	s.emitter.Emit(entity.EventPoolFunded, huntID, 0, map[string]interface{}{
		"amount": amount,
		"funder": funderAccount,
	})
	return nil
}

// PoolBalance возвращает текущий баланс призового пула ханта
func (s *RewardService) PoolBalance(huntID uint) (int64, error) {
	return s.rewardRepo.GetPoolBalance(huntID)
}

// DistributionStatus возвращает запись о раздаче для пары (хант, игрок)
// или ErrNotFound, если награда ещё не выдавалась
func (s *RewardService) DistributionStatus(huntID, playerID uint) (*entity.DistributionRecord, error) {
	return s.rewardRepo.GetDistribution(huntID, playerID)
}

// resolveIssuer возвращает счёт эмитента NFT из конфигурации раздачи
// или счёт по умолчанию
func (s *RewardService) resolveIssuer(cfg *entity.DistributionConfig) string {
	if cfg.NftIssuer != "" {
		return cfg.NftIssuer
	}
	return s.defaultNftIssuer
}

// Distribute выполняет раздачу награды игроку по указанной конфигурации.
// Порядок проверок фиксирован: невалидная конфигурация, затем повторная раздача,
// затем недостаточный пул, затем неразрешимый эмитент NFT.
//
// Раздача атомарна: при отказе токен-перевода ничего не записывается;
// списание пула, выпуск NFT и запись о раздаче фиксируются одной транзакцией.
// В любом исходе невозможно состояние "награда ушла, а записи нет" внутри базы.
func (s *RewardService) Distribute(ctx context.Context, huntID, playerID uint, playerAccount string, cfg entity.DistributionConfig) (*entity.DistributionRecord, error) {
	if !cfg.IsValid() {
		return nil, fmt.Errorf("%w: distribution config must include a token amount or an nft", apperrors.ErrValidation)
	}

	if _, err := s.rewardRepo.GetDistribution(huntID, playerID); err == nil {
		return nil, apperrors.ErrAlreadyDone
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if cfg.HasAmount() {
		balance, err := s.rewardRepo.GetPoolBalance(huntID)
		if err != nil {
			return nil, err
		}
		if balance < cfg.Amount {
			return nil, fmt.Errorf("%w: pool balance %d is below distribution amount %d", apperrors.ErrResourceExhausted, balance, cfg.Amount)
		}
		if playerAccount == "" {
			return nil, fmt.Errorf("%w: player account is required for token payout", apperrors.ErrValidation)
		}
	}

	if cfg.HasNft() && s.resolveIssuer(&cfg) == "" {
		return nil, fmt.Errorf("%w: nft issuer is not configured", apperrors.ErrValidation)
	}

	// Внешний перевод выполняется до транзакции: его отказ оставляет базу нетронутой
	if cfg.HasAmount() {
		if err := s.ledger.Transfer(ctx, s.treasuryAccount, playerAccount, cfg.Amount); err != nil {
			log.Printf("[RewardService] Ошибка выплаты %d игроку #%d (хант #%d): %v", cfg.Amount, playerID, huntID, err)
			return nil, fmt.Errorf("%w: token transfer failed", apperrors.ErrDistributionFailed)
		}
	}

	record := &entity.DistributionRecord{
		HuntID:   huntID,
		PlayerID: playerID,
		Amount:   cfg.Amount,
	}

	var mintedNft *entity.NftRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if cfg.HasAmount() {
			if err := s.rewardRepo.DebitPool(tx, huntID, cfg.Amount); err != nil {
				return err
			}
		}

		if cfg.HasNft() {
			nft, err := s.nftService.MintTx(tx, huntID, playerID, cfg.NftMetadata)
			if err != nil {
				return err
			}
			mintedNft = nft
			record.NftID = &nft.ID
		}

		return s.rewardRepo.CreateDistribution(tx, record)
	})
	if err != nil {
		if cfg.HasAmount() {
			// Выплата уже ушла игроку, а фиксация не состоялась - требуется ручная сверка
			log.Printf("[RewardService] КРИТИЧНО: выплата %d игроку #%d (хант #%d) выполнена, но раздача не зафиксирована: %v", cfg.Amount, playerID, huntID, err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDistributionFailed, err)
	}

	log.Printf("[RewardService] Награда выдана: хант #%d, игрок #%d, сумма %d, nft %v", huntID, playerID, cfg.Amount, record.NftID != nil)
	s.emitter.Emit(entity.EventRewardDistributed, huntID, playerID, record)
	if mintedNft != nil {
		s.emitter.Emit(entity.EventNftMinted, huntID, playerID, mintedNft)
	}

	return record, nil
}
