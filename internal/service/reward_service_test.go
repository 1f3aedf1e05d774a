package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// MockRewardRepository реализует repository.RewardRepository
type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) GetPoolBalance(huntID uint) (int64, error) {
	args := m.Called(huntID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRewardRepository) CreditPool(huntID uint, amount int64) error {
	args := m.Called(huntID, amount)
	return args.Error(0)
}

func (m *MockRewardRepository) DebitPool(tx *gorm.DB, huntID uint, amount int64) error {
	args := m.Called(tx, huntID, amount)
	return args.Error(0)
}

func (m *MockRewardRepository) GetDistribution(huntID, playerID uint) (*entity.DistributionRecord, error) {
	args := m.Called(huntID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DistributionRecord), args.Error(1)
}

func (m *MockRewardRepository) CreateDistribution(tx *gorm.DB, record *entity.DistributionRecord) error {
	args := m.Called(tx, record)
	return args.Error(0)
}

// MockLedger реализует token.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Transfer(ctx context.Context, from, to string, amount int64) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *MockLedger) Balance(ctx context.Context, account string) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

func newTestRewardService(rewardRepo *MockRewardRepository, huntRepo *MockHuntRepository, ledger *MockLedger) *RewardService {
	return NewRewardService(rewardRepo, huntRepo, nil, ledger, nil, noopEmitter{}, "GTREASURY", "GISSUER")
}

func fundableHuntRepo() *MockHuntRepository {
	huntRepo := new(MockHuntRepository)
	huntRepo.On("GetByID", uint(1)).Return(&entity.Hunt{ID: 1, CreatorID: 5, Status: entity.HuntStatusDraft}, nil)
	return huntRepo
}

// ============================================================================
// Пополнение пула
// ============================================================================

func TestFundPool_Validation(t *testing.T) {
	svc := newTestRewardService(new(MockRewardRepository), new(MockHuntRepository), new(MockLedger))

	err := svc.FundPool(context.Background(), 1, "GFUNDER", 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.FundPool(context.Background(), 1, "GFUNDER", -100)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.FundPool(context.Background(), 1, "", 500)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFundPool_UnknownHuntBlocksTransfer(t *testing.T) {
	huntRepo := new(MockHuntRepository)
	huntRepo.On("GetByID", uint(404)).Return(nil, apperrors.ErrNotFound)

	ledger := new(MockLedger)

	svc := newTestRewardService(new(MockRewardRepository), huntRepo, ledger)

	err := svc.FundPool(context.Background(), 404, "GFUNDER", 500)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Средства не двигались: несуществующий хант отсекается до перевода
	ledger.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFundPool_TransferFailureLeavesPoolUntouched(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("Transfer", mock.Anything, "GFUNDER", "GTREASURY", int64(500)).Return(errors.New("insufficient funds"))

	rewardRepo := new(MockRewardRepository)

	svc := newTestRewardService(rewardRepo, fundableHuntRepo(), ledger)

	err := svc.FundPool(context.Background(), 1, "GFUNDER", 500)
	assert.ErrorIs(t, err, apperrors.ErrDistributionFailed)
	rewardRepo.AssertNotCalled(t, "CreditPool", mock.Anything, mock.Anything)
}

func TestFundPool_CreditsAfterTransfer(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("Transfer", mock.Anything, "GFUNDER", "GTREASURY", int64(500)).Return(nil)

	rewardRepo := new(MockRewardRepository)
	rewardRepo.On("CreditPool", uint(1), int64(500)).Return(nil)

	svc := newTestRewardService(rewardRepo, fundableHuntRepo(), ledger)

	require.NoError(t, svc.FundPool(context.Background(), 1, "GFUNDER", 500))
	ledger.AssertExpectations(t)
	rewardRepo.AssertExpectations(t)
}

// ============================================================================
// Раздача наград: предусловия
// ============================================================================

func TestDistribute_RejectsEmptyConfig(t *testing.T) {
	svc := newTestRewardService(new(MockRewardRepository), new(MockHuntRepository), new(MockLedger))

	_, err := svc.Distribute(context.Background(), 1, 7, "GPLAYER", entity.DistributionConfig{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDistribute_SecondDistributionRejected(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	rewardRepo.On("GetDistribution", uint(1), uint(7)).Return(&entity.DistributionRecord{HuntID: 1, PlayerID: 7, Amount: 3000}, nil)

	svc := newTestRewardService(rewardRepo, new(MockHuntRepository), new(MockLedger))

	_, err := svc.Distribute(context.Background(), 1, 7, "GPLAYER", entity.DistributionConfig{Amount: 3000})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyDone)
}

func TestDistribute_InsufficientPool(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	rewardRepo.On("GetDistribution", uint(1), uint(7)).Return(nil, apperrors.ErrNotFound)
	rewardRepo.On("GetPoolBalance", uint(1)).Return(int64(2999), nil)

	ledger := new(MockLedger)

	svc := newTestRewardService(rewardRepo, new(MockHuntRepository), ledger)

	_, err := svc.Distribute(context.Background(), 1, 7, "GPLAYER", entity.DistributionConfig{Amount: 3000})
	assert.ErrorIs(t, err, apperrors.ErrResourceExhausted)

	// До перевода дело не дошло
	ledger.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDistribute_TokenPayoutRequiresAccount(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	rewardRepo.On("GetDistribution", uint(1), uint(7)).Return(nil, apperrors.ErrNotFound)
	rewardRepo.On("GetPoolBalance", uint(1)).Return(int64(9000), nil)

	svc := newTestRewardService(rewardRepo, new(MockHuntRepository), new(MockLedger))

	_, err := svc.Distribute(context.Background(), 1, 7, "", entity.DistributionConfig{Amount: 3000})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDistribute_NftRequiresResolvableIssuer(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	rewardRepo.On("GetDistribution", uint(1), uint(7)).Return(nil, apperrors.ErrNotFound)

	// Сервис без эмитента по умолчанию, конфигурация тоже его не задаёт
	svc := NewRewardService(rewardRepo, new(MockHuntRepository), nil, new(MockLedger), nil, noopEmitter{}, "GTREASURY", "")

	_, err := svc.Distribute(context.Background(), 1, 7, "GPLAYER", entity.DistributionConfig{NftEnabled: true})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDistribute_NftIssuerFallsBackToDefault(t *testing.T) {
	cfg := entity.DistributionConfig{NftEnabled: true}
	svc := newTestRewardService(new(MockRewardRepository), new(MockHuntRepository), new(MockLedger))

	assert.Equal(t, "GISSUER", svc.resolveIssuer(&cfg))

	cfg.NftIssuer = "GCUSTOM"
	assert.Equal(t, "GCUSTOM", svc.resolveIssuer(&cfg))
}

func TestDistribute_TransferFailureWritesNothing(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	rewardRepo.On("GetDistribution", uint(1), uint(7)).Return(nil, apperrors.ErrNotFound)
	rewardRepo.On("GetPoolBalance", uint(1)).Return(int64(9000), nil)

	ledger := new(MockLedger)
	ledger.On("Transfer", mock.Anything, "GTREASURY", "GPLAYER", int64(3000)).Return(errors.New("ledger unavailable"))

	svc := newTestRewardService(rewardRepo, new(MockHuntRepository), ledger)

	_, err := svc.Distribute(context.Background(), 1, 7, "GPLAYER", entity.DistributionConfig{Amount: 3000})
	assert.ErrorIs(t, err, apperrors.ErrDistributionFailed)

	// База не тронута: ни списания пула, ни записи о раздаче
	rewardRepo.AssertNotCalled(t, "DebitPool", mock.Anything, mock.Anything, mock.Anything)
	rewardRepo.AssertNotCalled(t, "CreateDistribution", mock.Anything, mock.Anything)
}

// ============================================================================
// Раздача наград: успешные пути и атомарность транзакции
// ============================================================================

func TestDistribute_SuccessfulTokenPayout(t *testing.T) {
	db, dbMock := newMockDB(t)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	rewardRepo := new(MockRewardRepository)
	rewardRepo.On("GetDistribution", uint(1), uint(7)).Return(nil, apperrors.ErrNotFound)
	rewardRepo.On("GetPoolBalance", uint(1)).Return(int64(9000), nil)
	rewardRepo.On("DebitPool", mock.Anything, uint(1), int64(3000)).Return(nil)
	rewardRepo.On("CreateDistribution", mock.Anything, mock.AnythingOfType("*entity.DistributionRecord")).Return(nil)

	ledger := new(MockLedger)
	ledger.On("Transfer", mock.Anything, "GTREASURY", "GPLAYER", int64(3000)).Return(nil)

	svc := NewRewardService(rewardRepo, new(MockHuntRepository), nil, ledger, db, noopEmitter{}, "GTREASURY", "GISSUER")

	// Пул 9000, три победителя: каждый получает ровно 3000
	record, err := svc.Distribute(context.Background(), 1, 7, "GPLAYER", entity.DistributionConfig{Amount: 3000})
	require.NoError(t, err)
	assert.Equal(t, int64(3000), record.Amount)
	assert.Nil(t, record.NftID)

	rewardRepo.AssertExpectations(t)
	ledger.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestDistribute_SuccessfulNftMint(t *testing.T) {
	db, dbMock := newMockDB(t)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	rewardRepo := new(MockRewardRepository)
	rewardRepo.On("GetDistribution", uint(1), uint(7)).Return(nil, apperrors.ErrNotFound)
	rewardRepo.On("CreateDistribution", mock.Anything, mock.AnythingOfType("*entity.DistributionRecord")).Return(nil)

	nftRepo := new(MockNftRepository)
	nftRepo.On("Create", mock.Anything, mock.MatchedBy(func(nft *entity.NftRecord) bool {
		return nft.HuntID == 1 && nft.OwnerID == 7 && nft.CompletionPlayerID == 7
	})).Return(nil)
	nftService := NewNftService(nftRepo, db, noopEmitter{})

	ledger := new(MockLedger)

	svc := NewRewardService(rewardRepo, new(MockHuntRepository), nftService, ledger, db, noopEmitter{}, "GTREASURY", "GISSUER")

	record, err := svc.Distribute(context.Background(), 1, 7, "", entity.DistributionConfig{NftEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), record.Amount)
	assert.NotNil(t, record.NftID)

	// Токены не двигались: награда чисто NFT
	ledger.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	nftRepo.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestDistribute_NftMintFailureRollsBackRecord(t *testing.T) {
	db, dbMock := newMockDB(t)
	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	rewardRepo := new(MockRewardRepository)
	rewardRepo.On("GetDistribution", uint(1), uint(7)).Return(nil, apperrors.ErrNotFound)

	nftRepo := new(MockNftRepository)
	nftRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.NftRecord")).Return(errors.New("insert failed"))
	nftService := NewNftService(nftRepo, db, noopEmitter{})

	svc := NewRewardService(rewardRepo, new(MockHuntRepository), nftService, new(MockLedger), db, noopEmitter{}, "GTREASURY", "GISSUER")

	_, err := svc.Distribute(context.Background(), 1, 7, "", entity.DistributionConfig{NftEnabled: true})
	assert.ErrorIs(t, err, apperrors.ErrDistributionFailed)

	// Отказ выпуска откатывает транзакцию: запись о раздаче не фиксируется
	rewardRepo.AssertNotCalled(t, "CreateDistribution", mock.Anything, mock.Anything)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
