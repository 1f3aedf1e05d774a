package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// MockNftRepository реализует repository.NftRepository
type MockNftRepository struct {
	mock.Mock
}

func (m *MockNftRepository) Create(tx *gorm.DB, nft *entity.NftRecord) error {
	args := m.Called(tx, nft)
	return args.Error(0)
}

func (m *MockNftRepository) GetByID(id uint) (*entity.NftRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.NftRecord), args.Error(1)
}

func (m *MockNftRepository) UpdateOwner(nft *entity.NftRecord, newOwnerID uint) error {
	args := m.Called(nft, newOwnerID)
	return args.Error(0)
}

func (m *MockNftRepository) UpdateMetadata(nft *entity.NftRecord) error {
	args := m.Called(nft)
	return args.Error(0)
}

func (m *MockNftRepository) ListByOwner(ownerID uint) ([]entity.NftRecord, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.NftRecord), args.Error(1)
}

func (m *MockNftRepository) TotalSupply() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func testNft() *entity.NftRecord {
	return &entity.NftRecord{
		ID: 42, HuntID: 1, OwnerID: 7, CompletionPlayerID: 7,
		Metadata: entity.NftMetadata{"title": "City Hunt Completion", "hunt_title": "City Hunt"},
	}
}

func TestTransfer_OnlyOwnerMayTransfer(t *testing.T) {
	nftRepo := new(MockNftRepository)
	nftRepo.On("GetByID", uint(42)).Return(testNft(), nil)

	svc := NewNftService(nftRepo, nil, noopEmitter{})

	err := svc.Transfer(42, 99, 8)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	nftRepo.AssertNotCalled(t, "UpdateOwner", mock.Anything, mock.Anything)
}

func TestTransfer_SelfTransferRejected(t *testing.T) {
	nftRepo := new(MockNftRepository)
	nftRepo.On("GetByID", uint(42)).Return(testNft(), nil)

	svc := NewNftService(nftRepo, nil, noopEmitter{})

	err := svc.Transfer(42, 7, 7)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyDone)
}

func TestTransfer_Success(t *testing.T) {
	nftRepo := new(MockNftRepository)
	nftRepo.On("GetByID", uint(42)).Return(testNft(), nil)
	nftRepo.On("UpdateOwner", mock.AnythingOfType("*entity.NftRecord"), uint(8)).Return(nil)

	svc := NewNftService(nftRepo, nil, noopEmitter{})

	require.NoError(t, svc.Transfer(42, 7, 8))
	nftRepo.AssertExpectations(t)
}

func TestUpdateMetadata_OnlyOwner(t *testing.T) {
	nftRepo := new(MockNftRepository)
	nftRepo.On("GetByID", uint(42)).Return(testNft(), nil)

	svc := NewNftService(nftRepo, nil, noopEmitter{})

	err := svc.UpdateMetadata(42, 99, "new description", "ipfs://img")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateMetadata_MutatesOnlyDisplayFields(t *testing.T) {
	nft := testNft()

	nftRepo := new(MockNftRepository)
	nftRepo.On("GetByID", uint(42)).Return(nft, nil)
	nftRepo.On("UpdateMetadata", nft).Return(nil)

	svc := NewNftService(nftRepo, nil, noopEmitter{})

	require.NoError(t, svc.UpdateMetadata(42, 7, "new description", "ipfs://img"))
	assert.Equal(t, "new description", nft.Metadata["description"])
	assert.Equal(t, "ipfs://img", nft.Metadata["image_uri"])
	// Поля происхождения не тронуты
	assert.Equal(t, "City Hunt Completion", nft.Metadata["title"])
	assert.Equal(t, uint(7), nft.CompletionPlayerID)
}
