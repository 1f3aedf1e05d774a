package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/hunty-api/internal/handler/dto"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
	"github.com/yourusername/hunty-api/internal/service"
)

// NftHandler обрабатывает запросы, связанные с реестром NFT
type NftHandler struct {
	nftService *service.NftService
}

// NewNftHandler создает новый обработчик NFT
func NewNftHandler(nftService *service.NftService) *NftHandler {
	return &NftHandler{nftService: nftService}
}

// GetNft возвращает NFT по ID
func (h *NftHandler) GetNft(c *gin.Context) {
	nftID := c.MustGet("nftID").(uint)

	nft, err := h.nftService.GetNft(nftID)
	if err != nil {
		h.handleNftError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewNftResponse(nft))
}

// GetNftMetadata возвращает только метаданные NFT
func (h *NftHandler) GetNftMetadata(c *gin.Context) {
	nftID := c.MustGet("nftID").(uint)

	nft, err := h.nftService.GetNft(nftID)
	if err != nil {
		h.handleNftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"nft_id": nft.ID, "metadata": nft.Metadata})
}

// GetNftOwner возвращает текущего владельца NFT
func (h *NftHandler) GetNftOwner(c *gin.Context) {
	nftID := c.MustGet("nftID").(uint)

	ownerID, err := h.nftService.OwnerOf(nftID)
	if err != nil {
		h.handleNftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"nft_id": nftID, "owner_id": ownerID})
}

// GetMyNfts возвращает все NFT текущего пользователя
func (h *NftHandler) GetMyNfts(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	nfts, err := h.nftService.GetPlayerNfts(userID)
	if err != nil {
		h.handleNftError(c, err)
		return
	}

	items := make([]*dto.NftResponse, 0, len(nfts))
	for i := range nfts {
		items = append(items, dto.NewNftResponse(&nfts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"nfts": items})
}

// GetTotalSupply возвращает общее число выпущенных NFT
func (h *NftHandler) GetTotalSupply(c *gin.Context) {
	total, err := h.nftService.TotalSupply()
	if err != nil {
		h.handleNftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_supply": total})
}

// TransferNftRequest представляет запрос на передачу NFT
type TransferNftRequest struct {
	ToUserID uint `json:"to_user_id" binding:"required,min=1"`
}

// TransferNft обрабатывает запрос на передачу NFT новому владельцу
func (h *NftHandler) TransferNft(c *gin.Context) {
	nftID := c.MustGet("nftID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req TransferNftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.nftService.Transfer(nftID, userID, req.ToUserID); err != nil {
		h.handleNftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "NFT transferred successfully"})
}

// UpdateNftMetadataRequest представляет запрос на обновление отображаемых метаданных
type UpdateNftMetadataRequest struct {
	Description string `json:"description" binding:"omitempty,max=2000"`
	ImageURI    string `json:"image_uri" binding:"omitempty,max=500"`
}

// UpdateNftMetadata обрабатывает запрос на обновление отображаемых полей метаданных NFT
func (h *NftHandler) UpdateNftMetadata(c *gin.Context) {
	nftID := c.MustGet("nftID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req UpdateNftMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.nftService.UpdateMetadata(nftID, userID, req.Description, req.ImageURI); err != nil {
		h.handleNftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "NFT metadata updated successfully"})
}

// handleNftError преобразует ошибку сервиса в HTTP статус
func (h *NftHandler) handleNftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyDone):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: Internal server error in NftHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
