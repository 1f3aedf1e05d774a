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

// RewardHandler обрабатывает запросы, связанные с призовыми пулами и раздачами
type RewardHandler struct {
	rewardService *service.RewardService
}

// NewRewardHandler создает новый обработчик наград
func NewRewardHandler(rewardService *service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// FundPoolRequest представляет запрос на пополнение призового пула
type FundPoolRequest struct {
	Account string `json:"account" binding:"required,max=255"`
	Amount  int64  `json:"amount" binding:"required,min=1"`
}

// FundPool обрабатывает запрос на пополнение призового пула ханта.
// Пополнять пул может любой пользователь, не только создатель ханта.
func (h *RewardHandler) FundPool(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)

	var req FundPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rewardService.FundPool(c.Request.Context(), huntID, req.Account, req.Amount); err != nil {
		h.handleRewardError(c, err)
		return
	}

	balance, err := h.rewardService.PoolBalance(huntID)
	if err != nil {
		h.handleRewardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hunt_id": huntID, "balance": balance})
}

// GetPoolBalance возвращает текущий баланс призового пула ханта
func (h *RewardHandler) GetPoolBalance(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)

	balance, err := h.rewardService.PoolBalance(huntID)
	if err != nil {
		h.handleRewardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hunt_id": huntID, "balance": balance})
}

// GetDistributionStatus возвращает запись о раздаче награды текущему игроку
func (h *RewardHandler) GetDistributionStatus(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	userID := c.MustGet("user_id").(uint)

	record, err := h.rewardService.DistributionStatus(huntID, userID)
	if err != nil {
		h.handleRewardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDistributionResponse(record))
}

// handleRewardError преобразует ошибку сервиса в HTTP статус
func (h *RewardHandler) handleRewardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyDone):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrResourceExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDistributionFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Reward distribution failed"})
	default:
		log.Printf("ERROR: Internal server error in RewardHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
