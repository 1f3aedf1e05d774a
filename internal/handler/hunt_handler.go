package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/hunty-api/internal/handler/dto"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
	"github.com/yourusername/hunty-api/internal/service"
)

// HuntHandler обрабатывает запросы, связанные с хантами
type HuntHandler struct {
	huntService *service.HuntService
}

// NewHuntHandler создает новый обработчик хантов
func NewHuntHandler(huntService *service.HuntService) *HuntHandler {
	return &HuntHandler{huntService: huntService}
}

// CreateHuntRequest представляет запрос на создание ханта
type CreateHuntRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	EndTime     int64  `json:"end_time" binding:"omitempty,min=0"`
}

// CreateHunt обрабатывает запрос на создание ханта
func (h *HuntHandler) CreateHunt(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req CreateHuntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hunt, err := h.huntService.CreateHunt(userID, req.Title, req.Description, req.EndTime)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewHuntResponse(hunt))
}

// GetHunt возвращает информацию о ханте
func (h *HuntHandler) GetHunt(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint) // Получаем из контекста

	hunt, err := h.huntService.GetHunt(huntID)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHuntResponse(hunt))
}

// ListHunts возвращает пагинированный список хантов
func (h *HuntHandler) ListHunts(c *gin.Context) {
	page, pageSize := paginationParams(c)

	hunts, total, err := h.huntService.ListHunts(pageSize, (page-1)*pageSize)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListHuntsResponse(hunts, total, page, pageSize))
}

// AddClueRequest представляет запрос на добавление подсказки
type AddClueRequest struct {
	Question   string `json:"question" binding:"required,min=1,max=2000"`
	Answer     string `json:"answer" binding:"required,min=1,max=256"`
	Points     int    `json:"points" binding:"omitempty,min=0"`
	IsRequired *bool  `json:"is_required"` // По умолчанию true
}

// AddClue обрабатывает запрос на добавление подсказки к ханту
func (h *HuntHandler) AddClue(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req AddClueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isRequired := true
	if req.IsRequired != nil {
		isRequired = *req.IsRequired
	}

	clue, err := h.huntService.AddClue(huntID, userID, req.Question, req.Answer, req.Points, isRequired)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"clue_id": clue.ClueID})
}

// GetClue возвращает подсказку (без хеша ответа)
func (h *HuntHandler) GetClue(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	clueID := c.MustGet("clueID").(uint)

	clue, err := h.huntService.GetClue(huntID, clueID)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, clue)
}

// ListClues возвращает все подсказки ханта
func (h *HuntHandler) ListClues(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)

	clues, err := h.huntService.ListClues(huntID)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clues": clues})
}

// ActivateHunt обрабатывает запрос на активацию ханта
func (h *HuntHandler) ActivateHunt(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	userID := c.MustGet("user_id").(uint)

	if err := h.huntService.ActivateHunt(huntID, userID); err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Hunt activated successfully"})
}

// DeactivateHunt обрабатывает запрос на деактивацию ханта (возврат в черновик)
func (h *HuntHandler) DeactivateHunt(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	userID := c.MustGet("user_id").(uint)

	if err := h.huntService.DeactivateHunt(huntID, userID); err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Hunt deactivated successfully"})
}

// CancelHunt обрабатывает запрос на отмену ханта
func (h *HuntHandler) CancelHunt(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	userID := c.MustGet("user_id").(uint)

	if err := h.huntService.CancelHunt(huntID, userID); err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Hunt cancelled"})
}

// ConfigureRewardsRequest представляет запрос на настройку наград ханта
type ConfigureRewardsRequest struct {
	PoolTotal  int64  `json:"pool_total" binding:"omitempty,min=0"`
	MaxWinners int    `json:"max_winners" binding:"omitempty,min=0"`
	NftEnabled bool   `json:"nft_enabled"`
	NftIssuer  string `json:"nft_issuer" binding:"omitempty,max=255"`
}

// ConfigureRewards обрабатывает запрос на настройку наград ханта
func (h *HuntHandler) ConfigureRewards(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req ConfigureRewardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.huntService.ConfigureRewards(huntID, userID, req.PoolTotal, req.MaxWinners, req.NftEnabled, req.NftIssuer)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rewards configured successfully"})
}

// RegisterPlayer обрабатывает запрос игрока на участие в ханте
func (h *HuntHandler) RegisterPlayer(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	userID := c.MustGet("user_id").(uint)

	progress, err := h.huntService.RegisterPlayer(huntID, userID)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewProgressResponse(progress))
}

// SubmitAnswerRequest представляет запрос на проверку ответа
type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required,min=1,max=256"`
}

// SubmitAnswer обрабатывает ответ игрока на подсказку
func (h *HuntHandler) SubmitAnswer(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	clueID := c.MustGet("clueID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.huntService.SubmitAnswer(huntID, userID, clueID, req.Answer)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProgress возвращает прогресс текущего игрока в ханте
func (h *HuntHandler) GetProgress(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	userID := c.MustGet("user_id").(uint)

	progress, err := h.huntService.GetProgress(huntID, userID)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProgressResponse(progress))
}

// GetLeaderboard возвращает топ-K лидерборда ханта
func (h *HuntHandler) GetLeaderboard(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)

	limit := service.MaxLeaderboardSize
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	board, err := h.huntService.GetLeaderboard(huntID, limit)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": board})
}

// GetStatistics возвращает сводную статистику ханта
func (h *HuntHandler) GetStatistics(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)

	stats, err := h.huntService.GetStatistics(huntID)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ClaimRewardRequest представляет запрос на получение награды
type ClaimRewardRequest struct {
	Account string `json:"account" binding:"omitempty,max=255"`
}

// bindClaimRequest разбирает тело запроса на получение награды.
// Тело опционально: для NFT-наград счёт игрока не нужен,
// поэтому пустое тело (EOF) не считается ошибкой
func bindClaimRequest(c *gin.Context) (ClaimRewardRequest, error) {
	var req ClaimRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return ClaimRewardRequest{}, err
	}
	return req, nil
}

// ClaimReward обрабатывает запрос игрока на получение награды за завершенный хант
func (h *HuntHandler) ClaimReward(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	userID := c.MustGet("user_id").(uint)

	req, err := bindClaimRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.huntService.ClaimReward(c.Request.Context(), huntID, userID, req.Account)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDistributionResponse(record))
}

// ExportLeaderboard экспортирует лидерборд ханта в CSV или Excel формате
// GET /api/hunts/:id/leaderboard/export?format=csv|xlsx
func (h *HuntHandler) ExportLeaderboard(c *gin.Context) {
	huntID := c.MustGet("huntID").(uint)
	format := c.DefaultQuery("format", "csv")

	board, err := h.huntService.GetLeaderboard(huntID, service.MaxLeaderboardSize)
	if err != nil {
		h.handleHuntError(c, err)
		return
	}

	filename := fmt.Sprintf("hunt_%d_leaderboard_%s", huntID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, board, filename)
	default:
		h.exportCSV(c, board, filename)
	}
}

// exportCSV экспортирует лидерборд в CSV с правильным экранированием спецсимволов
func (h *HuntHandler) exportCSV(c *gin.Context, board []service.LeaderboardEntry, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Заголовки
	writer.Write([]string{"Место", "Игрок", "Очки", "Завершил", "Время завершения"})

	for _, e := range board {
		completed := "Нет"
		if e.IsCompleted {
			completed = "Да"
		}
		completedAt := ""
		if e.CompletedAt != 0 {
			completedAt = time.Unix(e.CompletedAt, 0).UTC().Format(time.RFC3339)
		}

		writer.Write([]string{
			strconv.Itoa(e.Rank),
			strconv.FormatUint(uint64(e.PlayerID), 10),
			strconv.Itoa(e.Score),
			completed,
			completedAt,
		})
	}
}

// exportXLSX экспортирует лидерборд в Excel с использованием StreamWriter
func (h *HuntHandler) exportXLSX(c *gin.Context, board []service.LeaderboardEntry, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Лидерборд"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[HuntHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"Место", "Игрок", "Очки", "Завершил", "Время завершения"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[HuntHandler] Ошибка записи заголовков: %v", err)
	}

	for i, e := range board {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		completed := "Нет"
		if e.IsCompleted {
			completed = "Да"
		}
		completedAt := ""
		if e.CompletedAt != 0 {
			completedAt = time.Unix(e.CompletedAt, 0).UTC().Format(time.RFC3339)
		}

		row := []interface{}{e.Rank, e.PlayerID, e.Score, completed, completedAt}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[HuntHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[HuntHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[HuntHandler] Ошибка записи Excel в response: %v", err)
	}
}

// paginationParams извлекает параметры пагинации из query
func paginationParams(c *gin.Context) (page, pageSize int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// handleHuntError преобразует ошибку сервиса в HTTP статус
func (h *HuntHandler) handleHuntError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyDone):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrResourceExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDistributionFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Reward distribution failed"})
	default:
		log.Printf("ERROR: Internal server error in HuntHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
