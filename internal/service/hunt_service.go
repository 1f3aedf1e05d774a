package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	"github.com/yourusername/hunty-api/internal/domain/repository"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// Ключи кеша и блокировок в Redis
const (
	leaderboardCacheKeyPrefix = "hunty:leaderboard:"
	leaderboardCacheTTL       = 30 * time.Second
	claimLockKeyPrefix        = "hunty:claim:"
	claimLockTTL              = 30 * time.Second
)

// RewardDistributor - контракт координатора раздачи наград.
// Реализуется RewardService; вводится интерфейсом, чтобы верификация
// получения награды тестировалась отдельно от раздачи.
type RewardDistributor interface {
	Distribute(ctx context.Context, huntID, playerID uint, playerAccount string, cfg entity.DistributionConfig) (*entity.DistributionRecord, error)
}

// EventEmitter - контракт публикации фактов. Реализуется events.Emitter.
type EventEmitter interface {
	Emit(eventType string, huntID, actorID uint, payload interface{})
}

// ClueInfo - представление подсказки для клиента. Хеш ответа не раскрывается.
type ClueInfo struct {
	ClueID     uint   `json:"clue_id"`
	Question   string `json:"question"`
	Points     int    `json:"points"`
	IsRequired bool   `json:"is_required"`
}

// SubmitResult - результат проверки ответа
type SubmitResult struct {
	Correct       bool `json:"correct"`
	PointsAwarded int  `json:"points_awarded"`
	TotalScore    int  `json:"total_score"`
	HuntCompleted bool `json:"hunt_completed"`
}

// HuntStatistics - сводная статистика ханта.
// Процент завершения и средний счёт считаются целочисленным делением
type HuntStatistics struct {
	HuntID                uint   `json:"hunt_id"`
	Status                string `json:"status"`
	TotalClues            int    `json:"total_clues"`
	TotalPlayers          int64  `json:"total_players"`
	CompletedCount        int64  `json:"completed_count"`
	CompletionRatePercent int64  `json:"completion_rate_percent"`
	TotalScoreSum         int64  `json:"total_score_sum"`
	AverageScore          int64  `json:"average_score"`
	ClaimedCount          int    `json:"claimed_count"`
	MaxWinners            int    `json:"max_winners"`
	PoolTotal             int64  `json:"pool_total"`
	RewardPerWinner       int64  `json:"reward_per_winner"`
}

// HuntService предоставляет методы жизненного цикла хантов, подсказок,
// прогресса игроков, лидерборда и получения наград
type HuntService struct {
	huntRepo     repository.HuntRepository
	clueRepo     repository.ClueRepository
	progressRepo repository.ProgressRepository
	cacheRepo    repository.CacheRepository
	distributor  RewardDistributor
	emitter      EventEmitter
	db           *gorm.DB
}

// NewHuntService создает новый сервис хантов
func NewHuntService(
	huntRepo repository.HuntRepository,
	clueRepo repository.ClueRepository,
	progressRepo repository.ProgressRepository,
	cacheRepo repository.CacheRepository,
	distributor RewardDistributor,
	emitter EventEmitter,
	db *gorm.DB,
) *HuntService {
	return &HuntService{
		huntRepo:     huntRepo,
		clueRepo:     clueRepo,
		progressRepo: progressRepo,
		cacheRepo:    cacheRepo,
		distributor:  distributor,
		emitter:      emitter,
		db:           db,
	}
}

// CreateHunt создает новый хант в статусе Draft с нулевой конфигурацией наград
func (s *HuntService) CreateHunt(creatorID uint, title, description string, endTime int64) (*entity.Hunt, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > entity.MaxTitleLength {
		return nil, fmt.Errorf("%w: title must be non-empty and at most %d characters", apperrors.ErrValidation, entity.MaxTitleLength)
	}
	if len(description) > entity.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description must be at most %d characters", apperrors.ErrValidation, entity.MaxDescriptionLength)
	}
	if endTime != 0 && endTime <= time.Now().Unix() {
		return nil, fmt.Errorf("%w: end time must be in the future", apperrors.ErrValidation)
	}

	hunt := &entity.Hunt{
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Status:      entity.HuntStatusDraft,
		EndTime:     endTime,
	}

	if err := s.huntRepo.Create(hunt); err != nil {
		return nil, fmt.Errorf("failed to create hunt: %w", err)
	}

	log.Printf("[HuntService] Хант #%d создан пользователем #%d", hunt.ID, creatorID)
	s.emitter.Emit(entity.EventHuntCreated, hunt.ID, creatorID, hunt)
	return hunt, nil
}

// GetHunt возвращает хант по ID
func (s *HuntService) GetHunt(huntID uint) (*entity.Hunt, error) {
	return s.huntRepo.GetByID(huntID)
}

// ListHunts возвращает ханты с пагинацией и общее их число
func (s *HuntService) ListHunts(limit, offset int) ([]entity.Hunt, int64, error) {
	return s.huntRepo.List(limit, offset)
}

// ListHuntsByCreator возвращает ханты указанного создателя
func (s *HuntService) ListHuntsByCreator(creatorID uint, limit, offset int) ([]entity.Hunt, error) {
	return s.huntRepo.ListByCreator(creatorID, limit, offset)
}

// requireCreator загружает хант и проверяет, что вызывающий является его создателем
func (s *HuntService) requireCreator(huntID, callerID uint) (*entity.Hunt, error) {
	hunt, err := s.huntRepo.GetByID(huntID)
	if err != nil {
		return nil, err
	}
	if hunt.CreatorID != callerID {
		return nil, fmt.Errorf("%w: only the hunt creator may perform this operation", apperrors.ErrForbidden)
	}
	return hunt, nil
}

// AddClue добавляет подсказку в хант. Доступно только создателю и только
// в статусе Draft; последовательный clue_id присваивается внутри транзакции,
// там же увеличивается total_clues.
func (s *HuntService) AddClue(huntID, callerID uint, question, answer string, points int, isRequired bool) (*entity.Clue, error) {
	hunt, err := s.requireCreator(huntID, callerID)
	if err != nil {
		return nil, err
	}
	if !hunt.IsDraft() {
		return nil, fmt.Errorf("%w: clues can only be added to a draft hunt", apperrors.ErrInvalidState)
	}

	question = strings.TrimSpace(question)
	if question == "" || len(question) > entity.MaxQuestionLength {
		return nil, fmt.Errorf("%w: question must be non-empty and at most %d characters", apperrors.ErrValidation, entity.MaxQuestionLength)
	}
	if points < 0 {
		return nil, fmt.Errorf("%w: points must not be negative", apperrors.ErrValidation)
	}
	if hunt.TotalClues >= entity.MaxCluesPerHunt {
		return nil, fmt.Errorf("%w: hunt already has the maximum of %d clues", apperrors.ErrResourceExhausted, entity.MaxCluesPerHunt)
	}

	answerHash, err := entity.HashAnswer(answer)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid answer", apperrors.ErrValidation)
	}

	clue := &entity.Clue{
		HuntID:     huntID,
		Question:   question,
		AnswerHash: answerHash,
		Points:     points,
		IsRequired: isRequired,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.clueRepo.CreateWithSequence(tx, clue); err != nil {
			return err
		}
		// total_clues монотонно растёт и никогда не уменьшается
		return tx.Model(&entity.Hunt{}).
			Where("id = ?", huntID).
			UpdateColumn("total_clues", gorm.Expr("total_clues + ?", 1)).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add clue: %w", err)
	}

	s.emitter.Emit(entity.EventClueAdded, huntID, callerID, map[string]interface{}{
		"clue_id": clue.ClueID,
		"points":  clue.Points,
	})
	return clue, nil
}

// GetClue возвращает подсказку для клиента (без хеша ответа)
func (s *HuntService) GetClue(huntID, clueID uint) (*ClueInfo, error) {
	clue, err := s.clueRepo.GetByHuntAndClueID(huntID, clueID)
	if err != nil {
		return nil, err
	}
	return &ClueInfo{
		ClueID:     clue.ClueID,
		Question:   clue.Question,
		Points:     clue.Points,
		IsRequired: clue.IsRequired,
	}, nil
}

// ListClues возвращает все подсказки ханта для клиента (без хешей ответов)
func (s *HuntService) ListClues(huntID uint) ([]ClueInfo, error) {
	if _, err := s.huntRepo.GetByID(huntID); err != nil {
		return nil, err
	}
	clues, err := s.clueRepo.ListByHunt(huntID)
	if err != nil {
		return nil, err
	}

	infos := make([]ClueInfo, 0, len(clues))
	for _, clue := range clues {
		infos = append(infos, ClueInfo{
			ClueID:     clue.ClueID,
			Question:   clue.Question,
			Points:     clue.Points,
			IsRequired: clue.IsRequired,
		})
	}
	return infos, nil
}

// ActivateHunt переводит хант из Draft в Active. Требуется хотя бы одна подсказка.
func (s *HuntService) ActivateHunt(huntID, callerID uint) error {
	hunt, err := s.requireCreator(huntID, callerID)
	if err != nil {
		return err
	}
	if !hunt.IsDraft() {
		return fmt.Errorf("%w: only a draft hunt can be activated", apperrors.ErrInvalidState)
	}
	if hunt.TotalClues == 0 {
		return fmt.Errorf("%w: a hunt without clues cannot be activated", apperrors.ErrValidation)
	}

	now := time.Now().Unix()
	if err := s.huntRepo.UpdateStatus(huntID, entity.HuntStatusActive, now); err != nil {
		return err
	}

	log.Printf("[HuntService] Хант #%d активирован", huntID)
	s.emitter.Emit(entity.EventHuntActivated, huntID, callerID, map[string]interface{}{
		"activated_at": now,
	})
	return nil
}

// DeactivateHunt возвращает хант из Active в Draft.
// Подсказки и прогресс игроков сохраняются, сброса не происходит.
func (s *HuntService) DeactivateHunt(huntID, callerID uint) error {
	hunt, err := s.requireCreator(huntID, callerID)
	if err != nil {
		return err
	}
	if hunt.Status != entity.HuntStatusActive {
		return fmt.Errorf("%w: only an active hunt can be deactivated", apperrors.ErrInvalidState)
	}

	if err := s.huntRepo.UpdateStatus(huntID, entity.HuntStatusDraft, hunt.ActivatedAt); err != nil {
		return err
	}

	log.Printf("[HuntService] Хант #%d деактивирован", huntID)
	s.emitter.Emit(entity.EventHuntDeactivated, huntID, callerID, nil)
	return nil
}

// CancelHunt отменяет хант. Статус Cancelled терминален: любые дальнейшие
// операции жизненного цикла отклоняются. Средства пула при отмене не
// возвращаются фондировавшим.
func (s *HuntService) CancelHunt(huntID, callerID uint) error {
	hunt, err := s.requireCreator(huntID, callerID)
	if err != nil {
		return err
	}
	if hunt.IsTerminal() {
		return fmt.Errorf("%w: hunt is already in a terminal status", apperrors.ErrInvalidState)
	}

	if err := s.huntRepo.UpdateStatus(huntID, entity.HuntStatusCancelled, hunt.ActivatedAt); err != nil {
		return err
	}

	log.Printf("[HuntService] Хант #%d отменён", huntID)
	s.emitter.Emit(entity.EventHuntCancelled, huntID, callerID, nil)
	return nil
}

// ConfigureRewards задаёт конфигурацию наград ханта: суммарный пул,
// максимум победителей и параметры NFT. Доступно создателю и только в Draft.
func (s *HuntService) ConfigureRewards(huntID, callerID uint, poolTotal int64, maxWinners int, nftEnabled bool, nftIssuer string) error {
	hunt, err := s.requireCreator(huntID, callerID)
	if err != nil {
		return err
	}
	if !hunt.IsDraft() {
		return fmt.Errorf("%w: rewards can only be configured on a draft hunt", apperrors.ErrInvalidState)
	}
	if poolTotal < 0 {
		return fmt.Errorf("%w: pool total must not be negative", apperrors.ErrValidation)
	}
	if maxWinners < 0 {
		return fmt.Errorf("%w: max winners must not be negative", apperrors.ErrValidation)
	}
	if maxWinners < hunt.RewardConfig.ClaimedCount {
		return fmt.Errorf("%w: max winners cannot be below the number of already claimed rewards", apperrors.ErrValidation)
	}

	hunt.RewardConfig.PoolTotal = poolTotal
	hunt.RewardConfig.MaxWinners = maxWinners
	hunt.RewardConfig.NftEnabled = nftEnabled
	hunt.RewardConfig.NftIssuer = nftIssuer

	if err := s.huntRepo.Update(hunt); err != nil {
		return fmt.Errorf("failed to configure rewards: %w", err)
	}

	log.Printf("[HuntService] Конфигурация наград ханта #%d обновлена: пул %d, победителей %d, nft %v",
		huntID, poolTotal, maxWinners, nftEnabled)
	return nil
}

// RegisterPlayer регистрирует игрока в ханте. Допустимо, только пока хант идёт
// (Active и время не вышло); повторная регистрация отклоняется.
func (s *HuntService) RegisterPlayer(huntID, playerID uint) (*entity.PlayerProgress, error) {
	hunt, err := s.huntRepo.GetByID(huntID)
	if err != nil {
		return nil, err
	}
	if !hunt.IsLive(time.Now().Unix()) {
		return nil, fmt.Errorf("%w: hunt is not accepting registrations", apperrors.ErrInvalidState)
	}

	progress := &entity.PlayerProgress{
		HuntID:   huntID,
		PlayerID: playerID,
	}
	if err := s.progressRepo.Create(progress); err != nil {
		return nil, err
	}

	s.emitter.Emit(entity.EventPlayerRegistered, huntID, playerID, nil)
	return progress, nil
}

// GetProgress возвращает прогресс игрока в ханте
func (s *HuntService) GetProgress(huntID, playerID uint) (*entity.PlayerProgress, error) {
	return s.progressRepo.Get(huntID, playerID)
}

// GetCompletedClues возвращает ID решённых подсказок в порядке решения
func (s *HuntService) GetCompletedClues(huntID, playerID uint) ([]int64, error) {
	progress, err := s.progressRepo.Get(huntID, playerID)
	if err != nil {
		return nil, err
	}
	return []int64(progress.CompletedClues), nil
}

// SubmitAnswer проверяет ответ игрока на подсказку.
// Неверный ответ не меняет прогресс. Верный добавляет подсказку в список
// решённых, начисляет очки и, если все обязательные подсказки решены,
// фиксирует завершение ханта игроком.
func (s *HuntService) SubmitAnswer(huntID, playerID, clueID uint, answer string) (*SubmitResult, error) {
	hunt, err := s.huntRepo.GetByID(huntID)
	if err != nil {
		return nil, err
	}
	if !hunt.IsLive(time.Now().Unix()) {
		return nil, fmt.Errorf("%w: hunt is not live", apperrors.ErrInvalidState)
	}

	progress, err := s.progressRepo.Get(huntID, playerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: player is not registered in this hunt", apperrors.ErrNotFound)
		}
		return nil, err
	}

	clue, err := s.clueRepo.GetByHuntAndClueID(huntID, clueID)
	if err != nil {
		return nil, err
	}

	if progress.HasCompletedClue(clueID) {
		return nil, fmt.Errorf("%w: clue already completed", apperrors.ErrAlreadyDone)
	}

	answerHash, err := entity.HashAnswer(answer)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid answer", apperrors.ErrValidation)
	}

	if !clue.IsCorrect(answerHash) {
		s.emitter.Emit(entity.EventAnswerIncorrect, huntID, playerID, map[string]interface{}{
			"clue_id": clueID,
		})
		return &SubmitResult{Correct: false, TotalScore: progress.TotalScore}, nil
	}

	progress.CompleteClue(clueID, clue.Points)

	justCompleted := false
	if !progress.IsCompleted {
		allDone, err := s.allRequiredCluesCompleted(huntID, progress)
		if err != nil {
			return nil, err
		}
		if allDone {
			progress.IsCompleted = true
			progress.CompletedAt = time.Now().Unix()
			justCompleted = true
		}
	}

	if err := s.progressRepo.Save(progress); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	s.invalidateLeaderboard(huntID)
	s.emitter.Emit(entity.EventClueCompleted, huntID, playerID, map[string]interface{}{
		"clue_id": clueID,
		"points":  clue.Points,
	})
	if justCompleted {
		log.Printf("[HuntService] Игрок #%d завершил хант #%d со счётом %d", playerID, huntID, progress.TotalScore)
		s.emitter.Emit(entity.EventHuntCompleted, huntID, playerID, map[string]interface{}{
			"total_score":  progress.TotalScore,
			"completed_at": progress.CompletedAt,
		})
	}

	return &SubmitResult{
		Correct:       true,
		PointsAwarded: clue.Points,
		TotalScore:    progress.TotalScore,
		HuntCompleted: progress.IsCompleted,
	}, nil
}

// allRequiredCluesCompleted проверяет, решены ли игроком все обязательные подсказки ханта
func (s *HuntService) allRequiredCluesCompleted(huntID uint, progress *entity.PlayerProgress) (bool, error) {
	clues, err := s.clueRepo.ListByHunt(huntID)
	if err != nil {
		return false, err
	}
	for _, clue := range clues {
		if clue.IsRequired && !progress.HasCompletedClue(clue.ClueID) {
			return false, nil
		}
	}
	return true, nil
}

// GetLeaderboard возвращает топ-K лидерборда ханта. Результат кешируется
// в Redis на короткое время и сбрасывается при изменении прогресса.
func (s *HuntService) GetLeaderboard(huntID uint, limit int) ([]LeaderboardEntry, error) {
	if _, err := s.huntRepo.GetByID(huntID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxLeaderboardSize {
		limit = MaxLeaderboardSize
	}

	cacheKey := fmt.Sprintf("%s%d:%d", leaderboardCacheKeyPrefix, huntID, limit)
	var cached []LeaderboardEntry
	if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
		return cached, nil
	}

	snapshot, err := s.progressRepo.ListByHunt(huntID)
	if err != nil {
		return nil, err
	}

	board := BuildLeaderboard(snapshot, limit)
	if err := s.cacheRepo.SetJSON(cacheKey, board, leaderboardCacheTTL); err != nil {
		log.Printf("[HuntService] Ошибка кеширования лидерборда ханта #%d: %v", huntID, err)
	}
	return board, nil
}

// invalidateLeaderboard сбрасывает кеш лидерборда ханта для всех размеров K
func (s *HuntService) invalidateLeaderboard(huntID uint) {
	for limit := 1; limit <= MaxLeaderboardSize; limit++ {
		key := fmt.Sprintf("%s%d:%d", leaderboardCacheKeyPrefix, huntID, limit)
		if err := s.cacheRepo.Delete(key); err != nil {
			log.Printf("[HuntService] Ошибка сброса кеша лидерборда %s: %v", key, err)
		}
	}
}

// GetStatistics возвращает сводную статистику ханта
func (s *HuntService) GetStatistics(huntID uint) (*HuntStatistics, error) {
	hunt, err := s.huntRepo.GetByID(huntID)
	if err != nil {
		return nil, err
	}

	totalPlayers, err := s.progressRepo.CountByHunt(huntID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.progressRepo.ListByHunt(huntID)
	if err != nil {
		return nil, err
	}
	var completedCount, scoreSum int64
	for _, p := range snapshot {
		if p.IsCompleted {
			completedCount++
		}
		scoreSum += int64(p.TotalScore)
	}

	var completionRate, averageScore int64
	if totalPlayers > 0 {
		completionRate = completedCount * 100 / totalPlayers
		averageScore = scoreSum / totalPlayers
	}

	return &HuntStatistics{
		HuntID:                hunt.ID,
		Status:                hunt.Status,
		TotalClues:            hunt.TotalClues,
		TotalPlayers:          totalPlayers,
		CompletedCount:        completedCount,
		CompletionRatePercent: completionRate,
		TotalScoreSum:         scoreSum,
		AverageScore:          averageScore,
		ClaimedCount:          hunt.RewardConfig.ClaimedCount,
		MaxWinners:            hunt.RewardConfig.MaxWinners,
		PoolTotal:             hunt.RewardConfig.PoolTotal,
		RewardPerWinner:       hunt.RewardConfig.RewardPerWinner(),
	}, nil
}

// ClaimReward выдаёт игроку награду за завершение ханта.
// Порядок проверок фиксирован: завершение, повторное получение, наличие
// сконфигурированных слотов победителей, свободные слоты. Только после
// всех проверок вычисляется reward_per_winner и вызывается координатор
// раздачи; при его успехе получение фиксируется одной транзакцией.
//
// Redis-блокировка на пару (хант, игрок) защищает от конкурентных повторных
// запросов одного игрока, пока раздача ещё не зафиксирована.
func (s *HuntService) ClaimReward(ctx context.Context, huntID, playerID uint, playerAccount string) (*entity.DistributionRecord, error) {
	hunt, err := s.huntRepo.GetByID(huntID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.Get(huntID, playerID)
	if err != nil {
		return nil, err
	}
	if !progress.IsCompleted {
		return nil, fmt.Errorf("%w: hunt is not completed by this player", apperrors.ErrInvalidState)
	}
	if progress.RewardClaimed {
		return nil, fmt.Errorf("%w: reward already claimed", apperrors.ErrAlreadyDone)
	}
	if hunt.RewardConfig.MaxWinners <= 0 {
		return nil, fmt.Errorf("%w: hunt has no winner slots configured", apperrors.ErrValidation)
	}
	if !hunt.RewardConfig.HasRewardSlots() {
		return nil, fmt.Errorf("%w: no winner slots left", apperrors.ErrResourceExhausted)
	}

	lockKey := fmt.Sprintf("%s%d:%d", claimLockKeyPrefix, huntID, playerID)
	acquired, err := s.cacheRepo.SetNX(lockKey, "1", claimLockTTL)
	if err != nil {
		log.Printf("[HuntService] Ошибка взятия блокировки %s: %v", lockKey, err)
	} else if !acquired {
		return nil, fmt.Errorf("%w: claim is already in progress", apperrors.ErrConflict)
	}
	defer func() {
		if err := s.cacheRepo.Delete(lockKey); err != nil {
			log.Printf("[HuntService] Ошибка снятия блокировки %s: %v", lockKey, err)
		}
	}()

	cfg := entity.DistributionConfig{
		Amount:     hunt.RewardConfig.RewardPerWinner(),
		NftEnabled: hunt.RewardConfig.NftEnabled,
		NftIssuer:  hunt.RewardConfig.NftIssuer,
	}
	if cfg.NftEnabled {
		cfg.NftMetadata = entity.NftMetadata{
			"title":       fmt.Sprintf("%s Completion", hunt.Title),
			"description": hunt.Description,
			"hunt_title":  hunt.Title,
		}
	}

	record, err := s.distributor.Distribute(ctx, huntID, playerID, playerAccount, cfg)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.progressRepo.MarkClaimed(tx, huntID, playerID); err != nil {
			return err
		}
		return s.huntRepo.IncrementClaimedCount(tx, huntID)
	})
	if err != nil {
		// Раздача уже состоялась; запись о ней есть, повторной выдачи не будет,
		// но счётчики не сошлись - требуется ручная сверка
		log.Printf("[HuntService] КРИТИЧНО: раздача для ханта #%d, игрока #%d выполнена, но получение не зафиксировано: %v", huntID, playerID, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDistributionFailed, err)
	}

	log.Printf("[HuntService] Игрок #%d получил награду за хант #%d: сумма %d", playerID, huntID, record.Amount)
	return record, nil
}
