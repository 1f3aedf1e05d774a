package dto

import (
	"github.com/yourusername/hunty-api/internal/domain/entity"
)

// RewardConfigDTO представляет конфигурацию наград ханта в ответе API
type RewardConfigDTO struct {
	PoolTotal       int64  `json:"pool_total"`
	NftEnabled      bool   `json:"nft_enabled"`
	NftIssuer       string `json:"nft_issuer,omitempty"`
	MaxWinners      int    `json:"max_winners"`
	ClaimedCount    int    `json:"claimed_count"`
	RewardPerWinner int64  `json:"reward_per_winner"`
}

// HuntResponse представляет хант в ответе API
type HuntResponse struct {
	ID           uint            `json:"id"`
	CreatorID    uint            `json:"creator_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	ActivatedAt  int64           `json:"activated_at,omitempty"`
	EndTime      int64           `json:"end_time,omitempty"`
	TotalClues   int             `json:"total_clues"`
	RewardConfig RewardConfigDTO `json:"reward_config"`
}

// NewHuntResponse создает DTO ханта из сущности
func NewHuntResponse(hunt *entity.Hunt) *HuntResponse {
	return &HuntResponse{
		ID:          hunt.ID,
		CreatorID:   hunt.CreatorID,
		Title:       hunt.Title,
		Description: hunt.Description,
		Status:      hunt.Status,
		ActivatedAt: hunt.ActivatedAt,
		EndTime:     hunt.EndTime,
		TotalClues:  hunt.TotalClues,
		RewardConfig: RewardConfigDTO{
			PoolTotal:       hunt.RewardConfig.PoolTotal,
			NftEnabled:      hunt.RewardConfig.NftEnabled,
			NftIssuer:       hunt.RewardConfig.NftIssuer,
			MaxWinners:      hunt.RewardConfig.MaxWinners,
			ClaimedCount:    hunt.RewardConfig.ClaimedCount,
			RewardPerWinner: hunt.RewardConfig.RewardPerWinner(),
		},
	}
}

// ListHuntsResponse представляет пагинированный список хантов
type ListHuntsResponse struct {
	Hunts   []*HuntResponse `json:"hunts"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// NewListHuntsResponse создает DTO списка хантов
func NewListHuntsResponse(hunts []entity.Hunt, total int64, page, perPage int) *ListHuntsResponse {
	items := make([]*HuntResponse, 0, len(hunts))
	for i := range hunts {
		items = append(items, NewHuntResponse(&hunts[i]))
	}
	return &ListHuntsResponse{
		Hunts:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}

// ProgressResponse представляет прогресс игрока в ответе API
type ProgressResponse struct {
	HuntID         uint    `json:"hunt_id"`
	PlayerID       uint    `json:"player_id"`
	CompletedClues []int64 `json:"completed_clues"`
	TotalScore     int     `json:"total_score"`
	IsCompleted    bool    `json:"is_completed"`
	CompletedAt    int64   `json:"completed_at,omitempty"`
	RewardClaimed  bool    `json:"reward_claimed"`
}

// NewProgressResponse создает DTO прогресса из сущности
func NewProgressResponse(p *entity.PlayerProgress) *ProgressResponse {
	return &ProgressResponse{
		HuntID:         p.HuntID,
		PlayerID:       p.PlayerID,
		CompletedClues: []int64(p.CompletedClues),
		TotalScore:     p.TotalScore,
		IsCompleted:    p.IsCompleted,
		CompletedAt:    p.CompletedAt,
		RewardClaimed:  p.RewardClaimed,
	}
}

// NftResponse представляет NFT в ответе API
type NftResponse struct {
	NftID              uint               `json:"nft_id"`
	HuntID             uint               `json:"hunt_id"`
	OwnerID            uint               `json:"owner_id"`
	CompletionPlayerID uint               `json:"completion_player_id"`
	Metadata           entity.NftMetadata `json:"metadata"`
	MintedAt           int64              `json:"minted_at"`
}

// NewNftResponse создает DTO NFT из сущности
func NewNftResponse(nft *entity.NftRecord) *NftResponse {
	return &NftResponse{
		NftID:              nft.ID,
		HuntID:             nft.HuntID,
		OwnerID:            nft.OwnerID,
		CompletionPlayerID: nft.CompletionPlayerID,
		Metadata:           nft.Metadata,
		MintedAt:           nft.MintedAt,
	}
}

// DistributionResponse представляет запись о раздаче награды в ответе API
type DistributionResponse struct {
	HuntID   uint  `json:"hunt_id"`
	PlayerID uint  `json:"player_id"`
	Amount   int64 `json:"amount"`
	NftID    *uint `json:"nft_id,omitempty"`
}

// NewDistributionResponse создает DTO раздачи из сущности
func NewDistributionResponse(r *entity.DistributionRecord) *DistributionResponse {
	return &DistributionResponse{
		HuntID:   r.HuntID,
		PlayerID: r.PlayerID,
		Amount:   r.Amount,
		NftID:    r.NftID,
	}
}
