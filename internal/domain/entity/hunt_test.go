package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewardConfig_RewardPerWinner(t *testing.T) {
	cfg := RewardConfig{PoolTotal: 9000, MaxWinners: 3}
	assert.Equal(t, int64(3000), cfg.RewardPerWinner())

	// Целочисленное деление с усечением
	cfg = RewardConfig{PoolTotal: 100, MaxWinners: 3}
	assert.Equal(t, int64(33), cfg.RewardPerWinner())

	// Ноль победителей - награды нет
	cfg = RewardConfig{PoolTotal: 9000, MaxWinners: 0}
	assert.Equal(t, int64(0), cfg.RewardPerWinner())
}

func TestRewardConfig_HasRewardSlots(t *testing.T) {
	cfg := RewardConfig{MaxWinners: 3, ClaimedCount: 2}
	assert.True(t, cfg.HasRewardSlots())

	cfg.ClaimedCount = 3
	assert.False(t, cfg.HasRewardSlots())

	cfg = RewardConfig{MaxWinners: 0, ClaimedCount: 0}
	assert.False(t, cfg.HasRewardSlots())
}

func TestHunt_IsLive(t *testing.T) {
	now := int64(1_700_000_000)

	hunt := &Hunt{Status: HuntStatusActive, EndTime: 0}
	assert.True(t, hunt.IsLive(now), "активный хант без end_time идёт всегда")

	hunt.EndTime = now + 100
	assert.True(t, hunt.IsLive(now))

	hunt.EndTime = now
	assert.False(t, hunt.IsLive(now), "время окончания не включается")

	hunt.Status = HuntStatusDraft
	hunt.EndTime = 0
	assert.False(t, hunt.IsLive(now))
}

func TestHunt_IsTerminal(t *testing.T) {
	assert.False(t, (&Hunt{Status: HuntStatusDraft}).IsTerminal())
	assert.False(t, (&Hunt{Status: HuntStatusActive}).IsTerminal())
	assert.True(t, (&Hunt{Status: HuntStatusCompleted}).IsTerminal())
	assert.True(t, (&Hunt{Status: HuntStatusCancelled}).IsTerminal())
}

func TestPlayerProgress_CompleteClue(t *testing.T) {
	progress := &PlayerProgress{HuntID: 1, PlayerID: 7}

	progress.CompleteClue(3, 50)
	progress.CompleteClue(1, 25)

	assert.Equal(t, 75, progress.TotalScore)
	assert.True(t, progress.HasCompletedClue(3))
	assert.True(t, progress.HasCompletedClue(1))
	assert.False(t, progress.HasCompletedClue(2))

	// Порядок вставки сохраняется (порядок решения)
	assert.Equal(t, []int64{3, 1}, []int64(progress.CompletedClues))
}

func TestDistributionConfig_IsValid(t *testing.T) {
	assert.False(t, (&DistributionConfig{}).IsValid())
	assert.True(t, (&DistributionConfig{Amount: 1}).IsValid())
	assert.True(t, (&DistributionConfig{NftEnabled: true}).IsValid())
	assert.True(t, (&DistributionConfig{Amount: 100, NftEnabled: true}).IsValid())
}
