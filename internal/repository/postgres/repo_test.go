package postgres

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// newMockDB создаёт gorm.DB поверх sqlmock. Транзакции по умолчанию
// отключены, чтобы ожидания покрывали только сами запросы.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))

	// Обёрнутые ошибки тоже распознаются
	wrapped := fmt.Errorf("create failed: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))

	// Другие SQLSTATE и посторонние ошибки - нет
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(fmt.Errorf("connection reset")))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
}

func TestProgressRepo_Create_DuplicateRegistration(t *testing.T) {
	db, dbMock := newMockDB(t)
	// Уникальный индекс (hunt_id, player_id): повторная регистрация
	// приходит от драйвера как SQLSTATE 23505
	dbMock.ExpectQuery(`INSERT INTO "player_progress"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_hunt_player"})

	repo := NewProgressRepo(db)

	err := repo.Create(&entity.PlayerProgress{HuntID: 1, PlayerID: 7})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyDone)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestProgressRepo_Create_OtherErrorsPassThrough(t *testing.T) {
	db, dbMock := newMockDB(t)
	dbMock.ExpectQuery(`INSERT INTO "player_progress"`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	repo := NewProgressRepo(db)

	err := repo.Create(&entity.PlayerProgress{HuntID: 1, PlayerID: 7})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrAlreadyDone)
}

func TestRewardRepo_CreateDistribution_Duplicate(t *testing.T) {
	db, dbMock := newMockDB(t)
	dbMock.ExpectQuery(`INSERT INTO "distribution_records"`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_hunt_player_dist"})

	repo := NewRewardRepo(db)

	err := repo.CreateDistribution(db, &entity.DistributionRecord{HuntID: 1, PlayerID: 7, Amount: 3000})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyDone)
}

func TestHuntRepo_IncrementClaimedCount_GuardsWinnerLimit(t *testing.T) {
	db, dbMock := newMockDB(t)
	// Счётчик уже равен reward_max_winners: условие WHERE не пропускает строку
	dbMock.ExpectExec(`UPDATE "hunts" .*reward_claimed_count < reward_max_winners`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewHuntRepo(db)

	err := repo.IncrementClaimedCount(db, 1)
	assert.ErrorIs(t, err, apperrors.ErrResourceExhausted)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestHuntRepo_IncrementClaimedCount_Success(t *testing.T) {
	db, dbMock := newMockDB(t)
	dbMock.ExpectExec(`UPDATE "hunts" .*reward_claimed_count < reward_max_winners`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewHuntRepo(db)

	require.NoError(t, repo.IncrementClaimedCount(db, 1))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
