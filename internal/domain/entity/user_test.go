package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUser_BeforeSave_HashesPlainPassword(t *testing.T) {
	user := &User{Username: "hunter", Email: "hunter@example.com", Password: "plain secret 123"}

	require.NoError(t, user.BeforeSave(nil))

	assert.NotEqual(t, "plain secret 123", user.Password)
	// Хеш проверяем напрямую, а не через CheckPassword, чтобы тест ловил
	// и двойное хеширование
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("plain secret 123")))
}

func TestUser_BeforeSave_IsIdempotent(t *testing.T) {
	user := &User{Username: "hunter", Email: "hunter@example.com", Password: "plain secret 123"}

	require.NoError(t, user.BeforeSave(nil))
	hashed := user.Password

	// Повторный вызов (например, при Save после обновления профиля)
	// не должен перехешировать уже хешированный пароль
	require.NoError(t, user.BeforeSave(nil))
	assert.Equal(t, hashed, user.Password)
}

func TestUser_BeforeSave_LeavesEmptyPasswordAlone(t *testing.T) {
	user := &User{Username: "hunter", Email: "hunter@example.com"}

	require.NoError(t, user.BeforeSave(nil))
	assert.Empty(t, user.Password)
}

func TestUser_CheckPassword(t *testing.T) {
	user := &User{Username: "hunter", Email: "hunter@example.com", Password: "correct horse"}
	require.NoError(t, user.BeforeSave(nil))

	assert.True(t, user.CheckPassword("correct horse"))
	assert.False(t, user.CheckPassword("wrong horse"))
	assert.False(t, user.CheckPassword(""))
}
