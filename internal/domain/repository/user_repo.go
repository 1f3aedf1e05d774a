package repository

import (
	"github.com/yourusername/hunty-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями.
// Поиск по email и username нужен логину и проверке дубликатов при регистрации
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
}
