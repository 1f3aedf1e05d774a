package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/hunty-api/internal/domain/entity"
	"github.com/yourusername/hunty-api/internal/domain/repository"
	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
	"github.com/yourusername/hunty-api/pkg/auth"
)

// UserService предоставляет методы для работы с пользователями:
// регистрация, вход и выдача JWT
type UserService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, jwtService *auth.JWTService) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register создает нового пользователя. Пароль хешируется хуком BeforeSave.
func (s *UserService) Register(username, email, password string) (*entity.User, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrAlreadyDone)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, fmt.Errorf("%w: username is already taken", apperrors.ErrAlreadyDone)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	log.Printf("[UserService] Зарегистрирован пользователь #%d (%s)", user.ID, user.Username)
	return user, nil
}

// Login проверяет учетные данные и возвращает пользователя с JWT токеном
func (s *UserService) Login(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrUnauthorized
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetByID возвращает пользователя по ID
func (s *UserService) GetByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}
