package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	apperrors "github.com/yourusername/hunty-api/internal/pkg/errors"
)

// Лимиты для подсказок
const (
	MaxQuestionLength = 2000
	MaxAnswerLength   = 256
)

// Clue представляет подсказку (вопрос/ответ) внутри ханта.
// ClueID последовательный в рамках ханта (1..N). Хранится только хеш нормализованного
// ответа, исходный текст ответа никогда не сохраняется.
type Clue struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	HuntID     uint   `gorm:"not null;uniqueIndex:idx_hunt_clue" json:"hunt_id"`
	ClueID     uint   `gorm:"not null;uniqueIndex:idx_hunt_clue" json:"clue_id"`
	Question   string `gorm:"size:2000;not null" json:"question"`
	AnswerHash string `gorm:"size:64;not null" json:"-"` // Скрыто от клиента
	Points     int    `gorm:"not null;default:0" json:"points"`
	IsRequired bool   `gorm:"not null;default:true" json:"is_required"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Clue) TableName() string {
	return "clues"
}

// IsCorrect проверяет, совпадает ли хеш нормализованного ответа с сохранённым
func (c *Clue) IsCorrect(answerHash string) bool {
	return answerHash == c.AnswerHash
}

// isASCIISpace: пробел, таб, LF, CR — ровно тот набор, что отрезается при нормализации
func isASCIISpace(b byte) bool {
	return b == 0x20 || b == 0x09 || b == 0x0a || b == 0x0d
}

// NormalizeAnswer приводит ответ к каноническому виду: отрезает ведущие/замыкающие
// ASCII-пробелы и переводит латинские буквы в нижний регистр. Работает побайтово,
// чтобы результат был воспроизводим бит-в-бит независимо от платформы.
// Возвращает ErrValidation для пустого, состоящего из одних пробелов
// или слишком длинного (> MaxAnswerLength байт) ответа.
func NormalizeAnswer(answer string) ([]byte, error) {
	n := len(answer)
	if n == 0 || n > MaxAnswerLength {
		return nil, apperrors.ErrValidation
	}

	start, end := 0, n
	for start < end && isASCIISpace(answer[start]) {
		start++
	}
	for end > start && isASCIISpace(answer[end-1]) {
		end--
	}
	if start >= end {
		return nil, apperrors.ErrValidation
	}

	buf := make([]byte, end-start)
	for i := start; i < end; i++ {
		b := answer[i]
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		buf[i-start] = b
	}
	return buf, nil
}

// HashAnswer нормализует ответ и возвращает hex-представление его SHA-256 хеша.
// Эквивалентные по нормализации строки ("  ANSWER  " и "answer") дают одинаковый хеш.
func HashAnswer(answer string) (string, error) {
	normalized, err := NormalizeAnswer(answer)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(normalized)
	return hex.EncodeToString(sum[:]), nil
}
