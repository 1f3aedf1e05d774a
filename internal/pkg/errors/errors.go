package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены (хант, подсказка, NFT).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия
	// (например, вызывающий не является создателем ханта или владельцем NFT).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных
	// (пустой/слишком длинный текст, неположительная сумма, нулевое число победителей).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState используется, когда операция недопустима для текущего статуса ханта
	// (например, добавление подсказки не в Draft, отмена уже отменённого ханта).
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrAlreadyDone используется для повторных операций: дубликат регистрации,
	// уже решённая подсказка, уже полученная награда, перевод NFT самому себе.
	ErrAlreadyDone = errors.New("operation already performed")

	// ErrResourceExhausted используется, когда лимит исчерпан: слишком много подсказок,
	// не осталось слотов победителей, недостаточно средств в пуле.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrDistributionFailed оборачивает ошибку вложенного вызова при раздаче наград.
	// Причина логируется, но наружу не раскрывается.
	ErrDistributionFailed = errors.New("reward distribution failed")

	// ErrConflict используется для конфликтов состояния при конкурентных запросах.
	ErrConflict = errors.New("resource state conflict")
)
