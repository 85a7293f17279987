package storage

import (
	"context"
	"errors"

	"github.com/orioks-monitoring/orioks-requester/internal/models"
)

var (
	// ErrNotFound — у пользователя нет сохранённых cookies (не залогинен).
	// Это ожидаемый исход, а не фатальная ошибка.
	ErrNotFound = errors.New("not found")
)

// Storage описывает доступ к сохранённым cookies пользователей.
// Записи создаёт внешний компонент логина; воркер их только читает.
type Storage interface {
	// CookiesByTelegramID возвращает зашифрованный набор cookies пользователя.
	// Если записи нет — ErrNotFound.
	CookiesByTelegramID(ctx context.Context, userTelegramID int64) (*models.UserCookies, error)

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
