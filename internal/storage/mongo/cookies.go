package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/orioks-monitoring/orioks-requester/internal/models"
	"github.com/orioks-monitoring/orioks-requester/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// CookiesByTelegramID возвращает документ с зашифрованными cookies пользователя.
// Ровно одно чтение по фильтру равенства; отсутствие записи — storage.ErrNotFound.
func (m *Mongo) CookiesByTelegramID(ctx context.Context, userTelegramID int64) (*models.UserCookies, error) {
	const op = "storage/mongo/CookiesByTelegramID"

	var out models.UserCookies
	err := m.cookies.FindOne(ctx, bson.D{{Key: "user_telegram_id", Value: userTelegramID}}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}
