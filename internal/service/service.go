// service содержит бизнес-логику orioks-requester: маршрутизацию типов событий
// в страницы ОРИОКС и аутентифицированную загрузку этих страниц.
package service

import (
	"errors"
	"fmt"

	"github.com/orioks-monitoring/orioks-requester/internal/config"
	"github.com/orioks-monitoring/orioks-requester/internal/secrets"
	"github.com/orioks-monitoring/orioks-requester/internal/storage"
)

var (
	// ErrUnknownEventType — тип события вне закрытого множества
	// (контрактная ошибка вызывающей стороны).
	ErrUnknownEventType = errors.New("unknown event type")
	// ErrCookiesNotFound — пользователь не залогинен (ожидаемый исход).
	ErrCookiesNotFound = errors.New("cookies not found")
	// ErrDecryption — cookies не расшифровываются (битые данные или чужой ключ).
	ErrDecryption = errors.New("cookie decryption failed")
	// ErrUnexpectedStatus — ОРИОКС ответил не-200 (обычно истёкшая сессия).
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrInternal — внутренняя ошибка (сторадж/сеть/контекст).
	ErrInternal = errors.New("internal")
)

// StatusError — не-200 ответ ОРИОКС с кодом и адресом.
// Разворачивается в ErrUnexpectedStatus для errors.Is.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Service — описывает бизнес-логику orioks-requester.
type Service struct {
	storage storage.Storage
	cipher  *secrets.Cipher
	cfg     config.Config
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cipher *secrets.Cipher, cfg config.Config) *Service {
	return &Service{
		storage: storage,
		cipher:  cipher,
		cfg:     cfg,
	}
}
