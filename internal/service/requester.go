package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/orioks-monitoring/orioks-requester/internal/models"
	"github.com/orioks-monitoring/orioks-requester/internal/storage"
	"github.com/orioks-monitoring/orioks-requester/pkg/log"
)

// Фиксированный профиль заголовков «обычного браузера».
// Accept-Encoding не выставляется руками: им управляет транспорт,
// иначе gzip-тело пришлось бы распаковывать самостоятельно.
var requestHeaders = map[string]string{
	"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9," +
		"image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
	"Accept-Language": "ru-RU,ru;q=0.9",
	"User-Agent":      "orioks_monitoring/2.0 (Linux; resty)",
}

// RequestInput — входные параметры одной задачи.
type RequestInput struct {
	UserTelegramID int64
	EventType      models.EventType
	// NewsID обязателен только для news-individual.
	NewsID int64
}

// HandleRequest — единственная точка входа: загрузка страницы ОРИОКС
// от имени пользователя. Оркестрация без трансляции ошибок:
// роутер -> сторадж -> расшифровка -> HTTP-запрос, каждая ошибка
// всплывает своим sentinel-видом.
//
// Поведение/ошибки:
//   - ErrUnknownEventType — тип вне закрытого множества или news-individual без id;
//   - ErrCookiesNotFound — пользователь не залогинен; HTTP-запрос не выполняется;
//   - ErrDecryption — cookies не расшифровались; HTTP-запрос не выполняется;
//   - ErrUnexpectedStatus (StatusError) — ОРИОКС ответил не-200;
//   - ErrInternal — ошибки стораджа/сети/контекста.
func (s *Service) HandleRequest(ctx context.Context, in RequestInput) (string, error) {
	const op = "service/requester/HandleRequest"

	lg := log.From(ctx).With(
		"op", op,
		"user_telegram_id", in.UserTelegramID,
		"event_type", string(in.EventType),
	)

	url, err := resolveURL(s.cfg.Orioks.BaseURL, in.EventType, in.NewsID)
	if err != nil {
		lg.Warn("unknown event type")
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// Пауза вежливости перед каждой задачей.
	if d := s.cfg.Orioks.Politeness; d > 0 {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%s: %w", op, ErrInternal)
		case <-time.After(d):
		}
	}

	record, err := s.storage.CookiesByTelegramID(ctx, in.UserTelegramID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("cookies not found")
			return "", fmt.Errorf("%s: %w", op, ErrCookiesNotFound)
		default:
			lg.Error("storage error on CookiesByTelegramID", "err", err)
			return "", fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	// Расшифрованный набор живёт только до конца этого вызова.
	cookies, err := s.cipher.DecryptCookies(record.Cookies)
	if err != nil {
		lg.Error("cookie decryption failed", "err", err)
		return "", fmt.Errorf("%s: %w", op, ErrDecryption)
	}

	body, err := s.fetch(ctx, url, cookies)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("page_fetched", "url", url, "bytes", len(body))

	return body, nil
}

// fetch выполняет один аутентифицированный GET.
// HTTP-клиент создаётся на каждый вызов и не переиспользуется между
// пользователями — cookies одного пользователя не могут утечь в запрос другого.
// Ретраев нет: не-200 почти всегда означает истёкшую сессию,
// и это видимое вызывающей стороне состояние, а не сетевой сбой.
func (s *Service) fetch(ctx context.Context, url string, cookies map[string]string) (string, error) {
	const op = "service/requester/fetch"

	lg := log.From(ctx)

	client := resty.New()
	client.SetTimeout(s.cfg.Orioks.RequestTimeout)
	client.SetHeaders(requestHeaders)

	for name, value := range cookies {
		client.SetCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		lg.Error("orioks request failed", "url", url, "err", err)
		return "", fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("orioks_response", "status", resp.StatusCode(), "url", url)

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%s: %w", op, &StatusError{Code: resp.StatusCode(), URL: url})
	}

	return resp.String(), nil
}
