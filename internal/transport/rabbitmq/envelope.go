// Реализация RPC поверх RabbitMQ для orioks-requester.
//
// Конверт — JSON. Запрос: models.RequestMessage. Ответ: reply с телом
// страницы либо структурированной ошибкой, по которой вызывающая сторона
// отличает «нужен перелогин» от «ОРИОКС недоступен» и от внутреннего сбоя.
//
// Маппинг ошибок сервиса в виды ответа:
//
//	ErrUnknownEventType -> unknown_event_type
//	ErrCookiesNotFound  -> cookies_not_found
//	ErrDecryption       -> decryption_failed
//	ErrUnexpectedStatus -> unexpected_status (+ status_code, url)
//	прочее              -> internal
package rabbitmq

import (
	"errors"
	"fmt"

	"github.com/orioks-monitoring/orioks-requester/internal/service"
)

const (
	kindBadRequest       = "bad_request"
	kindUnknownEventType = "unknown_event_type"
	kindCookiesNotFound  = "cookies_not_found"
	kindDecryptionFailed = "decryption_failed"
	kindUnexpectedStatus = "unexpected_status"
	kindInternal         = "internal"
)

// reply — JSON-конверт ответа RPC.
type reply struct {
	Body  string      `json:"body,omitempty"`
	Error *replyError `json:"error,omitempty"`
}

// replyError — структурированная причина отказа.
type replyError struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	URL        string `json:"url,omitempty"`
}

// errorReply маппит ошибку сервиса в конверт.
// Внутренние детали наружу не раскрываются.
func errorReply(err error) *replyError {
	var st *service.StatusError

	switch {
	case errors.As(err, &st):
		return &replyError{
			Kind:       kindUnexpectedStatus,
			Message:    st.Error(),
			StatusCode: st.Code,
			URL:        st.URL,
		}
	case errors.Is(err, service.ErrUnknownEventType):
		return &replyError{Kind: kindUnknownEventType, Message: err.Error()}
	case errors.Is(err, service.ErrCookiesNotFound):
		return &replyError{Kind: kindCookiesNotFound, Message: err.Error()}
	case errors.Is(err, service.ErrDecryption):
		return &replyError{Kind: kindDecryptionFailed, Message: err.Error()}
	default:
		return &replyError{Kind: kindInternal, Message: "internal error"}
	}
}

// errorFromReply — обратное преобразование на стороне клиента:
// вид из конверта снова становится sentinel-ошибкой сервиса.
func errorFromReply(re *replyError) error {
	switch re.Kind {
	case kindUnexpectedStatus:
		return &service.StatusError{Code: re.StatusCode, URL: re.URL}
	case kindUnknownEventType:
		return fmt.Errorf("%s: %w", re.Message, service.ErrUnknownEventType)
	case kindCookiesNotFound:
		return fmt.Errorf("%s: %w", re.Message, service.ErrCookiesNotFound)
	case kindDecryptionFailed:
		return fmt.Errorf("%s: %w", re.Message, service.ErrDecryption)
	default:
		return fmt.Errorf("%s (%s): %w", re.Message, re.Kind, service.ErrInternal)
	}
}
