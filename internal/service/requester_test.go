package service

// Тесты диспетчеризации (internal/service/requester.go).
//
// Проверяем:
//  - happy-path всех семи типов событий против httptest-заглушки ОРИОКС;
//  - что расшифрованные cookies и фиксированный профиль заголовков
//    действительно уходят в запрос;
//  - отсутствие HTTP-запросов при ErrCookiesNotFound и ErrDecryption;
//  - маппинг не-200 ответа в StatusError с кодом;
//  - контрактные ошибки роутера до обращения к стораджу.
//
// Подготовка окружения:
//   # Сгенерировать моки интерфейса хранилища:
//   mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//
//   go test ./internal/service -v -race -count=1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/orioks-monitoring/orioks-requester/internal/config"
	"github.com/orioks-monitoring/orioks-requester/internal/models"
	"github.com/orioks-monitoring/orioks-requester/internal/secrets"
	"github.com/orioks-monitoring/orioks-requester/internal/storage"
	"github.com/orioks-monitoring/orioks-requester/mocks"
)

// newServiceWithMocks — сервис поверх мок-хранилища и свежего ключа Fernet.
// Пауза вежливости отключена, чтобы не замедлять тесты.
func newServiceWithMocks(t *testing.T, baseURL string) (*Service, *mocks.MockStorage, *fernet.Key, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	ms := mocks.NewMockStorage(ctrl)

	var key fernet.Key
	require.NoError(t, key.Generate())

	cipher, err := secrets.New(key.Encode())
	require.NoError(t, err)

	cfg := config.Config{}
	cfg.Orioks.BaseURL = baseURL
	cfg.Orioks.RequestTimeout = 5 * time.Second
	cfg.Orioks.Politeness = 0

	return New(ms, cipher, cfg), ms, &key, ctrl
}

// encCookies — шифрует значения cookies ключом сервиса.
func encCookies(t *testing.T, key *fernet.Key, plain map[string]string) map[string]string {
	t.Helper()

	out := make(map[string]string, len(plain))
	for name, v := range plain {
		tok, err := fernet.EncryptAndSign([]byte(v), key)
		require.NoError(t, err)
		out[name] = string(tok)
	}
	return out
}

// Все семь типов с валидными cookies и 200 — возвращается ровно тело заглушки.
func TestHandleRequest_AllEventTypes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>stub</html>"))
	}))
	defer ts.Close()

	s, ms, key, ctrl := newServiceWithMocks(t, ts.URL)
	defer ctrl.Finish()

	enc := encCookies(t, key, map[string]string{"PHPSESSID": "abc"})

	events := []models.EventType{
		models.EventMarks,
		models.EventHomeworks,
		models.EventRequestsQuestionnaire,
		models.EventRequestsDoc,
		models.EventRequestsReference,
		models.EventNews,
		models.EventNewsIndividual,
	}

	ms.EXPECT().
		CookiesByTelegramID(gomock.Any(), int64(42)).
		Return(&models.UserCookies{UserTelegramID: 42, Cookies: enc}, nil).
		Times(len(events))

	for _, ev := range events {
		in := RequestInput{UserTelegramID: 42, EventType: ev}
		if ev == models.EventNewsIndividual {
			in.NewsID = 99
		}

		body, err := s.HandleRequest(context.Background(), in)
		require.NoError(t, err, "тип %q", ev)
		require.Equal(t, "<html>stub</html>", body, "тип %q", ev)
	}
}

// Пример из контракта: marks для пользователя 42 с cookie sid=abc.
func TestHandleRequest_MarksExample(t *testing.T) {
	var gotCookie, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err == nil {
			gotCookie = c.Value
		}
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("<html>grades</html>"))
	}))
	defer ts.Close()

	s, ms, key, ctrl := newServiceWithMocks(t, ts.URL)
	defer ctrl.Finish()

	ms.EXPECT().
		CookiesByTelegramID(gomock.Any(), int64(42)).
		Return(&models.UserCookies{
			UserTelegramID: 42,
			Cookies:        encCookies(t, key, map[string]string{"sid": "abc"}),
		}, nil)

	body, err := s.HandleRequest(context.Background(), RequestInput{
		UserTelegramID: 42,
		EventType:      models.EventMarks,
	})
	require.NoError(t, err)
	require.Equal(t, "<html>grades</html>", body)
	require.Equal(t, "/student/student", gotPath)
	require.Equal(t, "abc", gotCookie, "расшифрованная cookie должна уйти в запрос")
}

// Фиксированный профиль заголовков уходит в каждый запрос.
func TestHandleRequest_BrowserHeaders(t *testing.T) {
	var gotUA, gotLang, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	s, ms, key, ctrl := newServiceWithMocks(t, ts.URL)
	defer ctrl.Finish()

	ms.EXPECT().
		CookiesByTelegramID(gomock.Any(), gomock.Any()).
		Return(&models.UserCookies{Cookies: encCookies(t, key, map[string]string{"sid": "x"})}, nil)

	_, err := s.HandleRequest(context.Background(), RequestInput{
		UserTelegramID: 1,
		EventType:      models.EventNews,
	})
	require.NoError(t, err)

	require.Equal(t, "orioks_monitoring/2.0 (Linux; resty)", gotUA)
	require.Equal(t, "ru-RU,ru;q=0.9", gotLang)
	require.Contains(t, gotAccept, "text/html")
}

// Пользователь без записи: ErrCookiesNotFound и ноль HTTP-запросов.
func TestHandleRequest_CookiesNotFound(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	s, ms, _, ctrl := newServiceWithMocks(t, ts.URL)
	defer ctrl.Finish()

	ms.EXPECT().
		CookiesByTelegramID(gomock.Any(), int64(7)).
		Return(nil, storage.ErrNotFound)

	_, err := s.HandleRequest(context.Background(), RequestInput{
		UserTelegramID: 7,
		EventType:      models.EventMarks,
	})
	require.ErrorIs(t, err, ErrCookiesNotFound)
	require.Zero(t, atomic.LoadInt32(&hits), "HTTP-запросов быть не должно")
}

// Битый шифртекст любой cookie: ErrDecryption и ноль HTTP-запросов.
func TestHandleRequest_DecryptionFailure(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	s, ms, key, ctrl := newServiceWithMocks(t, ts.URL)
	defer ctrl.Finish()

	enc := encCookies(t, key, map[string]string{"good": "ok"})
	enc["bad"] = "gAAAAA-corrupt"

	ms.EXPECT().
		CookiesByTelegramID(gomock.Any(), gomock.Any()).
		Return(&models.UserCookies{Cookies: enc}, nil)

	_, err := s.HandleRequest(context.Background(), RequestInput{
		UserTelegramID: 1,
		EventType:      models.EventMarks,
	})
	require.ErrorIs(t, err, ErrDecryption)
	require.Zero(t, atomic.LoadInt32(&hits), "HTTP-запросов быть не должно")
}

// Не-200 ответ: StatusError с кодом, тело не возвращается.
func TestHandleRequest_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "expired session", http.StatusForbidden)
	}))
	defer ts.Close()

	s, ms, key, ctrl := newServiceWithMocks(t, ts.URL)
	defer ctrl.Finish()

	ms.EXPECT().
		CookiesByTelegramID(gomock.Any(), gomock.Any()).
		Return(&models.UserCookies{Cookies: encCookies(t, key, map[string]string{"sid": "x"})}, nil)

	body, err := s.HandleRequest(context.Background(), RequestInput{
		UserTelegramID: 1,
		EventType:      models.EventHomeworks,
	})
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.Empty(t, body)

	var st *StatusError
	require.True(t, errors.As(err, &st))
	require.Equal(t, http.StatusForbidden, st.Code)
	require.Contains(t, st.URL, "/student/homework/list")
}

// Контрактные ошибки роутера: сторадж не вызывается вовсе.
func TestHandleRequest_UnknownEventType(t *testing.T) {
	s, _, _, ctrl := newServiceWithMocks(t, "http://unused.local")
	defer ctrl.Finish()

	_, err := s.HandleRequest(context.Background(), RequestInput{
		UserTelegramID: 1,
		EventType:      models.EventType("login"),
	})
	require.ErrorIs(t, err, ErrUnknownEventType)

	_, err = s.HandleRequest(context.Background(), RequestInput{
		UserTelegramID: 1,
		EventType:      models.EventNewsIndividual, // без NewsID
	})
	require.ErrorIs(t, err, ErrUnknownEventType)
}

// Прочие ошибки стораджа маскируются в ErrInternal.
func TestHandleRequest_StorageInternalError(t *testing.T) {
	s, ms, _, ctrl := newServiceWithMocks(t, "http://unused.local")
	defer ctrl.Finish()

	ms.EXPECT().
		CookiesByTelegramID(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	_, err := s.HandleRequest(context.Background(), RequestInput{
		UserTelegramID: 1,
		EventType:      models.EventMarks,
	})
	require.ErrorIs(t, err, ErrInternal)
}
