// Package models содержит доменные сущности orioks-requester.
package models

// EventType — закрытое перечисление типов событий ОРИОКС.
// Каждому значению соответствует ровно одна страница на orioks.miet.ru
// (см. internal/service/routes.go). Значения приходят из очереди строками,
// поэтому множество проверяется в рантайме через Known().
type EventType string

const (
	EventMarks                 EventType = "marks"
	EventHomeworks             EventType = "homeworks"
	EventRequestsQuestionnaire EventType = "requests-questionnaire"
	EventRequestsDoc           EventType = "requests-doc"
	EventRequestsReference     EventType = "requests-reference"
	EventNews                  EventType = "news"
	// EventNewsIndividual дополнительно требует NewsID для подстановки в URL.
	EventNewsIndividual EventType = "news-individual"
)

// Known сообщает, входит ли значение в закрытое множество типов событий.
func (e EventType) Known() bool {
	switch e {
	case EventMarks,
		EventHomeworks,
		EventRequestsQuestionnaire,
		EventRequestsDoc,
		EventRequestsReference,
		EventNews,
		EventNewsIndividual:
		return true
	}

	return false
}

// RequestMessage — полезная нагрузка RPC-запроса из очереди.
//   - UserTelegramID — идентификатор пользователя во внешней системе
//     уведомлений; передаётся без изменений.
//   - EventType — тип события (см. EventType).
//   - NewsID — обязателен только для news-individual.
type RequestMessage struct {
	UserTelegramID int64     `json:"user_telegram_id"`
	EventType      EventType `json:"event_type"`
	NewsID         int64     `json:"news_id,omitempty"`
}

// UserCookies — документ MongoDB (база users_data, коллекция cookies)
// с зашифрованными сессионными cookies пользователя ОРИОКС.
// Запись создаётся/перезаписывается компонентом логина; здесь — только чтение.
// Значения в Cookies — шифртексты Fernet (url-safe base64).
type UserCookies struct {
	UserTelegramID int64             `bson:"user_telegram_id"`
	Cookies        map[string]string `bson:"cookies"`
}
