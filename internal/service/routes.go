package service

import (
	"fmt"
	"strings"

	"github.com/orioks-monitoring/orioks-requester/internal/models"
)

// Страницы ОРИОКС по типам событий. Пути и query-строки повторяют
// страницы уведомлений orioks.miet.ru один в один.
const (
	marksPath     = "/student/student"
	homeworksPath = "/student/homework/list"
	questionnairePath = "/request/questionnaire/list" +
		"?AnketaTreadForm[status]=1,2,4,6,3,5,7&AnketaTreadForm[accept]=-1"
	docPath = "/request/doc/list" +
		"?DocThreadForm[status]=1,2,4,6,3,5,7&DocThreadForm[type]=0"
	referencePath = "/request/reference/list" +
		"?ReferenceThreadForm[status]=1,2,4,6,3,5,7"
	newsItemPathFmt = "/main/view-news?id=%d"
)

// resolveURL — чистая маршрутизация: тип события (и, для news-individual,
// идентификатор новости) -> абсолютный URL страницы.
//
// Контракт:
//   - event должен входить в закрытое множество models.EventType,
//     иначе ErrUnknownEventType;
//   - newsID обязателен (> 0) только для news-individual; для остальных
//     типов игнорируется.
func resolveURL(base string, event models.EventType, newsID int64) (string, error) {
	base = strings.TrimRight(base, "/")

	switch event {
	case models.EventMarks:
		return base + marksPath, nil
	case models.EventHomeworks:
		return base + homeworksPath, nil
	case models.EventRequestsQuestionnaire:
		return base + questionnairePath, nil
	case models.EventRequestsDoc:
		return base + docPath, nil
	case models.EventRequestsReference:
		return base + referencePath, nil
	case models.EventNews:
		// Свежие новости видны прямо на главной.
		return base + "/", nil
	case models.EventNewsIndividual:
		if newsID <= 0 {
			return "", fmt.Errorf("news id is required for %q: %w", event, ErrUnknownEventType)
		}
		return base + fmt.Sprintf(newsItemPathFmt, newsID), nil
	default:
		return "", fmt.Errorf("%q: %w", event, ErrUnknownEventType)
	}
}
