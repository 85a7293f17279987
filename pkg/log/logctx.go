// Package log протаскивает *slog.Logger через context.Context.
// Обработчик задачи обогащает логгер (correlation_id, очередь) и кладёт
// его в контекст через Into; сервис и сторадж достают его через From,
// не зная ничего про транспорт.
package log

import (
	"context"
	"log/slog"
)

// ctxKey — непубличный тип ключа, исключает коллизии с чужими значениями.
type ctxKey struct{}

// Into возвращает копию ctx с привязанным логгером l.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From возвращает логгер, привязанный к ctx.
// Если логгера в контексте нет (или там лежит не *slog.Logger),
// возвращается slog.Default() — вызывающий код всегда получает рабочий логгер.
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}
