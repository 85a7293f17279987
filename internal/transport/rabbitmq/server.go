package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/google/uuid"
	"github.com/orioks-monitoring/orioks-requester/internal/config"
	"github.com/orioks-monitoring/orioks-requester/internal/models"
	"github.com/orioks-monitoring/orioks-requester/internal/service"
	"github.com/orioks-monitoring/orioks-requester/pkg/log"
)

// Server — RPC-сервер воркера поверх RabbitMQ.
// Регистрирует долговечную очередь и обрабатывает задачи строго по одной:
// prefetch=1 — явная политика обратного давления, лишние задачи ждут
// в очереди брокера и достаются свободным процессам-воркерам.
type Server struct {
	cfg *config.Config
	svc *service.Service
	log *slog.Logger
}

// NewServer создаёт сервер поверх готового сервиса.
func NewServer(svc *service.Service, cfg *config.Config, lg *slog.Logger) *Server {
	if lg == nil {
		lg = slog.Default()
	}

	return &Server{cfg: cfg, svc: svc, log: lg}
}

// Serve подключается к брокеру и блокируется до отмены ctx.
// Соединение закрывается на всех путях выхода, включая ошибочные.
func (s *Server) Serve(ctx context.Context) error {
	const op = "transport/rabbitmq/Serve"

	conn, err := amqp.DialConfig(s.cfg.AMQP.URL, amqp.Config{
		Properties: amqp.Table{"connection_name": "callee"},
	})
	if err != nil {
		return fmt.Errorf("%s: dial: %w", op, err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%s: channel: %w", op, err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		s.cfg.AMQP.Queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: queue declare: %w", op, err)
	}

	// Не более одной неподтверждённой задачи на процесс.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("%s: qos: %w", op, err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx,
		q.Name,
		"",    // consumer tag
		false, // autoAck: подтверждаем после отправки ответа
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: consume: %w", op, err)
	}

	s.log.Info("rpc_serve_start", slog.String("queue", q.Name))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("rpc_serve_stop")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("%s: delivery channel closed", op)
			}
			s.handleDelivery(ctx, ch, d)
		}
	}
}

// handleDelivery обрабатывает одну задачу: дедлайн, контекстный логгер,
// ответ в reply_to с корреляционным идентификатором, ack после ответа.
func (s *Server) handleDelivery(ctx context.Context, ch *amqp.Channel, d amqp.Delivery) {
	start := time.Now()

	rid := d.CorrelationId
	if rid == "" {
		rid = uuid.NewString()
	}

	lg := s.log.With(
		slog.String("correlation_id", rid),
		slog.String("queue", s.cfg.AMQP.Queue),
	)
	ctx = log.Into(ctx, lg)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeouts.Service)
	defer cancel()

	rep, eventType := s.handle(ctx, d.Body)

	out, err := json.Marshal(rep)
	if err != nil {
		lg.Error("reply_marshal_failed", slog.String("err", err.Error()))
		out = []byte(`{"error":{"kind":"internal","message":"internal error"}}`)
	}

	if d.ReplyTo != "" {
		err := ch.PublishWithContext(ctx,
			"", // default exchange
			d.ReplyTo,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				CorrelationId: d.CorrelationId,
				Body:          out,
			},
		)
		if err != nil {
			lg.Error("reply_publish_failed", slog.String("err", err.Error()))
		}
	}

	if err := d.Ack(false); err != nil {
		lg.Error("ack_failed", slog.String("err", err.Error()))
	}

	outcome := "ok"
	if rep.Error != nil {
		outcome = rep.Error.Kind
	}

	tasksTotal.WithLabelValues(eventType, outcome).Inc()
	taskDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())

	lg.Info("task",
		slog.String("event_type", eventType),
		slog.String("outcome", outcome),
		slog.Duration("dur", time.Since(start)),
	)
}

// handle выполняет задачу и формирует конверт ответа.
// Паника внутри обработчика превращается во внутреннюю ошибку ответа,
// воркер продолжает обслуживать очередь.
func (s *Server) handle(ctx context.Context, body []byte) (rep *reply, eventType string) {
	lg := log.From(ctx)

	defer func() {
		if r := recover(); r != nil {
			lg.Error("panic_recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			rep = &reply{Error: &replyError{Kind: kindInternal, Message: "internal error"}}
		}
	}()

	var msg models.RequestMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		lg.Warn("bad_request", slog.String("err", err.Error()))
		return &reply{Error: &replyError{Kind: kindBadRequest, Message: "malformed request payload"}}, "invalid"
	}

	// Метка event_type для метрик берётся только из закрытого набора:
	// произвольная строка из payload не должна плодить временные ряды.
	eventType = string(msg.EventType)
	if !msg.EventType.Known() {
		eventType = "unknown"
	}

	res, err := s.svc.HandleRequest(ctx, service.RequestInput{
		UserTelegramID: msg.UserTelegramID,
		EventType:      msg.EventType,
		NewsID:         msg.NewsID,
	})
	if err != nil {
		return &reply{Error: errorReply(err)}, eventType
	}

	return &reply{Body: res}, eventType
}
