package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/google/uuid"
	"github.com/orioks-monitoring/orioks-requester/internal/config"
	"github.com/orioks-monitoring/orioks-requester/internal/models"
)

var (
	// ErrCallTimeout — воркер не ответил за отведённое время.
	// Отличим от удалённой ошибки: та приходит в конверте ответа.
	// Таймаут отменяет только ожидание клиента; задача на стороне
	// воркера продолжает выполняться до завершения.
	ErrCallTimeout = errors.New("rpc call timed out")
)

// Client — RPC-клиент очереди.
//
// Использование:
//
//	client, err := rabbitmq.NewClient(cfg)
//	...
//	defer client.Close()
//	body, err := client.Call(ctx, models.RequestMessage{
//		UserTelegramID: 123456789,
//		EventType:      models.EventMarks,
//	})
type Client struct {
	cfg        *config.Config
	conn       *amqp.Connection
	ch         *amqp.Channel
	replyQueue string
	deliveries <-chan amqp.Delivery

	// Канал ответов один на клиента, поэтому вызовы сериализуются.
	mu sync.Mutex
}

// NewClient подключается к брокеру и объявляет эксклюзивную очередь ответов
// (одна на клиента, живёт до закрытия соединения).
func NewClient(cfg *config.Config) (*Client, error) {
	const op = "transport/rabbitmq/NewClient"

	conn, err := amqp.DialConfig(cfg.AMQP.URL, amqp.Config{
		Properties: amqp.Table{"connection_name": "caller"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: channel: %w", op, err)
	}

	q, err := ch.QueueDeclare(
		"",    // имя сгенерирует брокер
		false, // durable
		true,  // autoDelete
		true,  // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: reply queue declare: %w", op, err)
	}

	deliveries, err := ch.Consume(
		q.Name,
		"",   // consumer tag
		true, // autoAck: ответы не переигрываются
		true, // exclusive
		false,
		false,
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: consume: %w", op, err)
	}

	return &Client{
		cfg:        cfg,
		conn:       conn,
		ch:         ch,
		replyQueue: q.Name,
		deliveries: deliveries,
	}, nil
}

// Close закрывает соединение с брокером.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call отправляет задачу воркеру и ждёт ответ не дольше дедлайна ctx
// (при его отсутствии — cfg.Timeouts.Call). Истечение ожидания — ErrCallTimeout.
// Ошибка, пришедшая в конверте ответа, декодируется обратно в sentinel-ошибки
// internal/service.
func (c *Client) Call(ctx context.Context, msg models.RequestMessage) (string, error) {
	const op = "transport/rabbitmq/Call"

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeouts.Call)
		defer cancel()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("%s: marshal: %w", op, err)
	}

	corrID := uuid.NewString()

	err = c.ch.PublishWithContext(ctx,
		"", // default exchange
		c.cfg.AMQP.Queue,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: corrID,
			ReplyTo:       c.replyQueue,
			DeliveryMode:  amqp.Persistent,
			Body:          body,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%s: publish: %w", op, err)
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", fmt.Errorf("%s: %w", op, ErrCallTimeout)
			}
			return "", fmt.Errorf("%s: %w", op, ctx.Err())
		case d, ok := <-c.deliveries:
			if !ok {
				return "", fmt.Errorf("%s: reply channel closed", op)
			}

			// Запоздавший ответ предыдущего (истёкшего) вызова — пропускаем.
			if d.CorrelationId != corrID {
				continue
			}

			var rep reply
			if err := json.Unmarshal(d.Body, &rep); err != nil {
				return "", fmt.Errorf("%s: unmarshal reply: %w", op, err)
			}

			if rep.Error != nil {
				return "", fmt.Errorf("%s: %w", op, errorFromReply(rep.Error))
			}

			return rep.Body, nil
		}
	}
}
