package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"cronicas-api/internal/model"
)

// AuditStore persists decoded audit events.
type AuditStore interface {
	Create(ctx context.Context, event *model.AuditEvent) error
}

// AuditPersistWorker drains the audit queue into the database.
type AuditPersistWorker struct {
	conn      *amqp.Connection
	store     AuditStore
	queueName string
	log       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAuditPersistWorker(conn *amqp.Connection, store AuditStore, queueName string, log *slog.Logger) *AuditPersistWorker {
	if log == nil {
		log = slog.Default()
	}
	return &AuditPersistWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		log:       log.With("component", "audit_worker", "queue", queueName),
	}
}

func (w *AuditPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn("audit.deliveries_closed")
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	w.log.Info("audit.worker_started")
	return nil
}

// Acknowledger is the subset of amqp.Delivery used to settle a message.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *AuditPersistWorker) handle(ctx context.Context, d amqp.Delivery) {
	w.process(ctx, d.Body, d.Redelivered, d)
}

// process decodes and stores one payload. Malformed payloads are dropped; storage errors
// are requeued once before being dropped.
func (w *AuditPersistWorker) process(ctx context.Context, body []byte, redelivered bool, ack Acknowledger) {
	var event model.AuditEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.log.Error("audit.decode_failed", "err", err)
		_ = ack.Nack(false, false)
		return
	}
	event.ID = 0

	if err := w.store.Create(ctx, &event); err != nil {
		w.log.Error("audit.persist_failed", "action", event.Action, "err", err)
		_ = ack.Nack(false, !redelivered)
		return
	}
	_ = ack.Ack(false)
}

func (w *AuditPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
