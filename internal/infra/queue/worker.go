package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

// NewLeadNotifier entrega o aviso de novo lead ao profissional (email).
type NewLeadNotifier interface {
	NotifyNewLead(ctx context.Context, to *entity.User, payload LeadCapturedPayload) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel   Consumer
	UserRepo  entity.UserRepositoryInterface
	Notifiers []NewLeadNotifier
}

func NewWorker(ch Consumer, userRepo entity.UserRepositoryInterface, notifiers ...NewLeadNotifier) *Worker {
	return &Worker{
		Channel:   ch,
		UserRepo:  userRepo,
		Notifiers: notifiers,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	log := logger.GetLogger()

	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Info("worker aguardando na fila", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			log.Info("worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Warn("canal de entregas fechado")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

// handle dá ack no sucesso e nack sem requeue em qualquer falha, para a
// mensagem seguir para a DLQ sem travar a fila.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	log := logger.GetLogger()

	var payload LeadCapturedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		log.Error("payload inválido na fila", zap.Error(err))
		d.Nack(false, false)
		return
	}

	log = log.With(zap.String("lead_id", payload.LeadID), zap.String("user_id", payload.UserID))

	if err := w.process(ctx, payload); err != nil {
		log.Error("falha ao notificar novo lead", zap.Error(err))
		d.Nack(false, false)
		return
	}

	log.Info("profissional notificado do novo lead")
	d.Ack(false)
}

func (w *Worker) process(ctx context.Context, payload LeadCapturedPayload) error {
	if payload.UserID == "" || payload.LeadID == "" {
		return errors.New("payload sem lead_id ou user_id")
	}

	user, err := w.UserRepo.FindByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("usuário do lead: %w", err)
	}

	// Nack só quando todos os canais falham.
	var errs []error
	for _, n := range w.Notifiers {
		if err := n.NotifyNewLead(ctx, user, payload); err != nil {
			logger.GetLogger().Warn("canal de notificação falhou", zap.String("user_id", user.ID), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if len(w.Notifiers) > 0 && len(errs) == len(w.Notifiers) {
		return errors.Join(errs...)
	}
	return nil
}
