package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/logging"
	"github.com/justsurfingit/careerkit/internal/models"
)

// Broker publishes runs and updates and consumes runs over one AMQP
// connection. Each operation opens its own channel.
type Broker struct {
	conn *amqp.Connection
	log  *zap.Logger
}

func Dial(url string, log *zap.Logger) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	b := &Broker{conn: conn, log: logging.OrNop(log)}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()
	if err := declare(ch); err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

func (b *Broker) Close() error {
	return b.conn.Close()
}

func declare(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		RunsQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.ExchangeDeclare(UpdatesExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}

// PublishRun queues a stored run for the workers.
func (b *Broker) PublishRun(_ context.Context, run *models.Run) error {
	body, err := json.Marshal(NewJob(run))
	if err != nil {
		return err
	}
	return b.publish("", RunsQueue, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Notify publishes an update with routing key run.<id>.
func (b *Broker) Notify(runID string, u Update) error {
	body, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return b.publish(UpdatesExchange, RoutingKey(runID), amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func RoutingKey(runID string) string {
	return "run." + runID
}

func (b *Broker) publish(exchange, key string, msg amqp.Publishing) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return ch.Publish(exchange, key, false, false, msg)
}

// Consume runs a pool of workers until ctx is cancelled or the broker
// closes the deliveries.
func (b *Broker) Consume(ctx context.Context, workers int, p *Processor) error {
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := range workers {
		wg.Add(1)
		b.log.Info("worker started", zap.Int("worker", i+1))
		go func() {
			defer wg.Done()
			if err := b.work(ctx, i+1, p); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	return <-errs
}

func (b *Broker) work(ctx context.Context, id int, p *Processor) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()
	if err := declare(ch); err != nil {
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("error setting rabbitmq prefetch: %w", err)
	}

	msgs, err := ch.Consume(
		RunsQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq message: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			b.settle(ctx, id, p, msg)
		}
	}
}

// settle handles msg and acknowledges it once the run is recorded. A run
// cut short by shutdown is requeued for another worker.
func (b *Broker) settle(ctx context.Context, id int, p *Processor, msg amqp.Delivery) {
	err := p.Handle(ctx, msg.Body)
	if err != nil && ctx.Err() != nil {
		b.log.Info("requeueing interrupted run", zap.Int("worker", id))
		if err := msg.Nack(false, true); err != nil {
			b.log.Warn("failed to requeue run", zap.Int("worker", id), zap.Error(err))
		}
		return
	}
	if err != nil {
		b.log.Warn("run ended with error", zap.Int("worker", id), zap.Error(err))
	}
	if err := msg.Ack(false); err != nil {
		b.log.Warn("failed to ack run", zap.Int("worker", id), zap.Error(err))
	}
}
