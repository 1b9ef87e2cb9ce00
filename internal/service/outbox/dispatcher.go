// Package outbox доставляет кухонные тикеты из transactional outbox в брокер.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/metrics"
	"github.com/vladislavdragonenkov/restaurant/internal/notifier"
)

const (
	// ticketsPerPass ограничивает число тикетов, забираемых из outbox за один проход.
	ticketsPerPass = 100

	defaultInterval   = time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 50 * time.Millisecond
)

// Result — итог доставки: сколько тикетов ушло, сколько не ушло
// и сколько из не ушедших попало в dead letter topic.
type Result struct {
	Sent         int
	Failed       int
	DeadLettered int
}

func (r *Result) add(other Result) {
	r.Sent += other.Sent
	r.Failed += other.Failed
	r.DeadLettered += other.DeadLettered
}

// Empty сообщает, что за проход не было обработано ни одного тикета.
func (r Result) Empty() bool {
	return r.Sent+r.Failed == 0
}

// DeadLetter — payload тикета, не доставленного на кухню.
type DeadLetter struct {
	OutboxID  string          `json:"outbox_id"`
	OrderID   string          `json:"order_id"`
	Customer  string          `json:"customer,omitempty"`
	Dish      string          `json:"dish,omitempty"`
	EventType string          `json:"event_type"`
	Attempts  int             `json:"attempts"`
	Error     string          `json:"error"`
	Ticket    json.RawMessage `json:"ticket,omitempty"`
	FailedAt  time.Time       `json:"failed_at"`
}

// Config — параметры доставки.
type Config struct {
	Logger     *log.Entry
	DeadLetter domain.OutboxPublisher
	Metrics    *metrics.OutboxMetrics
	Interval   time.Duration
	Attempts   int
	RetryDelay time.Duration
	Now        func() time.Time
}

// Option настраивает Dispatcher.
type Option func(*Config)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(cfg *Config) { cfg.Logger = logger }
}

// WithDeadLetter задаёт publisher для тикетов, исчерпавших попытки.
func WithDeadLetter(publisher domain.OutboxPublisher) Option {
	return func(cfg *Config) { cfg.DeadLetter = publisher }
}

// WithMetrics задаёт метрики доставки.
func WithMetrics(m *metrics.OutboxMetrics) Option {
	return func(cfg *Config) { cfg.Metrics = m }
}

// WithInterval задаёт паузу между фоновыми проходами Run.
func WithInterval(interval time.Duration) Option {
	return func(cfg *Config) { cfg.Interval = interval }
}

// WithAttempts задаёт число попыток публикации одного тикета.
func WithAttempts(attempts int) Option {
	return func(cfg *Config) { cfg.Attempts = attempts }
}

// WithRetryDelay задаёт задержку перед второй попыткой; дальше она удваивается.
func WithRetryDelay(delay time.Duration) Option {
	return func(cfg *Config) { cfg.RetryDelay = delay }
}

// Dispatcher забирает pending-тикеты из outbox и публикует их на кухню.
type Dispatcher struct {
	repo       domain.OutboxRepository
	publisher  domain.OutboxPublisher
	deadLetter domain.OutboxPublisher
	metrics    *metrics.OutboxMetrics
	logger     *log.Entry
	interval   time.Duration
	attempts   int
	retryDelay time.Duration
	now        func() time.Time
}

// NewDispatcher создаёт Dispatcher поверх outbox-репозитория.
func NewDispatcher(repo domain.OutboxRepository, publisher domain.OutboxPublisher, options ...Option) *Dispatcher {
	cfg := Config{
		Interval:   defaultInterval,
		Attempts:   defaultAttempts,
		RetryDelay: defaultRetryDelay,
	}
	for _, option := range options {
		option(&cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = log.WithField("component", "kitchen-dispatcher")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewOutboxMetrics()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	cfg.RetryDelay = max(cfg.RetryDelay, 0)

	return &Dispatcher{
		repo:       repo,
		publisher:  publisher,
		deadLetter: cfg.DeadLetter,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		interval:   cfg.Interval,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		now:        cfg.Now,
	}
}

// Drain публикует тикеты, пока outbox не опустеет или не отменят ctx.
func (d *Dispatcher) Drain(ctx context.Context) Result {
	var total Result
	if d.repo == nil || d.publisher == nil {
		return total
	}

	for ctx.Err() == nil {
		pass := d.pass(ctx)
		if pass.Empty() {
			break
		}
		total.add(pass)
	}

	d.observeBacklog()
	return total
}

// Run периодически вызывает Drain до отмены ctx и возвращает суммарный итог.
// Тикеты, добавленные после старта, уходят на следующем тике.
func (d *Dispatcher) Run(ctx context.Context) Result {
	if d.repo == nil || d.publisher == nil {
		d.logger.Warn("kitchen dispatcher is disabled: outbox or publisher is nil")
		return Result{}
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	total := d.Drain(ctx)
	for {
		select {
		case <-ctx.Done():
			d.logger.WithFields(log.Fields{
				"sent":          total.Sent,
				"failed":        total.Failed,
				"dead_lettered": total.DeadLettered,
			}).Info("kitchen dispatcher stopped")
			return total
		case <-ticker.C:
			total.add(d.Drain(ctx))
		}
	}
}

// pass обрабатывает одну выборку pending-тикетов в порядке постановки.
func (d *Dispatcher) pass(ctx context.Context) Result {
	var result Result

	tickets, err := d.repo.PullPending(ticketsPerPass)
	if err != nil {
		d.logger.WithError(err).Warn("failed to pull pending kitchen tickets")
		return result
	}

	for _, msg := range tickets {
		if ctx.Err() != nil {
			break
		}

		entry := d.logger.WithFields(ticketFields(msg))
		if err := d.deliver(ctx, msg); err != nil {
			if ctx.Err() != nil {
				break
			}
			result.Failed++
			entry.WithError(err).Error("kitchen ticket was not delivered")
			if d.sendDeadLetter(msg, err, entry) {
				result.DeadLettered++
			}
			if err := d.repo.MarkFailed(msg.ID); err != nil {
				entry.WithError(err).Warn("failed to mark kitchen ticket as failed")
			}
			continue
		}

		result.Sent++
		entry.Debug("kitchen ticket delivered")
		if err := d.repo.MarkSent(msg.ID); err != nil {
			entry.WithError(err).Warn("failed to mark kitchen ticket as sent")
		}
	}

	return result
}

// deliver публикует тикет с экспоненциальной паузой между попытками.
func (d *Dispatcher) deliver(ctx context.Context, msg domain.OutboxMessage) error {
	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if lastErr = d.publisher.Publish(msg); lastErr == nil {
			d.metrics.RecordDelivery(metrics.DeliverySent)
			return nil
		}
		d.metrics.RecordDelivery(metrics.DeliveryRetry)

		if attempt == d.attempts {
			break
		}
		if err := sleepCtx(ctx, d.backoff(attempt)); err != nil {
			return err
		}
	}

	d.metrics.RecordDelivery(metrics.DeliveryFailed)
	return fmt.Errorf("%w: %d attempts: %w", domain.ErrOutboxPublish, d.attempts, lastErr)
}

// backoff возвращает паузу после attempt-й неудачной попытки.
func (d *Dispatcher) backoff(attempt int) time.Duration {
	delay := d.retryDelay
	for i := 1; i < attempt && delay > 0; i++ {
		if delay > time.Duration(1<<62) {
			return time.Duration(1<<63 - 1)
		}
		delay *= 2
	}
	return delay
}

// sendDeadLetter отправляет тикет в dead letter topic. Возвращает true при успехе.
func (d *Dispatcher) sendDeadLetter(msg domain.OutboxMessage, cause error, entry *log.Entry) bool {
	if d.deadLetter == nil {
		return false
	}

	letter := DeadLetter{
		OutboxID:  msg.ID,
		OrderID:   msg.AggregateID,
		EventType: msg.EventType,
		Attempts:  d.attempts,
		Error:     cause.Error(),
		Ticket:    json.RawMessage(msg.Payload),
		FailedAt:  d.now().UTC(),
	}
	if ticket, ok := decodeTicket(msg); ok {
		letter.Customer = ticket.Customer
		letter.Dish = ticket.Dish.Name
	}
	if !json.Valid(letter.Ticket) {
		letter.Ticket = nil
	}

	payload, err := json.Marshal(letter)
	if err == nil {
		dead := msg
		dead.Payload = payload
		err = d.deadLetter.Publish(dead)
	}
	if err != nil {
		d.metrics.RecordDelivery(metrics.DeliveryDeadLetterFailed)
		entry.WithError(err).Warn("failed to publish kitchen ticket to dead letter topic")
		return false
	}

	d.metrics.RecordDelivery(metrics.DeliveryDeadLettered)
	return true
}

func (d *Dispatcher) observeBacklog() {
	stats, err := d.repo.Stats()
	if err != nil {
		d.logger.WithError(err).Warn("failed to collect kitchen ticket backlog")
		return
	}
	d.metrics.SetBacklog(stats.PendingCount, stats.OldestPendingAt, d.now())
}

// ticketFields — поля лога для outbox-сообщения с кухонным тикетом.
func ticketFields(msg domain.OutboxMessage) log.Fields {
	fields := log.Fields{
		"outbox_id":  msg.ID,
		"order_id":   msg.AggregateID,
		"event_type": msg.EventType,
	}
	if ticket, ok := decodeTicket(msg); ok {
		fields["customer"] = ticket.Customer
		fields["dish"] = ticket.Dish.Name
	}
	return fields
}

func decodeTicket(msg domain.OutboxMessage) (notifier.KitchenTicket, bool) {
	var ticket notifier.KitchenTicket
	if msg.EventType != domain.KitchenEventDishAdded {
		return ticket, false
	}
	if err := json.Unmarshal(msg.Payload, &ticket); err != nil {
		return ticket, false
	}
	return ticket, true
}

func sleepCtx(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
