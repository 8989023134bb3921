// Package amqp publishes transaction events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"gastos/internal/core"
	"gastos/internal/log"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures     = 5
	openTimeout     = 30 * time.Second
	maxBackoff      = 30 * time.Second
	connectAttempts = 5
	publishTimeout  = 5 * time.Second
)

// ErrCircuitOpen is returned while the breaker rejects publishes.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// channel is the subset of *amqp091.Channel the client uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type dialFunc func(url string) (channel, io.Closer, error)

func dialAMQP(url string) (channel, io.Closer, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, conn, nil
}

// Config names the broker and exchange. RoutingPrefix is joined with the
// event name, as in "transactions.created".
type Config struct {
	URL           string
	Exchange      string
	RoutingPrefix string
	Logger        *log.Logger
}

// Client publishes transaction events. It redials lazily after connection
// errors and stops trying for openTimeout after maxFailures in a row.
type Client struct {
	url           string
	exchangeName  string
	routingPrefix string
	logger        *log.Logger
	dial          dialFunc
	backoff       func(attempt int) time.Duration
	now           func() time.Time

	mu      sync.Mutex
	channel channel
	conn    io.Closer

	state        int32
	failureCount int64
	lastFailure  time.Time
}

// NewClient connects, retrying with exponential backoff, and declares the
// exchange.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	c := newClient(cfg, dialAMQP)
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func newClient(cfg Config, dial dialFunc) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{
		url:           cfg.URL,
		exchangeName:  cfg.Exchange,
		routingPrefix: cfg.RoutingPrefix,
		logger:        logger.WithComponent(log.ComponentAMQP),
		dial:          dial,
		backoff:       exponentialBackoff,
		now:           time.Now,
	}
}

func (c *Client) connect(ctx context.Context) error {
	var lastErr error
	for attempt := range connectAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}
		c.mu.Lock()
		lastErr = c.openLocked()
		c.mu.Unlock()
		if lastErr == nil {
			return nil
		}
		c.logger.WarnContext(ctx, "AMQP connection attempt failed", "attempt", attempt+1, log.FieldError, lastErr.Error())
	}
	return fmt.Errorf("connect after %d attempts: %w", connectAttempts, lastErr)
}

// openLocked dials and declares the exchange. c.mu must be held.
func (c *Client) openLocked() error {
	ch, conn, err := c.dial(c.url)
	if err != nil {
		return err
	}
	err = ch.ExchangeDeclare(
		c.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	c.channel, c.conn = ch, conn
	return nil
}

// RoutingKey returns the key an event is published with.
func (c *Client) RoutingKey(event string) string {
	if c.routingPrefix == "" {
		return event
	}
	return c.routingPrefix + "." + event
}

// PublishTransaction sends a persistent JSON TransactionEvent.
func (c *Client) PublishTransaction(ctx context.Context, event string, t core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return ErrCircuitOpen
	}

	msg := NewTransactionEvent(event, t, c.now())
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ch, err := c.currentChannel()
	if err != nil {
		c.recordFailure()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	key := c.RoutingKey(event)
	err = ch.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		key,            // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Type:         event,
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			c.dropChannel(ch)
		}
		return fmt.Errorf("publish message: %w", err)
	}
	c.recordSuccess()

	c.logger.DebugContext(ctx, "Published transaction event",
		"event", event,
		log.FieldTransactionID, t.ID,
		"exchange", c.exchangeName,
		"routing_key", key)
	return nil
}

// currentChannel returns the open channel, redialing once when it was
// dropped.
func (c *Client) currentChannel() (channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		return c.channel, nil
	}
	if c.dial == nil {
		return nil, errors.New("amqp client is not connected")
	}
	if err := c.openLocked(); err != nil {
		return nil, fmt.Errorf("reconnect: %w", err)
	}
	return c.channel, nil
}

func (c *Client) dropChannel(ch channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != ch {
		return
	}
	c.channel.Close()
	if c.conn != nil {
		c.conn.Close()
	}
	c.channel, c.conn = nil, nil
}

// Subscribe binds an exclusive queue to pattern (for example
// "transactions.#") and calls handler for each event until ctx ends.
// Undecodable messages are dropped; handler errors requeue the message.
func (c *Client) Subscribe(ctx context.Context, pattern string, handler func(context.Context, *TransactionEvent) error) error {
	ch, err := c.currentChannel()
	if err != nil {
		return err
	}

	q, err := ch.QueueDeclare(
		"",    // name, server generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, pattern, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	c.logger.InfoContext(ctx, "Subscribed to transaction events", "queue", q.Name, "pattern", pattern)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			msg, err := TransactionEventFromJSON(delivery.Body)
			if err != nil {
				c.logger.ErrorContext(ctx, "Failed to unmarshal message", log.FieldError, err.Error())
				_ = delivery.Nack(false, false)
				continue
			}
			if err := handler(ctx, msg); err != nil {
				c.logger.ErrorContext(ctx, "Failed to handle message", log.FieldError, err.Error(), log.FieldTransactionID, msg.ID)
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	c.mu.Lock()
	last := c.lastFailure
	c.mu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	n := atomic.AddInt64(&c.failureCount, 1)
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if n >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

// exponentialBackoff doubles from one second, capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	return min(time.Duration(1<<attempt)*time.Second, maxBackoff)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"connection", "EOF", "broken pipe", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Close closes the channel and connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
	}
	var err error
	if c.conn != nil {
		err = c.conn.Close()
	}
	c.channel, c.conn = nil, nil
	return err
}
