package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const maxReconnectDelay = 30 * time.Second

// ErrNoChannel — канал недоступен (соединение разорвано или закрыто).
var ErrNoChannel = errors.New("no amqp channel available")

// Connection — AMQP соединение с автоматическим переподключением.
//
// Канал защищён мьютексом: amqp.Channel не поддерживает
// конкурентную публикацию.
type Connection struct {
	url    string
	logger *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool

	done chan struct{}
}

// Dial устанавливает соединение с RabbitMQ и запускает наблюдение за ним.
func Dial(url string, logger *slog.Logger) (*Connection, error) {
	c := &Connection{
		url:    url,
		logger: logger,
		done:   make(chan struct{}),
	}

	conn, err := c.open()
	if err != nil {
		return nil, err
	}

	go c.watch(conn)

	return c, nil
}

// open открывает соединение и канал и сохраняет их.
func (c *Connection) open() (*amqp.Connection, error) {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()

	c.logger.Info("connected to RabbitMQ")
	return conn, nil
}

// watch ждёт разрыва соединения и переподключается.
func (c *Connection) watch(conn *amqp.Connection) {
	for {
		notifyClose := conn.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-c.done:
			return
		case err, ok := <-notifyClose:
			if !ok {
				// Закрыто штатно через Close.
				return
			}
			c.logger.Warn("connection closed", "error", err)
		}

		c.mu.Lock()
		c.channel = nil
		c.mu.Unlock()

		next, ok := c.reconnect()
		if !ok {
			return
		}
		conn = next
	}
}

// reconnect повторяет подключение с экспоненциальной задержкой.
// Возвращает false, если соединение закрыто через Close.
func (c *Connection) reconnect() (*amqp.Connection, bool) {
	delay := time.Second

	for {
		c.logger.Info("attempting to reconnect", "delay", delay)

		select {
		case <-c.done:
			return nil, false
		case <-time.After(delay):
		}

		conn, err := c.open()
		if err == nil {
			c.logger.Info("reconnected to RabbitMQ")
			return conn, true
		}

		c.logger.Warn("reconnect failed", "error", err)
		delay = min(delay*2, maxReconnectDelay)
	}
}

// WithChannel выполняет fn с текущим каналом.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.channel == nil {
		return ErrNoChannel
	}
	return fn(c.channel)
}

// IsConnected проверяет, установлено ли соединение.
func (c *Connection) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil && !c.conn.IsClosed() && c.channel != nil
}

// Close закрывает канал и соединение.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	c.logger.Info("connection closed")
	return errors.Join(errs...)
}
