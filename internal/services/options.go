package services

import (
	"context"
	"errors"
	"time"

	"gastos/internal/core"
	"gastos/internal/log"
)

// Transaction event names.
const (
	EventTransactionCreated = "created"
	EventTransactionUpdated = "updated"
	EventTransactionDeleted = "deleted"
)

// EventPublisher receives a notification after a transaction is persisted.
type EventPublisher interface {
	PublishTransaction(ctx context.Context, event string, t core.Transaction) error
}

type options struct {
	now    func() time.Time
	events EventPublisher
	logger *log.Logger
}

// Option configures a service.
type Option func(*options)

// WithClock sets the source of "today" used by the age rule.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithEvents sets the publisher notified after transaction writes.
func WithEvents(p EventPublisher) Option {
	return func(o *options) { o.events = p }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(component string, opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Discard()
	}
	o.logger = o.logger.WithComponent(component)
	return o
}

// validationMessage turns a domain validation error into caller text.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyName):
		return "Nome é obrigatório."
	case errors.Is(err, core.ErrEmptyDescription):
		return "Descrição é obrigatória."
	case errors.Is(err, core.ErrInvalidAmount):
		return "O valor deve ser maior que zero."
	case errors.Is(err, core.ErrAmountTooLarge):
		return MsgAmountTooLarge
	case errors.Is(err, core.ErrInvalidType):
		return "Tipo de transação é obrigatório."
	case errors.Is(err, core.ErrInvalidPurpose):
		return "Finalidade deve ser Despesa, Receita ou Ambas."
	case errors.Is(err, core.ErrInvalidDate):
		return "Data inválida."
	default:
		return err.Error()
	}
}
