package application

import (
	"context"
	"sync"
	"time"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher persists notifications and, when a push channel is attached,
// requests delivery through it. Everything is fire-and-forget: delivery runs
// in its own goroutine with its own deadline, detached from the caller's
// context, and failures are logged rather than returned. A lost notification
// never rolls back or blocks the bid, closure or confirmation that caused it.
type Dispatcher struct {
	notifications domain.NotificationRepository
	push          domain.PushSender
	timeout       time.Duration
	now           NowFunc
	wg            sync.WaitGroup
}

// NewDispatcher wires the dispatcher. push may be nil.
func NewDispatcher(notifications domain.NotificationRepository, push domain.PushSender) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		push:          push,
		timeout:       10 * time.Second,
		now:           defaultNow,
	}
}

// Notify implements domain.Notifier. It returns immediately; the caller's
// context is deliberately not used for delivery so that a finished request
// cannot cancel an in-flight send.
func (d *Dispatcher) Notify(_ context.Context, recipientID uuid.UUID, role domain.RecipientRole, lotID uuid.UUID, kind domain.EventKind, message string) {
	n := domain.NewNotification(recipientID, role, lotID, kind, message, d.now())
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(n)
	}()
}

func (d *Dispatcher) deliver(n *domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notifications.Insert(ctx, n); err != nil {
		log.Error("failed to persist notification",
			zap.String("recipientID", n.RecipientID.String()),
			zap.String("lotID", n.LotID.String()),
			zap.String("kind", string(n.Kind)),
			zap.Error(err),
		)
	}

	if d.push != nil {
		if err := d.push.Push(ctx, n.RecipientID, n.Message); err != nil {
			log.Warn("push delivery failed",
				zap.String("recipientID", n.RecipientID.String()),
				zap.String("lotID", n.LotID.String()),
				zap.Error(err),
			)
		}
	}
}

// Flush blocks until all queued deliveries finish. Used at shutdown and in
// tests.
func (d *Dispatcher) Flush() {
	d.wg.Wait()
}
