package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// LifecycleDeps are the collaborators shared by the manual order operations.
type LifecycleDeps struct {
	UoWFactory   UoWFactory
	Events       ports.OrderEventPublisher
	Clock        Clock
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

// lifecycle runs one single-order operation: one transaction, errors surfaced
// to the caller unchanged, events published after commit.
type lifecycle struct {
	uowFactory   UoWFactory
	events       ports.OrderEventPublisher
	clock        Clock
	storeTimeout time.Duration
	logger       *slog.Logger
}

func newLifecycle(deps LifecycleDeps, operation string) lifecycle {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	timeout := deps.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return lifecycle{
		uowFactory:   deps.UoWFactory,
		events:       deps.Events,
		clock:        clock,
		storeTimeout: timeout,
		logger:       logger.With("component", "order-lifecycle", "operation", operation),
	}
}

func (l lifecycle) inTransaction(ctx context.Context, fn func(ctx context.Context, uow UoW) error) error {
	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(ctx, uow); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	publishChanges(ctx, l.storeTimeout, l.events, l.logger, uow)
	return nil
}

// publishChanges is best effort: a committed transition is never undone
// because the event sink is unavailable. Publication is detached from the
// caller but bounded by timeout.
func publishChanges(
	ctx context.Context,
	timeout time.Duration,
	events ports.OrderEventPublisher,
	logger *slog.Logger,
	uow ChangeTracker,
) {
	if events == nil {
		return
	}
	changed := uow.ChangedOrders()
	if len(changed) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := events.PublishOrderChanged(ctx, changed...); err != nil {
		logger.WarnContext(ctx, "failed to publish order changes", "orders", len(changed), "error", err)
	}
}

// settleAgent is called once an order of the agent's batch left flight
// (delivered or cancelled). The agent is released when nothing of its batch
// remains in flight; otherwise the anchor moves to the oldest remaining order
// if it pointed at one that left.
func settleAgent(ctx context.Context, uow UoW, agentID kernel.UUID) error {
	agents := uow.AgentRepository()

	a, err := agents.Get(ctx, agentID)
	if err != nil {
		return err
	}

	remaining, err := uow.OrderRepository().FindInFlightByAgent(ctx, agentID)
	if err != nil {
		return err
	}

	switch {
	case len(remaining) == 0:
		if a.Status().IsBusy() {
			if err = a.Release(); err != nil {
				return err
			}
		}
	case !anchorStillInFlight(a.AssignedOrderID(), remaining):
		if err = a.Reanchor(remaining[0].ID()); err != nil {
			return err
		}
	}

	return agents.Update(ctx, a)
}
