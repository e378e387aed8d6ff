package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const tracerName = "dispatch/dispatch"

// DispatchPassDeps wires a RunDispatchPassCommandHandler.
type DispatchPassDeps struct {
	UoWFactory   UoWFactory
	Events       ports.OrderEventPublisher
	Lock         ports.PassLock
	Metrics      PassMetrics
	Clock        Clock
	StoreTimeout time.Duration
	Logger       *slog.Logger

	Eligibility services.EligibilityFilter
	Clusterer   services.Clusterer
	Policy      services.AssignmentPolicy
}

// RunDispatchPassCommandHandler runs dispatch passes: select eligible orders,
// cluster them, and assign each cluster to an agent in its own transaction.
//
// Passes never overlap and are not cancelled by their caller. Concurrent
// callers inside one process share the in-flight pass and its report; across
// processes the PassLock decides, and a pass that cannot take it is reported
// as skipped.
//
// A failing cluster never fails the pass: no-match, lost races and store
// errors are recorded per cluster and the remaining clusters proceed.
type RunDispatchPassCommandHandler struct {
	deps   DispatchPassDeps
	group  singleflight.Group
	tracer trace.Tracer
	logger *slog.Logger
}

func NewRunDispatchPassCommandHandler(deps DispatchPassDeps) *RunDispatchPassCommandHandler {
	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	if deps.StoreTimeout <= 0 {
		deps.StoreTimeout = DefaultStoreTimeout
	}
	if deps.Metrics == nil {
		deps.Metrics = noopPassMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &RunDispatchPassCommandHandler{
		deps:   deps,
		tracer: otel.Tracer(tracerName),
		logger: deps.Logger.With("component", "dispatch"),
	}
}

func (h *RunDispatchPassCommandHandler) Handle(ctx context.Context, command RunDispatchPassCommand) (PassReport, error) {
	if err := command.Validate(); err != nil {
		return PassReport{}, err
	}

	// A started pass runs to completion; only the per-store timeouts bound it.
	passCtx := context.WithoutCancel(ctx)
	v, err, shared := h.group.Do("dispatch-pass", func() (any, error) {
		return h.run(passCtx, command.Trigger())
	})
	if shared {
		h.logger.DebugContext(ctx, "joined in-flight dispatch pass", "trigger", command.Trigger())
	}
	if err != nil {
		return PassReport{}, err
	}

	return v.(PassReport), nil
}

func (h *RunDispatchPassCommandHandler) run(ctx context.Context, trigger string) (PassReport, error) {
	report := PassReport{Trigger: trigger, StartedAt: h.deps.Clock()}

	ctx, span := h.tracer.Start(ctx, "dispatch.pass", trace.WithAttributes(attribute.String("dispatch.trigger", trigger)))
	defer span.End()

	if h.deps.Lock != nil {
		acquired, err := h.deps.Lock.TryAcquire(ctx)
		if err != nil {
			h.fail(ctx, span, report, err)
			return PassReport{}, fmt.Errorf("acquire dispatch lock: %w", err)
		}
		if !acquired {
			report.Skipped = true
			report.FinishedAt = h.deps.Clock()
			h.deps.Metrics.ObservePass(PassSkipped, report.Duration(), 0)
			h.logger.InfoContext(ctx, "dispatch pass skipped, lock held elsewhere", "trigger", trigger)
			return report, nil
		}
		defer func() {
			if err := h.deps.Lock.Release(context.WithoutCancel(ctx)); err != nil {
				h.logger.WarnContext(ctx, "failed to release dispatch lock", "error", err)
			}
		}()
	}

	pending, candidates, err := h.loadCandidates(ctx, &report)
	if err != nil {
		h.fail(ctx, span, report, err)
		return PassReport{}, err
	}
	report.Pending = pending

	for _, ex := range report.Excluded {
		h.deps.Metrics.ObserveExclusion(ex.Reason())
		h.logger.WarnContext(ctx, "order excluded from dispatch",
			"order_id", ex.OrderID.String(), "reason", ex.Reason(), "error", ex.Err)
	}

	remaining := candidates
	for len(remaining) > 0 {
		cluster := h.deps.Clusterer.Build(remaining[0], remaining)
		remaining = services.Without(remaining, cluster)

		outcome := h.assignCluster(ctx, cluster)
		h.deps.Metrics.ObserveCluster(outcome.Result, outcome.Mode.String(), len(outcome.OrderIDs))
		report.Clusters = append(report.Clusters, outcome)
	}

	report.FinishedAt = h.deps.Clock()
	h.deps.Metrics.ObservePass(PassCompleted, report.Duration(), report.Eligible)

	span.SetAttributes(
		attribute.Int("dispatch.eligible", report.Eligible),
		attribute.Int("dispatch.clusters", len(report.Clusters)),
		attribute.Int("dispatch.assigned_orders", report.AssignedOrders()),
	)
	h.logger.InfoContext(ctx, "dispatch pass completed",
		"trigger", trigger,
		"pending", report.Pending,
		"eligible", report.Eligible,
		"excluded", len(report.Excluded),
		"clusters", len(report.Clusters),
		"assigned_orders", report.AssignedOrders(),
		"unmatched_clusters", report.CountClusters(ClusterNoAgent),
		"conflicts", report.CountClusters(ClusterConflict),
		"duration", report.Duration(),
	)

	return report, nil
}

func (h *RunDispatchPassCommandHandler) fail(ctx context.Context, span trace.Span, report PassReport, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	h.deps.Metrics.ObservePass(PassFailed, h.deps.Clock().Sub(report.StartedAt), report.Eligible)
	h.logger.ErrorContext(ctx, "dispatch pass failed", "trigger", report.Trigger, "error", err)
}

// loadCandidates reads pending orders and the catalog rows they reference
// outside of any transaction. Writes happen per cluster, re-reading each order.
func (h *RunDispatchPassCommandHandler) loadCandidates(
	ctx context.Context,
	report *PassReport,
) (int, []services.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, h.deps.StoreTimeout)
	defer cancel()

	uow := h.deps.UoWFactory.Create()

	pending, err := uow.OrderRepository().FindByStatus(ctx, order.PendingAssignment)
	if err != nil {
		return 0, nil, fmt.Errorf("load pending orders: %w", err)
	}

	eligible := h.deps.Eligibility.Select(pending, report.StartedAt)
	report.Eligible = len(eligible)
	if len(eligible) == 0 {
		return len(pending), nil, nil
	}

	cat, err := loadCatalog(ctx, uow, eligible)
	if err != nil {
		return 0, nil, err
	}

	candidates, excluded := h.deps.Eligibility.Resolve(eligible, cat, report.StartedAt)
	report.Excluded = excluded

	return len(pending), candidates, nil
}

func loadCatalog(ctx context.Context, uow CatalogRepoFactory, orders []*order.Order) (services.Catalog, error) {
	var warehouseIDs, productIDs []kernel.UUID
	seenWarehouse := make(map[kernel.UUID]struct{})
	seenProduct := make(map[kernel.UUID]struct{})

	for _, o := range orders {
		if id := o.WarehouseID(); id != nil {
			if _, ok := seenWarehouse[*id]; !ok {
				seenWarehouse[*id] = struct{}{}
				warehouseIDs = append(warehouseIDs, *id)
			}
		}
		if _, ok := seenProduct[o.ProductID()]; !ok {
			seenProduct[o.ProductID()] = struct{}{}
			productIDs = append(productIDs, o.ProductID())
		}
	}

	warehouses, err := uow.WarehouseRepository().FindByIDs(ctx, warehouseIDs)
	if err != nil {
		return services.Catalog{}, fmt.Errorf("load warehouses: %w", err)
	}

	products, err := uow.ProductRepository().FindByIDs(ctx, productIDs)
	if err != nil {
		return services.Catalog{}, fmt.Errorf("load products: %w", err)
	}

	cat := services.Catalog{
		Warehouses: make(map[kernel.UUID]*catalog.Warehouse, len(warehouses)),
		Products:   make(map[kernel.UUID]*catalog.Product, len(products)),
	}
	for _, w := range warehouses {
		cat.Warehouses[w.ID()] = w
	}
	for _, p := range products {
		cat.Products[p.ID()] = p
	}

	return cat, nil
}

func (h *RunDispatchPassCommandHandler) assignCluster(ctx context.Context, cluster services.Cluster) ClusterOutcome {
	outcome := ClusterOutcome{
		AnchorOrderID: cluster.Anchor.ID(),
		OrderIDs:      cluster.OrderIDs(),
		Capacity:      cluster.Capacity(),
		TotalWeightKg: cluster.TotalWeightKg(),
	}

	ctx, span := h.tracer.Start(ctx, "dispatch.cluster", trace.WithAttributes(
		attribute.String("dispatch.anchor_order_id", outcome.AnchorOrderID.String()),
		attribute.Int("dispatch.cluster_size", len(outcome.OrderIDs)),
		attribute.String("dispatch.capacity", outcome.Capacity.String()),
	))
	defer span.End()

	logger := h.logger.With(
		"anchor_order_id", outcome.AnchorOrderID.String(),
		"orders", len(outcome.OrderIDs),
		"capacity", outcome.Capacity.String(),
		"total_weight_kg", outcome.TotalWeightKg,
	)

	err := h.assignClusterInTx(ctx, cluster, &outcome)

	switch {
	case err == nil:
		span.SetAttributes(attribute.String("dispatch.mode", outcome.Mode.String()))
		if outcome.Result == ClusterStale {
			logger.InfoContext(ctx, "cluster no longer pending")
			return outcome
		}
		outcome.Result = ClusterAssigned
		logger.InfoContext(ctx, "cluster assigned",
			"agent_id", outcome.AgentID.String(),
			"mode", outcome.Mode.String(),
			"distance_km", outcome.DistanceKm,
			"order_ids", idStrings(outcome.OrderIDs),
		)
	case errors.Is(err, services.ErrNoEligibleAgent):
		outcome.Result = ClusterNoAgent
		outcome.Err = err
		logger.WarnContext(ctx, "no eligible agent for cluster", "order_ids", idStrings(outcome.OrderIDs))
	case errors.Is(err, errs.ErrConcurrentModification):
		outcome.Result = ClusterConflict
		outcome.Err = err
		outcome.AgentID = nil
		outcome.Mode = services.ModeNone
		logger.WarnContext(ctx, "cluster skipped after concurrent modification", "error", err)
	default:
		outcome.Result = ClusterFailed
		outcome.Err = err
		outcome.AgentID = nil
		outcome.Mode = services.ModeNone
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "cluster assignment failed", "error", err)
	}

	return outcome
}

func (h *RunDispatchPassCommandHandler) assignClusterInTx(
	ctx context.Context,
	cluster services.Cluster,
	outcome *ClusterOutcome,
) error {
	ctx, cancel := context.WithTimeout(ctx, h.deps.StoreTimeout)
	defer cancel()

	uow := h.deps.UoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	agents := uow.AgentRepository()

	cluster, ok, err := refreshCluster(ctx, orders, cluster)
	if err != nil {
		return err
	}
	if !ok {
		outcome.Result = ClusterStale
		return nil
	}
	outcome.AnchorOrderID = cluster.Anchor.ID()
	outcome.OrderIDs = cluster.OrderIDs()

	busy, err := h.loadBusyAgents(ctx, orders, agents, cluster.Capacity())
	if err != nil {
		return err
	}

	available, err := agents.FindByStatus(ctx, agent.Available)
	if err != nil {
		return err
	}

	now := h.deps.Clock()

	decision, err := h.deps.Policy.Decide(cluster, busy, available, now)
	if err != nil {
		return err
	}

	if err = h.deps.Policy.Apply(cluster, decision, now); err != nil {
		return err
	}

	for _, o := range cluster.Orders() {
		if err = orders.Update(ctx, o); err != nil {
			return err
		}
	}

	// The agent row is written even when reused so that its version guards
	// against a concurrent release of the same agent.
	if err = agents.Update(ctx, decision.Agent); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	agentID := decision.Agent.ID()
	outcome.Mode = decision.Mode
	outcome.AgentID = &agentID
	outcome.DistanceKm = decision.DistanceKm

	publishChanges(ctx, h.deps.StoreTimeout, h.deps.Events, h.logger, uow)
	return nil
}

// refreshCluster re-reads every member inside the transaction and drops the
// ones that left PENDING_ASSIGNMENT since the pass started.
func refreshCluster(
	ctx context.Context,
	orders ports.OrderRepository,
	cluster services.Cluster,
) (services.Cluster, bool, error) {
	fresh := make(map[kernel.UUID]*order.Order, len(cluster.Members))
	for _, m := range cluster.Members {
		o, err := orders.Get(ctx, m.ID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return services.Cluster{}, false, err
		}
		if o.Status() == order.PendingAssignment {
			fresh[o.ID()] = o
		}
	}

	refreshed, ok := cluster.Retain(func(c services.Candidate) bool {
		_, ok := fresh[c.ID()]
		return ok
	})
	if !ok {
		return services.Cluster{}, false, nil
	}

	for i := range refreshed.Members {
		refreshed.Members[i].Order = fresh[refreshed.Members[i].ID()]
	}
	refreshed.Anchor = refreshed.Members[0]

	return refreshed, true, nil
}

func (h *RunDispatchPassCommandHandler) loadBusyAgents(
	ctx context.Context,
	orders ports.OrderRepository,
	agents ports.AgentRepository,
	capacity kernel.Capacity,
) ([]services.BusyAgent, error) {
	assigned, err := agents.FindByStatus(ctx, agent.Assigned)
	if err != nil {
		return nil, err
	}

	busy := make([]services.BusyAgent, 0, len(assigned))
	for _, a := range assigned {
		if !a.CanCarry(capacity) || a.Location() == nil {
			continue
		}

		inFlight, err := orders.FindInFlightByAgent(ctx, a.ID())
		if err != nil {
			return nil, err
		}

		busy = append(busy, services.BusyAgent{Agent: a, Orders: inFlight})
	}

	return busy, nil
}
