package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ErrInvalidInterval is returned by Start for a non-positive interval.
var ErrInvalidInterval = errors.New("dispatch interval must be positive")

// PassRunner runs one dispatch pass.
type PassRunner interface {
	Handle(ctx context.Context, command commands.RunDispatchPassCommand) (commands.PassReport, error)
}

// DispatchJob drives the dispatch pass on a fixed interval. A tick that comes
// due while a pass runs waits for it to finish; at most one tick waits.
type DispatchJob struct {
	runner   PassRunner
	interval time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewDispatchJob creates the job. timeout bounds a single tick; zero means
// twice the interval.
func NewDispatchJob(runner PassRunner, interval, timeout time.Duration, logger *slog.Logger) *DispatchJob {
	logger = logger.With("component", "dispatch_job")
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))

	if timeout <= 0 {
		timeout = 2 * interval
	}

	return &DispatchJob{
		runner:   runner,
		interval: interval,
		timeout:  timeout,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), delayOnce(cronLogger)),
		),
		logger: logger,
	}
}

// delayOnce is cron.DelayIfStillRunning with room for a single waiting tick.
// Ticks arriving while one already waits are dropped, so a slow pass never
// builds a backlog.
func delayOnce(logger cron.Logger) cron.JobWrapper {
	return func(job cron.Job) cron.Job {
		running := make(chan struct{}, 1)
		waiting := make(chan struct{}, 1)

		return cron.FuncJob(func() {
			select {
			case waiting <- struct{}{}:
			default:
				logger.Info("skip", "reason", "a delayed tick is already waiting")
				return
			}

			start := time.Now()
			running <- struct{}{}
			<-waiting
			defer func() { <-running }()

			if dur := time.Since(start); dur > time.Millisecond {
				logger.Info("delay", "duration", dur)
			}
			job.Run()
		})
	}
}

func (j *DispatchJob) Name() string {
	return "dispatch"
}

// Start schedules the pass every interval. cron.Every rounds the interval
// down to whole seconds with a one second minimum.
func (j *DispatchJob) Start() error {
	if j.interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, j.interval)
	}

	j.cron.Schedule(cron.Every(j.interval), cron.FuncJob(j.tick))
	j.cron.Start()

	j.logger.Info("dispatch job started", "interval", j.interval.String())
	return nil
}

// Stop prevents new ticks and waits for a running one, or for ctx.
func (j *DispatchJob) Stop(ctx context.Context) error {
	done := j.cron.Stop()

	select {
	case <-done.Done():
		j.logger.InfoContext(ctx, "dispatch job stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop dispatch job: %w", ctx.Err())
	}
}

// RunOnce runs a single scheduled pass outside of cron.
func (j *DispatchJob) RunOnce(ctx context.Context) (commands.PassReport, error) {
	cmd, err := commands.NewRunDispatchPassCommand(commands.TriggerSchedule)
	if err != nil {
		return commands.PassReport{}, err
	}
	return j.runner.Handle(ctx, cmd)
}

func (j *DispatchJob) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	report, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "dispatch pass failed", "error", err)
		return
	}

	if report.Skipped || report.Eligible == 0 {
		j.logger.DebugContext(ctx, "dispatch tick idle", "skipped", report.Skipped, "pending", report.Pending)
		return
	}

	j.logger.InfoContext(ctx, "dispatch tick finished",
		"eligible", report.Eligible,
		"assigned_orders", report.AssignedOrders(),
		"no_agent_clusters", report.CountClusters(commands.ClusterNoAgent),
		"duration", report.Duration().String(),
	)
}
