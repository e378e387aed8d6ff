// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are cron driven (github.com/robfig/cron/v3). The only job today is
// DispatchJob, which runs a dispatch pass every DISPATCH_INTERVAL:
//
//	job := jobs.NewDispatchJob(dispatchHandler, cfg.DispatchInterval, 0, logger)
//	manager := jobs.NewJobManager(logger, job)
//	if err := manager.StartAll(ctx); err != nil {
//		return err
//	}
//	defer manager.StopAll(shutdownCtx)
//
// # Overlap
//
// Ticks never overlap. A tick that comes due while a pass is still running
// waits for it to finish and then runs; while one tick waits, further ticks
// are dropped. The pass handler itself is also single-flight, which covers a
// manual pass racing a scheduled one.
//
// # Error Handling
//
// A failing pass is logged and the next tick runs as usual. Per-cluster
// failures never reach the job; they are part of the pass report.
package jobs
