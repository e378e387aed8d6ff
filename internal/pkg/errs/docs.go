// Package errs provides standardized error types for the dispatch engine.
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound)
//   - a struct type carrying the details
//   - constructor functions with and without a cause
//   - Unwrap returning the sentinel, so callers classify with errors.Is
//
// Lifecycle violations are reported with InvalidStateTransitionError and
// lost optimistic-concurrency races with ConcurrentModificationError.
package errs
