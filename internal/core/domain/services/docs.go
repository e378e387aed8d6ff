// Package services holds the dispatch domain services:
//
//   - EligibilityFilter selects pending orders past their grace period and
//     resolves their warehouse and weight class;
//   - Clusterer batches nearby, near-simultaneous orders of one tier;
//   - AssignmentPolicy matches a batch to an agent, preferring to extend a
//     busy nearby agent's trip over starting a new one.
//
// The services are pure: they read and mutate aggregates in memory and leave
// persistence to the application layer.
package services
