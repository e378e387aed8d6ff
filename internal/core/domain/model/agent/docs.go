// Package agent provides the delivery Agent aggregate: identity, vehicle
// capacity tier, last known position and the AVAILABLE / ASSIGNED /
// ON_DELIVERY / OFFLINE availability cycle driven by dispatch and by the
// order lifecycle.
package agent
