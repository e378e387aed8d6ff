// Package kernel holds the value objects shared by every aggregate of the
// dispatch domain: identifiers, geographic locations with haversine distance,
// and the vehicle capacity tiers a load is classified into.
package kernel
