// Package catalog holds the read-only reference data dispatch consults:
// warehouses (pickup coordinates) and products (unit weight).
package catalog
