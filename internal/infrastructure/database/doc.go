// Package database manages the SQLite connection used for the device
// history audit trail: open with pragmas, schema bootstrap, health check.
package database
