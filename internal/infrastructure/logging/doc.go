// Package logging provides structured logging for homesim, built on
// log/slog with configuration-driven level, format and output selection.
package logging
