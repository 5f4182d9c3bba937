// Package logging provides structured logging for Aura Core.
//
// It wraps log/slog with configuration-driven output format and level
// selection, and stamps every record with the service name and version.
// Components take the narrow Logger interfaces they need (Debug/Info/Warn/
// Error with key-value args) so tests can substitute no-op loggers.
package logging
