package ai

import "sync/atomic"

// debugLoggingEnabled guards per-tick debug logs in the AI subsystem.
// Ticks run many times per second; checking an atomic is cheaper than building slog attrs.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for AI subsystem.
// Called from main after parsing config.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("enemy moved", "pos", enemy.Position())
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
