// Package tasks runs fire-and-forget background work with observed failures.
//
// A detached task's result is discarded by its submitter but logged by the
// runner, including recovered panics. Shutdown cancels the shared task
// context and waits for in-flight work, bounding how long detached tasks
// can outlive the service.
package tasks
