// Package workers runs the client's background jobs. Today that is a single
// job, the periodic store refresh, but the aggregate keeps the wiring uniform
// if more are added.
package workers

// Worker is a long-running background job. Run is expected to return quickly
// after spawning the job's goroutine.
type Worker interface {
	Run()
}
