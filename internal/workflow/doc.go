// Package workflow implements the create-module scaffolding pipeline.
//
// Pipeline.Run executes a fixed list of steps. Each step either hands a typed
// result to the steps after it or fails with one of the error types declared
// in errors.go, which aborts the run. The final step pushes the initial commit
// and updates the hosted repository description concurrently.
package workflow
