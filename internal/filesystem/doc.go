// Package filesystem wraps the operating system calls used while scaffolding
// so that callers can substitute an in-memory implementation in tests.
package filesystem
