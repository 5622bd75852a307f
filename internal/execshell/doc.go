// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution (including interactive commands that inherit the
// invoking terminal), and defines the abstractions used throughout
// create-module to run git, npm, and the release tool in a testable manner.
package execshell
