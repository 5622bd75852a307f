// Package githubcli reads credentials persisted by the GitHub CLI.
//
// The gh login flow is interactive and stores its token on disk; running
// `gh auth token` through execshell reuses that login so a first run needs no
// token configuration of its own.
package githubcli
