// Package gitrepo drives the git operations that turn a freshly created
// module directory into a repository wired to its hosted remote.
//
// RepositoryManager issues init, remote, add, commit and push commands
// through an execshell git executor, and the remote URL helpers validate and
// derive the SSH clone address handed to `git remote add`.
package gitrepo
