// Package githubauth resolves the GitHub token used to create and update the
// hosted repository.
package githubauth
