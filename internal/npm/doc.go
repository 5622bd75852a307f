// Package npm runs the npm steps of module scaffolding: the interactive
// `npm init`, installing the release-automation tool as a dev dependency and
// running that tool's own interactive setup.
package npm
