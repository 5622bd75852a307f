// Package registry checks whether a package name is still free on the npm registry.
package registry
