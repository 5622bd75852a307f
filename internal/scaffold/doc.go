// Package scaffold renders and writes the boilerplate files of a new module:
// readme.md, .gitignore and the Travis CI configuration.
package scaffold
