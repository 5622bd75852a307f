// Package manifest reads the package.json written by `npm init`.
//
// The manifest is validated against an embedded JSON schema before it is
// decoded, so a malformed file is reported with the offending locations
// instead of surfacing as a decoding error.
package manifest
