// Package hosting creates the GitHub repository for a new module and updates
// its description once the package manifest exists.
//
// Requests go through go-github with an oauth2 static token source, so the
// token is sent as a bearer credential on every call.
package hosting
