// Package config resolves the Trello credentials and board identifiers a
// tool invocation needs.
//
// Resolution happens once per invocation, before any network call, from
// whatever host.Settings the caller supplies. Missing required settings
// produce a *Error that names every missing environment variable and points
// at the trello_setup tool.
package config
