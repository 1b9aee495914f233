// Package cli implements the jsonrest command: call, route, token and version.
package cli
