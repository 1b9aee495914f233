// Package version carries the build information of the jsonrest client and
// CLI. It feeds the User-Agent header of every dispatched request.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/jsonrest/version.Version=1.0.0" ./cmd/jsonrest
package version
