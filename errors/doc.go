// Package errors provides the application error model shared by jsonrest
// packages. Every dispatch failure produced by the REST client can be
// converted into an AppError carrying a machine-readable code, the HTTP
// status a service should forward, a retryable flag, and structured details.
package errors
