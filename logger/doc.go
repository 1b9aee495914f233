// Package logger provides structured logging for jsonrest using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("jsonrest").WithComponent("rest")
//	log.Debug("dispatch", logger.Fields(logger.FieldMethod, "GET", logger.FieldRoute, "/hello"))
package logger
