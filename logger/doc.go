// Package logger provides structured logging for seqkit tools using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers, and enrichment with the trace, span and pass identifiers carried
// by a context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("splitter")
//	log.Debug("pass finished", logger.PassFields("orders", passID, 42, elapsed))
package logger
