// Package logger provides structured logging for simbank built on zerolog.
//
// A Logger wraps zerolog with component tagging and map-based fields:
//
//	log := logger.New(&cfg, "simbank")
//	flowLog := log.WithComponent("oauth")
//	flowLog.Info("transaction stored", logger.Fields("transaction_id", id))
//
// A process-wide logger is installed by Init and reachable through the
// package-level Debug/Info/Warn/Error functions.
package logger
