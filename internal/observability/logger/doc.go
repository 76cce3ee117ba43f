// Package logger wraps a process-wide zap logger plus request-scoped
// loggers carried in context.Context.
//
// Init once in main:
//
//	logger.Init(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// Inside handlers and services:
//
//	log := logger.From(ctx).With(logger.Component("newsletter"))
//	log.Warn("skipping invalid stored email", logger.CauseChain(err))
//
// From falls back to the singleton when no scoped logger is present, so
// callers never need to check.
package logger
