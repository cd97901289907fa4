// Package logger builds the platform's slog loggers.
//
// New assembles a handler from the environment preset (text at debug
// level in development, JSON at info level elsewhere), stamps static
// env and service attributes, and wraps the result so registered
// ContextExtractor callbacks run on every record. The extractors are
// how request-scoped identity reaches log lines: requestid, principal
// and tenant each contribute one, and a single InfoContext call then
// carries request id, actor and organization without the call site
// naming them.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "api"),
//		logger.WithContextExtractors(
//			requestid.LoggerExtractor(),
//			principal.LoggerExtractor(),
//			tenant.LoggerExtractor(),
//		),
//	)
//	logger.SetAsDefault(log)
//
// The attr helpers (Error, TenantID, Entity, Operation and friends)
// keep attribute keys consistent across packages; grep for "tenant_id"
// lands on every line that ever logged one.
package logger
