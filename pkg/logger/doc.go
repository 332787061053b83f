// Package logger builds log/slog loggers with environment-aware defaults,
// optional rotating file output and context extractors that attach
// request-scoped values (request id, environment) to every record.
//
//	opts, closer := logger.FromConfig(cfg, "production", "ppsp-site")
//	defer closer.Close()
//	log := logger.New(append(opts,
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)...)
//	log.InfoContext(ctx, "contact submitted", logger.Component("contact"))
//
// The attribute helpers in this package keep key names consistent across
// the code base.
package logger
