// Package log provides the slog logger used by profilereport, with a
// handler that keeps secrets and bulky values out of log output.
//
// Summaries and configuration files can carry connection strings, API
// tokens and whole embedded configuration documents. SecureHandler masks
// values under sensitive keys (password, token, dsn, ...), masks values
// that look like credentials, strips passwords from URLs and shortens
// long values such as data URIs. This applies in verbose mode as well.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("load summary",
//	    "path", path,
//	    "dsn", "postgres://user:pw@db/census", // logged as ***REDACTED***
//	)
//	slog.SetDefault(logger)
package log
