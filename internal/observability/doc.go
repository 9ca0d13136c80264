// Package observability provides structured logging for the ShotLocker
// client and the auth-config server.
//
// This package implements:
//   - zap logger construction from LOG_LEVEL / LOG_FORMAT
//   - Request ID propagation into log fields
package observability
