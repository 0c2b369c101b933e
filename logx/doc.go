// Package logx provides leveled logging configured from the environment.
//
// Environment Variables:
//   - LOG_LEVEL: minimum level (TRACE, DEBUG, INFO, WARN, ERROR, OFF)
//   - LOG_FORMAT: console (default) or json
//   - LOG_COLOR: colored level names on the console (default true)
//   - LOG_CALLER: file:line of the caller (default true)
//
// Basic Usage:
//
//	logx.Info("webhook listening on %s", addr)
//	log := logx.Named("whatsappx")
//	log.Warn("rejected webhook: %v", err)
//
// Console output:
//
//	[2025-06-08 18:57:52] whatsappx [WARN] webhook.go:64: rejected webhook: ...
//
// JSON output:
//
//	{"timestamp":"2025-06-08T18:57:52Z","level":"WARN","prefix":"whatsappx","caller":"webhook.go:64","message":"..."}
package logx
