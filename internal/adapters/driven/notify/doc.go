// Package notify provides ReportSink adapters.
//
// Adapters:
//   - TelegramSink: sends Markdown messages through the Telegram Bot API
//   - ConsoleSink: renders styled reports to a terminal
//   - MultiSink: fans out to several sinks
//   - Discard: drops everything
package notify
