// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RankProvider: Returns organic search results for a keyword (Serper)
//   - TrackedStore: Durable tracked domains and settings (SQLite)
//   - ReportSink: Delivers reports and failures (Telegram, console)
//   - ConfigStore: Application configuration (TOML)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CheckHistoryStore: Keeps a bounded log of check runs. Without it, history is not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
