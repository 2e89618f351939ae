// Package sqlite provides the durable store for tracked domains,
// scheduling settings and check history.
//
// The database lives at <dataDir>/rankwatch.db and is opened in WAL mode
// so that a long-running `serve` process and short-lived CLI commands can
// share it. Schema changes are applied from embedded migrations.
package sqlite
