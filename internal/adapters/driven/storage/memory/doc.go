// Package memory provides in-memory implementations of the driven storage
// ports. They back the --ephemeral mode and adapter-level tests; nothing
// survives the process.
package memory
