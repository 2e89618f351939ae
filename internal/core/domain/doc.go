// Package domain defines the core business entities for rankwatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TrackedDomain: A domain and the keywords it is ranked for
//   - Settings: Automatic check switch and polling interval
//   - KeywordResult: The outcome of one keyword lookup
//   - DomainReport: The aggregated outcome of one check run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
