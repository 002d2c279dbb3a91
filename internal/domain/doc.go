// Package domain defines the core business types for the Campaign Manager
// assistant.
//
// Types in this package are pure value objects with no behavior, no storage
// dependencies, and no HTTP concerns. They are the shared language between
// the conversation engine, the insights pipeline, the wizard and the
// persistence adapters.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Validation and copy methods are allowed (they're pure functions on the type)
//   - Constants and enums belong here
package domain
