// Package dto defines the wire-level data contracts shared by all services
// built on this kit: error response envelopes, the readiness aggregate, and
// the build version descriptor.
//
// The envelopes are a fixed cross-service contract. Every service returns
// the same JSON shapes for the same failure classes, so API consumers and
// gateways can rely on them without per-service knowledge:
//
//   - HTTP 500: {"code": "unknown"} for unhandled errors
//   - HTTP 400: {"code": "invalid_request", "details": [...]} for validation failures
//   - HTTP 422: {"code": "<domain code>"} for business rule violations
//
// Marshaling goes through json-iterator configured for standard library
// compatibility; use Marshal and the envelope types together when writing
// responses by hand (the server package does this for you).
package dto
