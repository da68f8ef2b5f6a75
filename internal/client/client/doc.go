// Package client contains the transport-side building blocks of userdesk.
//
// # Overview
//
// The package provides:
//  1. The Client contract for the remote users directory: FetchPage,
//     UpdateUser, DeleteUser and Login.
//  2. HTTPClient, a JSON-over-HTTP implementation with a per-request timeout,
//     an optional x-api-key header and an outbound rate limiter.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite store and applies embedded goose migrations.
//
// # Error Handling
//
// Every remote failure is a *TransportError with a human-readable message.
// Callers match network failures with errors.Is(err, ErrUnavailable) and
// rejected credentials with errors.Is(err, ErrUnauthorized). There are no
// automatic retries.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
