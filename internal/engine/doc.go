// Package engine implements the single-pass transaction engine.
//
// The engine receives one transaction event at a time, validates it
// against current ledger state, mutates the store, and reports success
// or a specific rejection code.
//
// ARCHITECTURE:
//
// Strictly Sequential Processing:
// Events are fully applied (validated and mutated) before the next is
// read. Nothing suspends, blocks on I/O, or runs concurrently. This
// ensures:
//   - The input order is the only ordering; no clocks, no races
//   - Identical input streams produce identical final state
//   - A rejected event provably leaves state untouched
//
// Event Processing Flow:
//  1. Fetch (lazily create) the account the event names
//  2. Lock guard: locked accounts reject everything, before dispatch
//  3. Exhaustive dispatch on the closed kind set
//  4. Per-kind rules validate, then mutate; never partially apply
//
// Dispute chain per deposit:
//
//	Normal → (dispute) → Disputed → (resolve) → Normal
//	                     Disputed → (chargeback) → closed, account locked
//
// Rejections are *ExecutionError values with a closed set of codes (see
// errors.go). The engine never logs and never treats a rejection as
// fatal; the caller owns that policy. The only termination condition a
// caller should implement is input exhaustion.
package engine
