// Package tx defines the transaction vocabulary shared by the ledger
// store, the engine, and the I/O adapters.
//
// This package contains type definitions only. Every other internal
// package imports tx; tx imports nothing internal. This keeps the
// vocabulary the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Amounts are fixed-point decimals (shopspring/decimal), never floats.
//     Balance arithmetic on binary floats drifts across millions of
//     operations and is forbidden everywhere in this module.
//   - The kind set is closed. Dispatch is an exhaustive switch, not
//     open-ended polymorphism.
//   - Identifier widths match the wire format: 16-bit client IDs,
//     32-bit transaction IDs, both non-negative.
package tx
