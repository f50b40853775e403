// Package store holds all ledger state for a single engine run: account
// balances and the deposit history the dispute chain references.
//
// The store is a pure keyed container. It performs no business-rule
// validation (the engine owns every rule) and its one failure mode is
// the uniqueness constraint on recorded deposit IDs.
//
// # Ordering and scale
//
// Both mappings (client ID → account, transaction ID → deposit record)
// are ordered B-tree maps, not hash maps:
//
//   - O(log N) lookup and insert that stays predictable as the key space
//     approaches the full 32-bit transaction-ID range, with none of the
//     large fixed allocations or collision pathologies of open-addressed
//     hash tables at that scale.
//   - Ascending key iteration for free, which makes the account report
//     deterministic without a sort pass.
//
// # Residency
//
// Nothing is ever evicted or deleted: every account and every deposit
// record lives for the whole run, so peak memory is proportional to
// unique clients plus unique deposits. That is the accepted cost of
// keeping dispute lookups O(log N) over the entire stream.
//
// Not safe for concurrent use; the engine is strictly single-threaded.
package store
