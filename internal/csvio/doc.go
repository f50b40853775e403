// Package csvio adapts the engine's typed boundary to the CSV wire
// format: a streaming reader for the transaction input and a
// deterministic writer for the account report.
//
// The adapter owns every parsing concern so the engine never sees a
// malformed event:
//   - the header row is consumed and skipped
//   - type names match case-insensitively
//   - fields are whitespace-trimmed and rows may carry 3 or 4 columns
//     (dispute-chain rows often omit the trailing amount)
//   - a leading UTF-8 byte-order mark (spreadsheet exports) is stripped
//   - amounts are normalized to 4 decimal places on ingest
//
// Malformed rows surface as *RowError so callers can skip and keep
// streaming; only real I/O failures abort a run. Input is consumed one
// record at a time, never fully materialized, whatever the file size.
//
// The report writer renders amounts in canonical form (trailing
// fractional zeros trimmed) and rows in ascending client order,
// byte-for-byte reproducible for golden-file comparison.
package csvio
