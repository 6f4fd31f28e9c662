// Package record provides the schema-less record model shared by the filter
// engine, the heatmap generator and the dataset store.
//
// Records arrive as plain JSON or YAML documents (incidents, campaigns,
// hazard points) whose shape is never declared up front. This package
// converts them into a small sealed set of value types so the rest of the
// module can switch over them exhaustively:
//
//	Null, String, Number, Bool, List, Object
//
// Object is a record. Fields are addressed with dot paths such as
// "location.city"; see Lookup.
//
// Key design constraints:
//   - Value is sealed; only types in this package implement it
//   - Numbers are float64 (risk scores and coordinates are fractional)
//   - Canonical JSON sorts keys and NFC-normalises strings so golden
//     files and snapshot hashes are stable across platforms
package record
