// Package trace captures and canonically serializes kernel execution
// traces.
//
// A trace is the ordered list of processed events from one run, plus the
// kernel's final counters. Two runs of the same injection sequence must
// produce byte-identical canonical traces; replay verification and golden
// tests both rest on that property.
//
// Canonical serialization follows the RFC 8785 conventions: object keys
// sorted, no HTML escaping, strings NFC-normalized, integers only. Trace
// identity is a domain-separated SHA-256 over the canonical bytes.
package trace
