// Package parse turns raw model output into typed Go values.
//
// Function-call arguments produced by language models are usually valid JSON,
// but not always: trailing commas, single quotes, Python constants and
// schema-style envelopes such as {"type": "number", "value": 4} all show up in
// practice. [ParseStringAs] decodes the happy path with encoding/json and
// falls back to jsonrepair and envelope unwrapping before giving up.
package parse
