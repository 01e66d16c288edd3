// Package parse turns loosely formatted model output, tool-call arguments in
// particular, into typed Go values.
//
// Models occasionally emit single-quoted keys, trailing commas or values
// wrapped in schema envelopes. [ParseStringAs] repairs such input before
// giving up, while still rejecting values whose JSON type does not fit the
// target. [MissingFields] checks an object for required keys.
package parse
