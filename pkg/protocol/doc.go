// Package protocol defines the binary wire format between a glint runtime
// running on the server and a thin client that mirrors its host tree.
//
// The unit of transfer is a Frame: a 4-byte header (type, flags, payload
// length) followed by the payload. Patch payloads carry batches of host
// mutations keyed by numeric node ids; event payloads carry handler
// invocations going the other way. All integers in payloads are varints
// unless noted, strings are length-prefixed UTF-8.
//
// Decoding is defensive: length prefixes are bounds-checked against the
// remaining buffer and capped, so a malicious peer cannot force large
// allocations from a short message.
package protocol
