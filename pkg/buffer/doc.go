// Package buffer implements the fixed-width primitive codec underneath the
// bufti wire format.
//
// A Writer appends big-endian values to a growable byte slice and never
// fails. A Reader walks a byte slice with a single cursor and distinguishes
// two ways of running out of data:
//
//   - ErrEndOfBuffer: the cursor sits exactly at the end and more bytes were
//     requested. At a field boundary this is the normal end of a record.
//   - ErrUnexpectedEndOfBuffer: the read would run past the end. The buffer
//     is truncated or corrupt and decoding must stop.
//
// Neither type is safe for concurrent use.
package buffer
