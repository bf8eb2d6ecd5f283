// Package inspect provides wire dumps and model inspection utilities.
//
// The inspect package offers a unified interface for:
//   - Dumping an encoded record entry by entry with byte offsets
//   - Describing a model and the models it references
//   - Resolving paths into decoded records (e.g., "d/aa" or "3/0")
//   - Formatting output for display
package inspect
