package log

import (
	"time"
)

// Event represents one top-level codec call.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the call started (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// CallID uniquely identifies the call (UUID).
	CallID string `cbor:"2,keyasint"`

	// Operation is encode or decode.
	Operation Operation `cbor:"3,keyasint"`

	// Model is the name of the model used.
	Model string `cbor:"4,keyasint"`

	// Size is the payload size in bytes: produced for encode, consumed for decode.
	Size int `cbor:"5,keyasint"`

	// Fields is the number of top-level fields written or read.
	Fields int `cbor:"6,keyasint"`

	// Duration is the wall time spent in the call.
	Duration time.Duration `cbor:"7,keyasint,omitempty"`

	// Versioned is set when the payload carries a version prefix.
	Versioned bool `cbor:"8,keyasint,omitempty"`

	// Error is set when the call failed.
	Error *ErrorData `cbor:"9,keyasint,omitempty"`
}

// Operation identifies the codec direction.
type Operation uint8

const (
	// OpEncode is a value-to-bytes call.
	OpEncode Operation = 0
	// OpDecode is a bytes-to-value call.
	OpDecode Operation = 1
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OpEncode:
		return "ENCODE"
	case OpDecode:
		return "DECODE"
	default:
		return "UNKNOWN"
	}
}

// ErrorKind classifies codec failures.
type ErrorKind uint8

const (
	ErrorKindOther ErrorKind = iota
	ErrorKindModel
	ErrorKindDictFormat
	ErrorKindBufferFormat
	ErrorKindTruncated
	ErrorKindVersion
)

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindModel:
		return "MODEL"
	case ErrorKindDictFormat:
		return "DICT_FORMAT"
	case ErrorKindBufferFormat:
		return "BUFFER_FORMAT"
	case ErrorKindTruncated:
		return "TRUNCATED"
	case ErrorKindVersion:
		return "VERSION"
	default:
		return "OTHER"
	}
}

// ErrorData describes a failed call.
type ErrorData struct {
	Kind    ErrorKind `cbor:"1,keyasint"`
	Message string    `cbor:"2,keyasint"`
}
