package model

import (
	"errors"

	"github.com/bufti-format/bufti-go/pkg/buffer"
	"github.com/bufti-format/bufti-go/pkg/log"
	"github.com/bufti-format/bufti-go/pkg/version"
)

// Codec errors. Callers match with errors.Is.
var (
	// ErrModel indicates an invalid model definition or an unresolvable
	// model reference.
	ErrModel = errors.New("invalid model")

	// ErrDictFormat indicates an encode input that does not fit the model:
	// an unknown label or a value of the wrong shape.
	ErrDictFormat = errors.New("invalid input record")

	// ErrBufferFormat indicates a buffer that does not fit the model, such
	// as a field index the model does not declare.
	ErrBufferFormat = errors.New("invalid buffer format")

	// ErrUnexpectedEndOfBuffer indicates a buffer truncated inside a value.
	ErrUnexpectedEndOfBuffer = buffer.ErrUnexpectedEndOfBuffer

	// ErrVersion indicates a versioned payload with a different major version.
	ErrVersion = version.ErrIncompatible
)

// errorKind classifies err for event tracing.
func errorKind(err error) log.ErrorKind {
	switch {
	case errors.Is(err, ErrVersion):
		return log.ErrorKindVersion
	case errors.Is(err, ErrUnexpectedEndOfBuffer):
		return log.ErrorKindTruncated
	case errors.Is(err, ErrBufferFormat):
		return log.ErrorKindBufferFormat
	case errors.Is(err, ErrDictFormat):
		return log.ErrorKindDictFormat
	case errors.Is(err, ErrModel):
		return log.ErrorKindModel
	default:
		return log.ErrorKindOther
	}
}
