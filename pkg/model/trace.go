package model

import (
	"time"

	"github.com/bufti-format/bufti-go/pkg/log"
	"github.com/google/uuid"
)

// trace emits one event per top-level call when the registry has a logger.
func (m *Model) trace(op log.Operation, start time.Time, size, fields int, versioned bool, err error) {
	logger := m.registry.eventLogger()
	if logger == nil {
		return
	}

	event := log.Event{
		Timestamp: start,
		CallID:    uuid.NewString(),
		Operation: op,
		Model:     m.name,
		Size:      size,
		Fields:    fields,
		Duration:  time.Since(start),
		Versioned: versioned,
	}
	if err != nil {
		event.Error = &log.ErrorData{
			Kind:    errorKind(err),
			Message: err.Error(),
		}
		event.Fields = 0
	}
	logger.Log(event)
}
