package dlq

import (
	"errors"
)

type Option func(*DLQ)

// WithMessageWriter replaces the kafka writer, e.g. with an in-memory one.
func WithMessageWriter(w MessageWriter) Option {
	return func(d *DLQ) {
		d.writer = w
	}
}

func WithSource(source string) Option {
	return func(d *DLQ) {
		d.source = source
	}
}

func (d *DLQ) validate() error {
	if d.topic == "" {
		return errors.New("dlq topic is required")
	}
	if d.writer == nil {
		return errors.New("dlq writer is required")
	}
	if d.source == "" {
		return errors.New("dlq source is required")
	}
	return nil
}
