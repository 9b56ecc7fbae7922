package ports

import "github.com/mawi1/oondl/internal/domain"

// UpdateSink receives progress updates of a running download.
type UpdateSink interface {
	Send(u domain.Update)
}

// SinkFunc adapts a function to UpdateSink.
type SinkFunc func(u domain.Update)

func (f SinkFunc) Send(u domain.Update) { f(u) }
