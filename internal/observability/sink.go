package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/wasteland/internal/game/message"
)

// LogSink writes player messages to a logger. Bad and Warning messages are
// logged at warn level; Debug messages at debug; everything else at info.
type LogSink struct {
	logger *zap.Logger
}

// NewMessageSink returns a message.Sink backed by logger.
//
// Precondition: logger must be non-nil.
func NewMessageSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		panic("observability.NewMessageSink: logger must not be nil")
	}
	return &LogSink{logger: logger.Named("player")}
}

// Add implements message.Sink.
func (s *LogSink) Add(m message.Message) {
	level := zapcore.InfoLevel
	switch m.Type {
	case message.Bad, message.Warning:
		level = zapcore.WarnLevel
	case message.Debug:
		level = zapcore.DebugLevel
	}
	if ce := s.logger.Check(level, m.Text); ce != nil {
		ce.Write(zap.Stringer("type", m.Type))
	}
}
