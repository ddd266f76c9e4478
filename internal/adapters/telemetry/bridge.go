package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/modsync/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and reports every finished span
// through a Logger as a single timing line.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// OnStart does nothing.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, its attributes and how long it took.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	parts := []string{fmt.Sprintf("[%s]", s.Name())}
	for _, kv := range s.Attributes() {
		parts = append(parts, formatAttribute(kv))
	}
	parts = append(parts, "took "+s.EndTime().Sub(s.StartTime()).Round(time.Millisecond).String())

	line := strings.Join(parts, " ")
	if s.Status().Code == codes.Error {
		b.logger.Warn(line + ": " + s.Status().Description)
		return
	}
	b.logger.Info(line)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func formatAttribute(kv attribute.KeyValue) string {
	return string(kv.Key) + "=" + kv.Value.Emit()
}
