// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package envelope

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/common"
)

const (
	traceIDLogField = "traceID"
	lobbyIDLogField = "lobbyID"
	tracerName      = "lobby-matchmaker"

	LobbyIDTag    = "lobby.id"
	StrategyTag   = "lobby.strategy"
	ReadyTag      = "lobby.ready_count"
	PlayerTag     = "lobby.player_id"
	ContextKeyTag = "lobby.context_key"
)

// NewRootScope starts a scope for one incoming request.
// A traceID that is not 32 characters long is replaced by a generated one.
func NewRootScope(rootCtx context.Context, name string, traceID string) *Scope {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(rootCtx, name)

	if traceID == "" || len(traceID) != 32 {
		traceID = common.GenerateUUID()
	}

	return &Scope{
		Ctx:     ctx,
		TraceID: traceID,
		span:    span,
		Log:     logrus.WithField(traceIDLogField, traceID),
	}
}

// Scope used as the envelope to combine and transport request-related information by the chain of function calls
type Scope struct {
	Ctx     context.Context
	TraceID string
	span    oteltrace.Span
	Log     *logrus.Entry
}

// SetLogger allows for setting a different logger than the default std logger. This is mostly useful for testing.
func (s *Scope) SetLogger(logger *logrus.Logger) {
	s.Log = logger.WithField(traceIDLogField, s.TraceID)
}

// Finish finishes current scope
func (s *Scope) Finish() {
	s.span.End()
}

// NewChildScope creates new child Scope.
func (s *Scope) NewChildScope(name string) *Scope {
	tracer := s.span.TracerProvider().Tracer(tracerName)
	ctx, span := tracer.Start(s.Ctx, name)

	return &Scope{
		Ctx:     ctx,
		TraceID: s.TraceID,
		span:    span,
		Log:     s.Log,
	}
}

// WithLobby returns a copy of the scope whose logs and span carry the lobby id.
// The copy shares the span, so only the receiver needs Finish.
func (s *Scope) WithLobby(lobbyID string) *Scope {
	s.span.SetAttributes(attribute.String(LobbyIDTag, lobbyID))

	return &Scope{
		Ctx:     s.Ctx,
		TraceID: s.TraceID,
		span:    s.span,
		Log:     s.Log.WithField(lobbyIDLogField, lobbyID),
	}
}

// Detached returns a copy of the scope whose context is never cancelled by the receiver's.
// Values and the trace survive. The copy shares the span, so only the receiver needs Finish.
func (s *Scope) Detached() *Scope {
	return &Scope{
		Ctx:     context.WithoutCancel(s.Ctx),
		TraceID: s.TraceID,
		span:    s.span,
		Log:     s.Log,
	}
}

// SetAttributes adds attributes onto a span based on the value object type
func (s *Scope) SetAttributes(key string, value interface{}) {
	switch v := value.(type) {
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	case time.Duration:
		s.span.SetAttributes(attribute.Int64(key, v.Milliseconds()))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}
