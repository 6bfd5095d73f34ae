// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
	"fmt"
)

// Usage error kinds. A UsageError always wraps exactly one of them.
var (
	ErrRejoinNotPermitted      = errors.New("player left the lobby and must rejoin themselves")
	ErrLobbyFull               = errors.New("lobby is full")
	ErrNotEnoughReadyPlayers   = errors.New("not enough ready players")
	ErrGeneratorNotStarted     = errors.New("match generator has not been started")
	ErrGeneratorAlreadyStarted = errors.New("match generator already started")
	ErrSessionClosed           = errors.New("lobby session is closed")
	ErrInvalidCapacity         = errors.New("capacity must be a positive even number")
)

// Insufficient data kinds. An InsufficientDataError always wraps exactly one of them.
var (
	ErrNoGames          = errors.New("no historical games")
	ErrTooFewPlayers    = errors.New("fewer than two known players")
	ErrDegenerateScores = errors.New("skill scores have zero deviation")
)

var errorCodeMap = map[error]int{
	ErrRejoinNotPermitted:      510201,
	ErrLobbyFull:               510202,
	ErrNotEnoughReadyPlayers:   510203,
	ErrGeneratorNotStarted:     510204,
	ErrGeneratorAlreadyStarted: 510205,
	ErrSessionClosed:           510206,
	ErrInvalidCapacity:         510207,
	ErrNoGames:                 510301,
	ErrTooFewPlayers:           510302,
	ErrDegenerateScores:        510303,
}

// UsageError reports a transition the caller asked for that the current state does not allow.
// Reason is meant for the end user.
type UsageError struct {
	Kind   error
	Reason string
}

func NewUsageError(kind error, format string, args ...interface{}) *UsageError {
	return &UsageError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string {
	return e.Reason
}

func (e *UsageError) Unwrap() error {
	return e.Kind
}

// InsufficientDataError reports that historical data cannot support a skill ranking.
// Callers may fall back to another strategy.
type InsufficientDataError struct {
	Kind   error
	Reason string
}

func NewInsufficientDataError(kind error, format string, args ...interface{}) *InsufficientDataError {
	return &InsufficientDataError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func (e *InsufficientDataError) Error() string {
	return "insufficient data: " + e.Reason
}

func (e *InsufficientDataError) Unwrap() error {
	return e.Kind
}

// IsUsageError reports whether err is, or wraps, a UsageError.
func IsUsageError(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}

// IsInsufficientData reports whether err is, or wraps, an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var dataErr *InsufficientDataError
	return errors.As(err, &dataErr)
}

// ErrorCode returns a code for the error.
// It returns 20002 if the error kind is not registered in the map.
func ErrorCode(err error) int {
	for kind, code := range errorCodeMap {
		if errors.Is(err, kind) {
			return code
		}
	}
	return 20002
}
