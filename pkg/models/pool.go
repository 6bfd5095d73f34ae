// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"gopkg.in/typ.v4/sync2"
)

// Pool reusable objects to reduce garbage collector
type Pool struct {
	// Scores holds scratch buffers for per-team skill values. Buffers come back with length 0.
	Scores *sync2.Pool[[]float64]
}

func NewPool() *Pool {
	return &Pool{
		Scores: &sync2.Pool[[]float64]{
			New: func() []float64 {
				return make([]float64, 0, 8)
			},
		},
	}
}

// GetScores returns an empty buffer. Hand it back with PutScores.
func (p *Pool) GetScores() []float64 {
	return p.Scores.Get()[:0]
}

func (p *Pool) PutScores(scores []float64) {
	p.Scores.Put(scores[:0])
}
