// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package skillbalance

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// Normalize returns the z-scores of raw: zero mean and unit sample standard deviation.
func Normalize(raw ScoreTable) (ScoreTable, error) {
	if len(raw) < 2 {
		return nil, models.NewInsufficientDataError(models.ErrTooFewPlayers, "%d scored player(s)", len(raw))
	}

	// fixed order keeps the floating point sums reproducible
	ids := make([]playerdata.ID, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	values := make([]float64, len(ids))
	for i, id := range ids {
		values[i] = raw[id]
	}

	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return nil, models.NewInsufficientDataError(models.ErrDegenerateScores,
			"all %d players have the same skill", len(raw))
	}

	normalized := make(ScoreTable, len(raw))
	for i, id := range ids {
		normalized[id] = stat.StdScore(values[i], mean, std)
	}

	return normalized, nil
}
