// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package skillbalance

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/gamedata"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// ScoreTable maps a player to a skill score. Higher is stronger.
type ScoreTable map[playerdata.ID]float64

// Estimator turns a game history into raw, unnormalised skill scores for every player of the history.
type Estimator interface {
	Name() string
	Estimate(data *gamedata.GameData) (ScoreTable, error)
}

// NewEstimator returns the estimator registered under name.
func NewEstimator(name string) (Estimator, error) {
	switch name {
	case constants.EstimatorRegression, "":
		return NewLinearRegression(), nil
	case constants.EstimatorWinLoss:
		return WinLoss{}, nil
	default:
		return nil, fmt.Errorf("unknown skill estimator %q", name)
	}
}

const defaultRcond = 1e-9

/*
LinearRegression fits game margin ~ sum of player coefficients.

Each game is one row and each player one column holding the player's team modifier
(+1 team one, -1 team two, 0 absent); the target is the game's percent difference.
Columns and target are centred, which amounts to fitting an intercept.
With equal team sizes every row sums to zero, so the system is always rank deficient;
the minimum norm least squares solution is taken, computed from an SVD.
*/
type LinearRegression struct {
	// Rcond drops singular values below Rcond times the largest one.
	Rcond float64
}

func NewLinearRegression() LinearRegression {
	return LinearRegression{Rcond: defaultRcond}
}

func (LinearRegression) Name() string {
	return constants.EstimatorRegression
}

func (r LinearRegression) Estimate(data *gamedata.GameData) (ScoreTable, error) {
	if data == nil || len(data.Games) == 0 {
		return nil, models.NewInsufficientDataError(models.ErrNoGames, "no games recorded")
	}

	players := data.AllPlayers()
	if len(players) < 2 {
		return nil, models.NewInsufficientDataError(models.ErrTooFewPlayers,
			"%d player(s) in %d game(s)", len(players), len(data.Games))
	}

	rows, cols := len(data.Games), len(players)
	x := mat.NewDense(rows, cols, nil)
	y := mat.NewVecDense(rows, nil)
	for i, game := range data.Games {
		for j, id := range players {
			x.Set(i, j, game.TeamModifier(id))
		}
		y.SetVec(i, game.PercentDifference())
	}
	centre(x, y)

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, fmt.Errorf("factorize %dx%d modifier matrix", rows, cols)
	}

	rcond := r.Rcond
	if rcond <= 0 {
		rcond = defaultRcond
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		return nil, models.NewInsufficientDataError(models.ErrDegenerateScores, "games carry no information on players")
	}

	coefficients := mat.NewVecDense(cols, nil)
	svd.SolveVecTo(coefficients, y, rank)

	scores := make(ScoreTable, cols)
	for j, id := range players {
		scores[id] = coefficients.AtVec(j)
	}

	return scores, nil
}

// centre subtracts the column means of x and the mean of y in place.
func centre(x *mat.Dense, y *mat.VecDense) {
	rows, cols := x.Dims()
	column := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(column, j, x)
		floats.AddConst(-floats.Sum(column)/float64(rows), column)
		x.SetCol(j, column)
	}

	target := y.RawVector().Data
	floats.AddConst(-floats.Sum(target)/float64(rows), target)
}

// WinLoss scores a player with the sum of the margins of their games, taken from their side.
// It needs no model and copes with tiny histories.
type WinLoss struct{}

func (WinLoss) Name() string {
	return constants.EstimatorWinLoss
}

func (WinLoss) Estimate(data *gamedata.GameData) (ScoreTable, error) {
	if data == nil || len(data.Games) == 0 {
		return nil, models.NewInsufficientDataError(models.ErrNoGames, "no games recorded")
	}

	players := data.AllPlayers()
	if len(players) < 2 {
		return nil, models.NewInsufficientDataError(models.ErrTooFewPlayers,
			"%d player(s) in %d game(s)", len(players), len(data.Games))
	}

	scores := make(ScoreTable, len(players))
	for _, id := range players {
		scores[id] = 0
	}
	for _, game := range data.Games {
		margin := game.PercentDifference()
		for _, id := range game.TeamOne.Players {
			scores[id] += margin
		}
		for _, id := range game.TeamTwo.Players {
			scores[id] -= margin
		}
	}

	return scores, nil
}
