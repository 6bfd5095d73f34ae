// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

/*
GenerateSplits returns every distinct way to split players into two teams of equal size.

Team one is picked with nCr where n = number of players and r = n/2. A split and its swap
are the same match, so only combinations that put the first player on team one are kept,
which leaves exactly nCr / 2 matches.

For example: players [a b c d]

combinations of 2 (index):

[0]: [0 1] -> kept   [a b] vs [c d]
[1]: [0 2] -> kept   [a c] vs [b d]
[2]: [0 3] -> kept   [a d] vs [b c]
[3]: [1 2] -> skip   same as [0 3]
[4]: [1 3] -> skip   same as [0 2]
[5]: [2 3] -> skip   same as [0 1]

Players keep their input order inside each team. The result order is deterministic for a given input.
*/
func GenerateSplits(players []playerdata.Player) []Match {
	n := len(players)
	if n < 2 || n%2 != 0 {
		return nil
	}
	r := n / 2

	matches := make([]Match, 0, combin.Binomial(n, r)/2)
	for _, indexes := range combin.Combinations(n, r) {
		if indexes[0] != 0 {
			continue
		}

		inTeamOne := make([]bool, n)
		for _, i := range indexes {
			inTeamOne[i] = true
		}

		one := make([]playerdata.Player, 0, r)
		two := make([]playerdata.Player, 0, r)
		for i, p := range players {
			if inTeamOne[i] {
				one = append(one, p)
			} else {
				two = append(two, p)
			}
		}

		matches = append(matches, Match{Teams: [2]Team{{Players: one}, {Players: two}}})
	}

	return matches
}

// CountSplits is the number of matches GenerateSplits returns for n players.
func CountSplits(n int) int {
	if n < 2 || n%2 != 0 {
		return 0
	}
	return combin.Binomial(n, n/2) / 2
}
