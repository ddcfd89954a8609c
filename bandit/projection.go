// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bandit

// ChartYMax is the default upper bound of the profit axis. Three bandit3
// jackpots (135) already pass it; Bounds then grows the axis.
const ChartYMax = 105

// Point is one vertex of the profit chart.
type Point struct {
	TokensLeft  int `json:"tokens_left"`
	TotalProfit int `json:"total_profit"`
}

// ChartBounds are the axis ranges a renderer should use. The token axis
// runs from the budget down to zero.
type ChartBounds struct {
	XMax int `json:"x_max"`
	XMin int `json:"x_min"`
	YMin int `json:"y_min"`
	YMax int `json:"y_max"`
}

// Series returns one point per round, sentinel included.
func (l Ledger) Series() []Point {
	pts := make([]Point, 0, len(l))
	for _, r := range l {
		pts = append(pts, Point{TokensLeft: r.TokensRemaining, TotalProfit: r.CumulativeTotal})
	}
	return pts
}

// Bounds returns chart bounds for l. The profit axis grows past ChartYMax
// only when a lucky run exceeds it.
func (l Ledger) Bounds() ChartBounds {
	y := ChartYMax
	if t := l.TotalProfit(); t > y {
		y = t
	}
	return ChartBounds{XMax: l.Budget(), XMin: 0, YMin: 0, YMax: y}
}

// Tally is the per-bandit breakdown of a ledger.
type Tally struct {
	Bandit Bandit `json:"bandit"`
	Plays  int    `json:"plays"`
	Profit int    `json:"profit"`
}

// Tally returns one entry per playable bandit, in All order.
func (l Ledger) Tally() []Tally {
	idx := make(map[Bandit]int, len(All))
	out := make([]Tally, len(All))
	for i, b := range All {
		idx[b] = i
		out[i].Bandit = b
	}
	for _, r := range l {
		i, ok := idx[r.Source]
		if !ok {
			continue
		}
		out[i].Plays++
		out[i].Profit += r.Payout
	}
	return out
}
