package domain

// Progress is the outcome of evaluating a board.
type Progress struct {
	Status GameStatus `json:"status"`
	Victor Party      `json:"victor,omitempty"`
}

// EvaluateProgress checks straight lines first, then diagonals, then the
// full-board draw. A win on the last free cell is a win, not a draw.
func (b Board) EvaluateProgress() Progress {
	grid := b.Grid()

	if winner := straightWinner(grid, b.size); winner != Nobody {
		return Progress{Status: StatusComplete, Victor: winner}
	}
	if winner := diagonalWinner(grid, b.size); winner != Nobody {
		return Progress{Status: StatusComplete, Victor: winner}
	}
	if len(b.cells) == b.size.Cells() {
		return Progress{Status: StatusDraw}
	}
	return Progress{Status: StatusActive}
}

// run tracks the latest stretch of identical occupants along a line.
type run struct {
	occupant Party
	length   int
}

// push extends the run with p and reports whether it reached ToWin.
// An empty cell breaks the run.
func (r *run) push(p Party) bool {
	switch {
	case p == Nobody:
		r.occupant, r.length = Nobody, 0
		return false
	case p == r.occupant:
		r.length++
	default:
		r.occupant, r.length = p, 1
	}
	return r.length >= ToWin
}

// straightWinner scans column-major in a single pass. Each column keeps its
// own vertical run; each row run gains one entry per column visited.
func straightWinner(grid [][]Party, size BoardSize) Party {
	rowRuns := make([]run, size.Rows)
	for c := 0; c < size.Columns; c++ {
		var colRun run
		for r := 0; r < size.Rows; r++ {
			p := grid[c][r]
			colWin := colRun.push(p)
			rowWin := rowRuns[r].push(p)
			if colWin || rowWin {
				return p
			}
		}
	}
	return Nobody
}

// diagonal is a maximal line of cells walking one column right at a time,
// rising (step 1) or falling (step -1).
type diagonal struct {
	column, row int
	step        int
	length      int
}

// diagonals enumerates every diagonal long enough to hold a win, rising ones
// first. Works for any columns/rows combination.
func diagonals(size BoardSize) []diagonal {
	var out []diagonal
	add := func(column, row, step, length int) {
		if length >= ToWin {
			out = append(out, diagonal{column: column, row: row, step: step, length: length})
		}
	}

	// rising: start on the bottom row, then up the left edge
	for c := 0; c < size.Columns; c++ {
		add(c, 0, 1, min(size.Columns-c, size.Rows))
	}
	for r := 1; r < size.Rows; r++ {
		add(0, r, 1, min(size.Columns, size.Rows-r))
	}

	// falling: start on the top row, then down the left edge
	for c := 0; c < size.Columns; c++ {
		add(c, size.Rows-1, -1, min(size.Columns-c, size.Rows))
	}
	for r := size.Rows - 2; r >= 0; r-- {
		add(0, r, -1, min(size.Columns, r+1))
	}
	return out
}

func diagonalWinner(grid [][]Party, size BoardSize) Party {
	for _, d := range diagonals(size) {
		var line run
		c, r := d.column, d.row
		for i := 0; i < d.length; i++ {
			if line.push(grid[c][r]) {
				return grid[c][r]
			}
			c++
			r += d.step
		}
	}
	return Nobody
}
