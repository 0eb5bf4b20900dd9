package daterange

// GridSize is the number of cells in a month grid: six Sunday-first weeks.
const GridSize = 42

type MonthGrid [GridSize]CalendarDate

// ComputeMonthGrid returns the six weeks that cover anchor's month, starting
// at the Sunday on or before the first of the month.
func ComputeMonthGrid(anchor CalendarDate) MonthGrid {
	var grid MonthGrid
	if anchor.IsZero() {
		return grid
	}

	first := anchor.FirstOfMonth()
	gridStart := first.AddDays(-int(first.Weekday()))
	for index := range grid {
		grid[index] = gridStart.AddDays(index)
	}
	return grid
}

// IndexOfFirst returns the cell index holding the first of the displayed
// month, or -1 for an empty grid.
func (grid MonthGrid) IndexOfFirst() int {
	for index, cell := range grid {
		if !cell.IsZero() && cell.Day() == 1 {
			return index
		}
	}
	return -1
}

func (grid MonthGrid) Contains(date CalendarDate) bool {
	if date.IsZero() || grid[0].IsZero() {
		return false
	}
	return !date.Before(grid[0]) && !date.After(grid[GridSize-1])
}
