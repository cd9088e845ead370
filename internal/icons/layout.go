package icons

import "math"

// GridPos is an icon's cell on the desktop grid.
type GridPos struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// CalculateLayout assigns grid cells column-major in the given order: rows
// fill top to bottom, then the next column starts. ok is false when the
// viewport cannot hold a single row, in which case no layout is produced.
func CalculateLayout(icons []Def, viewportHeight, cellSize int) (positions map[string]GridPos, ok bool) {
	if cellSize <= 0 {
		return nil, false
	}
	maxRows := viewportHeight / cellSize
	if maxRows <= 0 {
		return nil, false
	}

	positions = make(map[string]GridPos, len(icons))
	col, row := 0, 0
	for _, icon := range icons {
		positions[icon.ID] = GridPos{Col: col, Row: row}
		row++
		if row >= maxRows {
			row = 0
			col++
		}
	}
	return positions, true
}

// CellAt converts an absolute pointer position into the nearest grid cell,
// clamped to the first row and column.
func CellAt(pointerX, pointerY, originX, originY, cellSize int) GridPos {
	if cellSize <= 0 {
		return GridPos{}
	}
	col := int(math.Round(float64(pointerX-originX) / float64(cellSize)))
	row := int(math.Round(float64(pointerY-originY) / float64(cellSize)))
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}
	return GridPos{Col: col, Row: row}
}
