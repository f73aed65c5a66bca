package physics

// Grid is a uniform broad-phase grid. Entries are opaque integer keys
// (typically registry indices); a query returns them sorted and without
// duplicates so results do not depend on cell layout.
type Grid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int
}

// NewGrid creates a grid covering bounds with square cells of cellSize
func NewGrid(bounds Bounds, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(bounds.Width/cellSize) + 1
	rows := int(bounds.Height/cellSize) + 1
	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([][]int, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *Grid) span(c Circle) (minCX, minCY, maxCX, maxCY int) {
	clampCol := func(v int) int {
		if v < 0 {
			return 0
		}
		if v >= g.cols {
			return g.cols - 1
		}
		return v
	}
	clampRow := func(v int) int {
		if v < 0 {
			return 0
		}
		if v >= g.rows {
			return g.rows - 1
		}
		return v
	}
	minCX = clampCol(int((c.Center.X - c.Radius) / g.cellSize))
	maxCX = clampCol(int((c.Center.X + c.Radius) / g.cellSize))
	minCY = clampRow(int((c.Center.Y - c.Radius) / g.cellSize))
	maxCY = clampRow(int((c.Center.Y + c.Radius) / g.cellSize))
	return
}

// Insert adds key to every cell overlapping the circle's bounding box
func (g *Grid) Insert(c Circle, key int) {
	minCX, minCY, maxCX, maxCY := g.span(c)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cy*g.cols + cx
			g.cells[idx] = append(g.cells[idx], key)
		}
	}
}

// Query appends to buf the distinct keys whose cells overlap the circle's
// bounding box, in ascending key order.
func (g *Grid) Query(c Circle, buf []int) []int {
	minCX, minCY, maxCX, maxCY := g.span(c)
	start := len(buf)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			for _, key := range g.cells[cy*g.cols+cx] {
				buf = insertSorted(buf, start, key)
			}
		}
	}
	return buf
}

// insertSorted inserts key into buf[start:] keeping it sorted and unique
func insertSorted(buf []int, start, key int) []int {
	i := len(buf)
	for i > start && buf[i-1] > key {
		i--
	}
	if i > start && buf[i-1] == key {
		return buf
	}
	buf = append(buf, 0)
	copy(buf[i+1:], buf[i:])
	buf[i] = key
	return buf
}
