package sim

// CellList partitions the periodic box into a uniform grid of square
// cells whose side is at least the interaction cutoff (one particle
// diameter). Pairwise force evaluation only has to look at a cell and
// its half-stencil of neighbors instead of scanning all pairs.
type CellList struct {
	length   float64
	ndiv     int
	cellSize float64
	cells    [][]int
	nbrs     [][]int
}

// stencil is the half set of neighbor offsets. Together with the j > i
// rule inside a cell it visits every unordered pair of cells within one
// step of each other exactly once: a cell never appears in the stencil
// of a cell that already lists it.
var stencil = [5][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}}

// NewCellList creates a cell list for a box of the given side length,
// sized for n particles. The neighbor topology is computed once and
// reused on every rebuild.
func NewCellList(length float64, n int) *CellList {
	ndiv := int(length)
	if ndiv < 3 {
		// The wrapped half-stencil folds onto itself on grids smaller
		// than 3x3 and would count pairs twice. A single cell with the
		// j > i rule stays correct for tiny boxes.
		ndiv = 1
	}

	c := &CellList{
		length:   length,
		ndiv:     ndiv,
		cellSize: length / float64(ndiv),
	}

	ncells := ndiv * ndiv
	c.cells = make([][]int, ncells)
	perCell := n/ncells + 1
	for b := range c.cells {
		c.cells[b] = make([]int, 0, 2*perCell)
	}

	c.nbrs = make([][]int, ncells)
	for b := range c.nbrs {
		cx := b % ndiv
		cy := b / ndiv
		if ndiv == 1 {
			c.nbrs[b] = []int{b}
			continue
		}
		nb := make([]int, 0, len(stencil))
		for _, off := range stencil {
			nx := (cx + off[0] + ndiv) % ndiv
			ny := (cy + off[1] + ndiv) % ndiv
			nb = append(nb, ny*ndiv+nx)
		}
		c.nbrs[b] = nb
	}

	return c
}

// Build assigns every particle to the cell containing its position.
// Positions must already be wrapped into [0, L). Cell contents from the
// previous build are discarded; the backing slices are reused.
func (c *CellList) Build(x, y []float64) {
	for b := range c.cells {
		c.cells[b] = c.cells[b][:0]
	}
	for i := range x {
		cx := int(x[i]/c.cellSize) % c.ndiv
		cy := int(y[i]/c.cellSize) % c.ndiv
		b := cy*c.ndiv + cx
		c.cells[b] = append(c.cells[b], i)
	}
}

// CellCount returns the total number of cells in the grid.
func (c *CellList) CellCount() int {
	return c.ndiv * c.ndiv
}

// NeighborsOf returns the half-stencil of cells that cell b has to pair
// against, including b itself as the first entry.
func (c *CellList) NeighborsOf(b int) []int {
	return c.nbrs[b]
}

// ParticlesIn returns the indices of the particles currently assigned
// to cell b, in insertion order.
func (c *CellList) ParticlesIn(b int) []int {
	return c.cells[b]
}
