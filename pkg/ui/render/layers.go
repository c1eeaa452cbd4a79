package render

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// CenterRect returns a rectangle centered within the screen bounds.
// Width/height are clamped to the screen size before centering.
func CenterRect(panelW, panelH, screenW, screenH int) Rect {
	w := max(panelW, 0)
	h := max(panelH, 0)
	screenW = max(screenW, 0)
	screenH = max(screenH, 0)
	w = min(w, screenW)
	h = min(h, screenH)

	var x, y int
	if screenW > w {
		x = (screenW - w) / 2
	}
	if screenH > h {
		y = (screenH - h) / 2
	}
	return ClampRect(Rect{X: x, Y: y, W: w, H: h}, screenW, screenH)
}

// BottomRightRect anchors a panel to the bottom-right corner, inset by
// margin cells on both axes.
func BottomRightRect(panelW, panelH, screenW, screenH, margin int) Rect {
	margin = max(margin, 0)
	x := screenW - panelW - margin
	y := screenH - panelH - margin
	return ClampRect(Rect{X: x, Y: y, W: panelW, H: panelH}, screenW, screenH)
}

// ClampRect clamps a rectangle to the screen bounds.
func ClampRect(r Rect, screenW, screenH int) Rect {
	screenW = max(screenW, 0)
	screenH = max(screenH, 0)
	r.W = max(r.W, 0)
	r.H = max(r.H, 0)
	r.X = min(max(r.X, 0), screenW)
	r.Y = min(max(r.Y, 0), screenH)
	if r.X+r.W > screenW {
		r.W = screenW - r.X
	}
	if r.Y+r.H > screenH {
		r.H = screenH - r.Y
	}
	r.W = max(r.W, 0)
	r.H = max(r.H, 0)
	return r
}
