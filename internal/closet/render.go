package closet

// Renderer flattens a composition's placements into a single encoded image.
// Placements are given in stacking order, back to front.
type Renderer interface {
	Render(placements []Placement) ([]byte, error)
}
