package testutil

import "closet-go/internal/closet"

// StubRenderer records what it was asked to render and returns fixed bytes.
type StubRenderer struct {
	Rendered [][]closet.Placement
	Output   []byte
	Err      error
}

var _ closet.Renderer = (*StubRenderer)(nil)

// NewStubRenderer creates a StubRenderer that returns "preview" bytes.
func NewStubRenderer() *StubRenderer {
	return &StubRenderer{Output: []byte("preview")}
}

func (r *StubRenderer) Render(placements []closet.Placement) ([]byte, error) {
	r.Rendered = append(r.Rendered, placements)
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Output, nil
}
