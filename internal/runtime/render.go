package runtime

import "fmt"

// RenderRequest is one staged drawing side effect: *ResizeRequest,
// *DrawRequest or *ClearRectRequest.
type RenderRequest interface {
	renderRequest()
	String() string
}

type ResizeRequest struct {
	Width, Height int
}

type DrawRequest struct {
	ImageName           string
	X, Y, Width, Height int
}

type ClearRectRequest struct {
	X, Y, Width, Height int
}

func (*ResizeRequest) renderRequest()    {}
func (*DrawRequest) renderRequest()      {}
func (*ClearRectRequest) renderRequest() {}

func (r *ResizeRequest) String() string {
	return fmt.Sprintf("resize %dx%d", r.Width, r.Height)
}

func (r *DrawRequest) String() string {
	return fmt.Sprintf("draw %q at (%d, %d) size %dx%d", r.ImageName, r.X, r.Y, r.Width, r.Height)
}

func (r *ClearRectRequest) String() string {
	return fmt.Sprintf("clear (%d, %d) size %dx%d", r.X, r.Y, r.Width, r.Height)
}

// Apply performs req against env. A draw naming an image env does not know
// is an error.
func Apply(env Environment, req RenderRequest) error {
	switch r := req.(type) {
	case *ResizeRequest:
		env.Surface().Resize(r.Width, r.Height)
	case *DrawRequest:
		img, ok := env.Images().Image(r.ImageName)
		if !ok {
			return fmt.Errorf("attempted to draw non-existent image %q", r.ImageName)
		}
		env.Surface().DrawImage(img, r.X, r.Y, r.Width, r.Height)
	case *ClearRectRequest:
		env.Surface().ClearRect(r.X, r.Y, r.Width, r.Height)
	default:
		return fmt.Errorf("unknown render request %T", req)
	}
	return nil
}
