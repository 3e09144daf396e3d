package runtime

import "image"

// Surface is the drawing target a program renders into.
type Surface interface {
	Resize(width, height int)
	DrawImage(img image.Image, x, y, width, height int)
	ClearRect(x, y, width, height int)
	Width() int
	Height() int
}

// Images resolves image names used by `draw image`.
type Images interface {
	Image(name string) (image.Image, bool)
}

// Input exposes the pointer, keyboard and window state polled by the
// environment builtins.
type Input interface {
	WindowMouseX() float64
	WindowMouseY() float64
	CanvasMouseX() float64
	CanvasMouseY() float64
	MouseDown() bool
	WindowWidth() float64
	WindowHeight() float64
	KeyPressed(key string) bool
}

// Environment aggregates the host services a running program uses. The
// interpreter only calls into it while flushing the render queue and while
// evaluating input builtins.
type Environment interface {
	Input
	Surface() Surface
	Images() Images
}

// TickSource schedules callbacks once per frame, in the manner of a
// browser's requestAnimationFrame.
type TickSource interface {
	// Request schedules fn for the next frame and returns an id for Cancel.
	Request(fn func()) int
	// Cancel drops a pending request. Unknown ids are ignored.
	Cancel(id int)
}
