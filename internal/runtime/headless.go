package runtime

// InputState is a fixed snapshot of pointer and keyboard state.
type InputState struct {
	WindowMouseX, WindowMouseY float64
	CanvasMouseX, CanvasMouseY float64
	MouseDown                  bool
	WindowWidth, WindowHeight  float64
	Keys                       map[string]bool
}

// Headless is an Environment without a window: it renders into a Raster and
// reports a fixed input state.
type Headless struct {
	raster *Raster
	images Images
	Input  InputState
}

func NewHeadless(raster *Raster, images Images, input InputState) *Headless {
	if images == nil {
		images = ImageLibrary{}
	}
	return &Headless{raster: raster, images: images, Input: input}
}

func (h *Headless) Surface() Surface { return h.raster }
func (h *Headless) Images() Images   { return h.images }

// Raster returns the surface as its concrete type, for snapshots.
func (h *Headless) Raster() *Raster { return h.raster }

func (h *Headless) WindowMouseX() float64 { return h.Input.WindowMouseX }
func (h *Headless) WindowMouseY() float64 { return h.Input.WindowMouseY }
func (h *Headless) CanvasMouseX() float64 { return h.Input.CanvasMouseX }
func (h *Headless) CanvasMouseY() float64 { return h.Input.CanvasMouseY }
func (h *Headless) MouseDown() bool       { return h.Input.MouseDown }
func (h *Headless) WindowWidth() float64  { return h.Input.WindowWidth }
func (h *Headless) WindowHeight() float64 { return h.Input.WindowHeight }

func (h *Headless) KeyPressed(key string) bool { return h.Input.Keys[key] }
