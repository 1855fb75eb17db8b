package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// overlayMessageDuration is how long ShowOverlayMessage text stays on screen.
const overlayMessageDuration = 2 * time.Second

// RenderState is what the Renderer reads each frame. Game implements it.
type RenderState interface {
	IsFullscreen() bool
	GetBackground() Color

	// GetDisplayTexture is the flattened current image, nil before the
	// first successful load. GetDisplayRect is where it goes in window
	// coordinates, already scaled and scrolled.
	GetDisplayTexture() *ebiten.Image
	GetDisplayRect() Rect

	IsShowingHelp() bool
	IsShowingInfo() bool
	GetStatusText() string // tab-separated columns
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// help overlay
	GetFontSize() float64
	GetSortMethodName() string
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// InputActions are the operations bindings can trigger.
type InputActions interface {
	Exit()
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()
	ToggleScroll()
	CycleSortMethod()

	NavigateNext()
	NavigatePrevious()

	OpenFile()
	CopyToClipboard()
	SaveAs()

	// ZoomIn and ZoomOut keep the point under the cursor fixed.
	ZoomIn()
	ZoomOut()
	ZoomReset()
	ScrollBy(dx, dy float64)
	PanByDelta(dx, dy float64)

	ShowOverlayMessage(message string)
}

// InputState lets the action executor decide whether an action applies.
type InputState interface {
	HasImage() bool
	IsFullscreen() bool
	ScrollVisibility() ScrollVisibility
	CanScrollHorizontally() bool
	ScrollStep() float64
}
