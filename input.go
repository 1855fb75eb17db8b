package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// dragState tracks a left-button drag in progress.
type dragState struct {
	active  bool
	panning bool
	startX  int
	startY  int
	lastX   int
	lastY   int
}

// InputHandler turns keyboard and mouse input into actions
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	drag                dragState
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	h.mousebindingManager.BeginTick()

	inputProcessed := false
	for _, action := range actionNames() {
		if h.keybindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
			continue
		}
		if h.mousebindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}

	inputProcessed = h.handleDragPan() || inputProcessed
	return inputProcessed
}

// handleDragPan scrolls the image while the left button is dragged in scroll mode.
func (h *InputHandler) handleDragPan() bool {
	settings := h.mousebindingManager.GetSettings()
	if !settings.EnableMouse || !settings.EnableDragPan {
		h.drag = dragState{}
		return false
	}

	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		h.drag = dragState{active: true, startX: x, startY: y, lastX: x, lastY: y}
		return false
	}
	if !h.drag.active {
		return false
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		h.drag = dragState{}
		return false
	}
	if h.inputState.ScrollVisibility() != ScrollAuto {
		return false
	}

	if !h.drag.panning {
		if !exceedsDragThreshold(x-h.drag.startX, y-h.drag.startY, settings.DragThreshold) {
			return false
		}
		h.drag.panning = true
	}

	dx, dy := x-h.drag.lastX, y-h.drag.lastY
	h.drag.lastX, h.drag.lastY = x, y
	if dx == 0 && dy == 0 {
		return false
	}
	// content follows the cursor
	h.inputActions.PanByDelta(-float64(dx)*settings.DragSensitivity, -float64(dy)*settings.DragSensitivity)
	return true
}

func exceedsDragThreshold(dx, dy, threshold int) bool {
	return math.Hypot(float64(dx), float64(dy)) >= float64(threshold)
}
