package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings is the "mouse" section of the config file.
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	DoubleClickTime  int     `json:"double_click_time"` // ms
	DragThreshold    int     `json:"drag_threshold"`    // px before a press becomes a pan
	EnableMouse      bool    `json:"enable_mouse"`
	WheelInverted    bool    `json:"wheel_inverted"`
	EnableDragPan    bool    `json:"enable_drag_pan"`
	DragSensitivity  float64 `json:"drag_sensitivity"`
}

func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1,
		DoubleClickTime:  300,
		DragThreshold:    5,
		EnableMouse:      true,
		EnableDragPan:    true,
		DragSensitivity:  1,
	}
}

// DoubleClickTracker pairs consecutive presses of the same button.
type DoubleClickTracker struct {
	button  ebiten.MouseButton
	at      time.Time
	pending bool
}

// register records a click at now and reports whether it completes a
// double click within window.
func (t *DoubleClickTracker) register(button ebiten.MouseButton, now time.Time, window time.Duration) bool {
	double := t.pending && t.button == button && now.Sub(t.at) <= window
	t.pending = !double
	t.button, t.at = button, now
	return double
}

// MouseCombination is one parsed mouse binding such as "Ctrl+WheelUp".
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaX   float64
	WheelDeltaY   float64
	IsDoubleClick bool
	Shift         bool
	Ctrl          bool
	Alt           bool
}

// MousebindingManager resolves mouse bindings against this tick's input.
type MousebindingManager struct {
	mousebindings map[string][]string
	mouseMapping  map[string]ebiten.MouseButton
	parsed        map[string][]MouseCombination
	settings      MouseSettings
	tracker       DoubleClickTracker

	// presses seen in the current tick, filled by BeginTick
	pressed map[ebiten.MouseButton]bool
	doubled map[ebiten.MouseButton]bool
}

func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{
		mouseMapping: getMouseMapping(),
		settings:     settings,
	}
	mm.UpdateMousebindings(mousebindings)
	return mm
}

// getMouseMapping maps button names used in bindings to ebiten buttons.
func getMouseMapping() map[string]ebiten.MouseButton {
	return map[string]ebiten.MouseButton{
		"LeftClick":   ebiten.MouseButtonLeft,
		"RightClick":  ebiten.MouseButtonRight,
		"MiddleClick": ebiten.MouseButtonMiddle,
		"Back":        ebiten.MouseButton3,
		"Forward":     ebiten.MouseButton4,
	}
}

// wheelDirections gives the wheel delta signs each wheel binding matches.
var wheelDirections = map[string][2]float64{
	"WheelUp":    {0, 1},
	"WheelDown":  {0, -1},
	"WheelLeft":  {-1, 0},
	"WheelRight": {1, 0},
}

// parseMouseString parses "[Mod+]...Input" where Input is a button name,
// "Double" followed by a button name, or a wheel direction.
func (mm *MousebindingManager) parseMouseString(mouseStr string) (MouseCombination, error) {
	parts := strings.Split(mouseStr, "+")
	name := parts[len(parts)-1]

	var c MouseCombination
	if dir, ok := wheelDirections[name]; ok {
		c.IsWheel = true
		c.WheelDeltaX, c.WheelDeltaY = dir[0], dir[1]
	} else {
		buttonName, double := strings.CutPrefix(name, "Double")
		button, ok := mm.mouseMapping[buttonName]
		if !ok {
			return MouseCombination{}, fmt.Errorf("unknown mouse input: %s", name)
		}
		c.Button, c.IsDoubleClick = button, double
	}

	var err error
	if c.Shift, c.Ctrl, c.Alt, err = parseModifiers(parts[:len(parts)-1]); err != nil {
		return MouseCombination{}, err
	}
	return c, nil
}

// Wheel returns the wheel movement this tick with sensitivity and inversion applied.
func (mm *MousebindingManager) Wheel() (float64, float64) {
	wheelX, wheelY := ebiten.Wheel()
	if mm.settings.WheelInverted {
		wheelY = -wheelY
	}
	return wheelX * mm.settings.WheelSensitivity, wheelY * mm.settings.WheelSensitivity
}

// BeginTick registers this tick's clicks with the double-click tracker.
// Call it once per Update before checking actions.
func (mm *MousebindingManager) BeginTick() {
	mm.pressed = map[ebiten.MouseButton]bool{}
	mm.doubled = map[ebiten.MouseButton]bool{}
	if !mm.settings.EnableMouse {
		return
	}
	window := time.Duration(mm.settings.DoubleClickTime) * time.Millisecond
	for _, button := range mm.mouseMapping {
		if inpututil.IsMouseButtonJustPressed(button) {
			mm.pressed[button] = true
			mm.doubled[button] = mm.tracker.register(button, time.Now(), window)
		}
	}
}

func (mm *MousebindingManager) fires(combination MouseCombination) bool {
	if !mm.settings.EnableMouse {
		return false
	}
	if !modifiersMatch(combination.Shift, combination.Ctrl, combination.Alt) {
		return false
	}

	if combination.IsWheel {
		wheelX, wheelY := mm.Wheel()
		if combination.WheelDeltaX != 0 {
			return combination.WheelDeltaX*wheelX > 0
		}
		return combination.WheelDeltaY*wheelY > 0
	}

	if combination.IsDoubleClick {
		return mm.doubled[combination.Button]
	}
	return mm.pressed[combination.Button]
}

// CheckAction reports whether any binding of action fired this tick.
func (mm *MousebindingManager) CheckAction(action string) bool {
	for _, combination := range mm.parsed[action] {
		if mm.fires(combination) {
			return true
		}
	}
	return false
}

func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	return mm.CheckAction(action) && globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// UpdateMousebindings replaces the mouse bindings. Unparseable strings are
// logged and skipped.
func (mm *MousebindingManager) UpdateMousebindings(mousebindings map[string][]string) {
	mm.mousebindings = mousebindings
	mm.parsed = make(map[string][]MouseCombination, len(mousebindings))
	for action, inputs := range mousebindings {
		for _, mouseStr := range inputs {
			combination, err := mm.parseMouseString(mouseStr)
			if err != nil {
				debugLog("Ignoring mouse binding '%s' for action '%s': %v", mouseStr, action, err)
				continue
			}
			mm.parsed[action] = append(mm.parsed[action], combination)
		}
	}
}

func (mm *MousebindingManager) GetSettings() MouseSettings {
	return mm.settings
}
