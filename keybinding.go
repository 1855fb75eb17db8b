package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key repeat timing in ticks (60 per second).
const (
	keyRepeatDelay    = 24
	keyRepeatInterval = 3
)

// KeybindingManager handles dynamic keybinding processing
type KeybindingManager struct {
	keybindings map[string][]string
	keyMapping  map[string]ebiten.Key
	parsed      map[string][]KeyCombination
}

// NewKeybindingManager creates a new KeybindingManager
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	km := &KeybindingManager{
		keyMapping: getKeyMapping(),
	}
	km.UpdateKeybindings(keybindings)
	return km
}

// getKeyMapping returns a mapping from string keys to Ebiten keys
func getKeyMapping() map[string]ebiten.Key {
	return map[string]ebiten.Key{
		// Letters
		"KeyA": ebiten.KeyA, "KeyB": ebiten.KeyB, "KeyC": ebiten.KeyC, "KeyD": ebiten.KeyD,
		"KeyE": ebiten.KeyE, "KeyF": ebiten.KeyF, "KeyG": ebiten.KeyG, "KeyH": ebiten.KeyH,
		"KeyI": ebiten.KeyI, "KeyJ": ebiten.KeyJ, "KeyK": ebiten.KeyK, "KeyL": ebiten.KeyL,
		"KeyM": ebiten.KeyM, "KeyN": ebiten.KeyN, "KeyO": ebiten.KeyO, "KeyP": ebiten.KeyP,
		"KeyQ": ebiten.KeyQ, "KeyR": ebiten.KeyR, "KeyS": ebiten.KeyS, "KeyT": ebiten.KeyT,
		"KeyU": ebiten.KeyU, "KeyV": ebiten.KeyV, "KeyW": ebiten.KeyW, "KeyX": ebiten.KeyX,
		"KeyY": ebiten.KeyY, "KeyZ": ebiten.KeyZ,

		// Numbers
		"Key0": ebiten.Key0, "Key1": ebiten.Key1, "Key2": ebiten.Key2, "Key3": ebiten.Key3,
		"Key4": ebiten.Key4, "Key5": ebiten.Key5, "Key6": ebiten.Key6, "Key7": ebiten.Key7,
		"Key8": ebiten.Key8, "Key9": ebiten.Key9,

		// Numpad
		"Numpad0": ebiten.KeyNumpad0, "Numpad1": ebiten.KeyNumpad1, "Numpad2": ebiten.KeyNumpad2,
		"Numpad3": ebiten.KeyNumpad3, "Numpad4": ebiten.KeyNumpad4, "Numpad5": ebiten.KeyNumpad5,
		"Numpad6": ebiten.KeyNumpad6, "Numpad7": ebiten.KeyNumpad7, "Numpad8": ebiten.KeyNumpad8,
		"Numpad9": ebiten.KeyNumpad9,

		// Function keys
		"F1": ebiten.KeyF1, "F2": ebiten.KeyF2, "F3": ebiten.KeyF3, "F4": ebiten.KeyF4,
		"F5": ebiten.KeyF5, "F6": ebiten.KeyF6, "F7": ebiten.KeyF7, "F8": ebiten.KeyF8,
		"F9": ebiten.KeyF9, "F10": ebiten.KeyF10, "F11": ebiten.KeyF11, "F12": ebiten.KeyF12,

		// Special keys
		"Space":       ebiten.KeySpace,
		"Backspace":   ebiten.KeyBackspace,
		"Enter":       ebiten.KeyEnter,
		"Escape":      ebiten.KeyEscape,
		"Tab":         ebiten.KeyTab,
		"Home":        ebiten.KeyHome,
		"End":         ebiten.KeyEnd,
		"PageUp":      ebiten.KeyPageUp,
		"PageDown":    ebiten.KeyPageDown,
		"ArrowUp":     ebiten.KeyArrowUp,
		"ArrowDown":   ebiten.KeyArrowDown,
		"ArrowLeft":   ebiten.KeyArrowLeft,
		"ArrowRight":  ebiten.KeyArrowRight,
		"Delete":      ebiten.KeyDelete,
		"NumpadEnter": ebiten.KeyNumpadEnter,

		// Punctuation
		"Comma":     ebiten.KeyComma,
		"Period":    ebiten.KeyPeriod,
		"Slash":     ebiten.KeySlash,
		"Semicolon": ebiten.KeySemicolon,
		"Quote":     ebiten.KeyQuote,
		"Minus":     ebiten.KeyMinus,
		"Equal":     ebiten.KeyEqual,
	}
}

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key   ebiten.Key
	Shift bool
	Ctrl  bool
	Alt   bool
}

// parseModifiers sets the modifier flags named by parts. It fails on an
// unknown modifier name.
func parseModifiers(parts []string) (shift, ctrl, alt bool, err error) {
	for _, p := range parts {
		switch strings.ToLower(p) {
		case "shift":
			shift = true
		case "ctrl":
			ctrl = true
		case "alt":
			alt = true
		default:
			return false, false, false, fmt.Errorf("unknown modifier: %s", p)
		}
	}
	return shift, ctrl, alt, nil
}

// parseKeyString parses a key string like "Shift+KeyB" into a KeyCombination
func (km *KeybindingManager) parseKeyString(keyStr string) (KeyCombination, error) {
	parts := strings.Split(keyStr, "+")
	keyName := parts[len(parts)-1]
	if keyName == "" {
		return KeyCombination{}, fmt.Errorf("empty key string")
	}
	key, exists := km.keyMapping[keyName]
	if !exists {
		return KeyCombination{}, fmt.Errorf("unknown key: %s", keyName)
	}

	shift, ctrl, alt, err := parseModifiers(parts[:len(parts)-1])
	if err != nil {
		return KeyCombination{}, err
	}
	return KeyCombination{Key: key, Shift: shift, Ctrl: ctrl, Alt: alt}, nil
}

// modifiersMatch checks that exactly the wanted modifiers are held.
func modifiersMatch(shift, ctrl, alt bool) bool {
	return shift == ebiten.IsKeyPressed(ebiten.KeyShift) &&
		ctrl == ebiten.IsKeyPressed(ebiten.KeyControl) &&
		alt == ebiten.IsKeyPressed(ebiten.KeyAlt)
}

// isKeyTriggered checks if a key combination fires this tick. Repeating
// combinations also fire while held past the repeat delay.
func (km *KeybindingManager) isKeyTriggered(combination KeyCombination, repeat bool) bool {
	if !keyFires(inpututil.KeyPressDuration(combination.Key), repeat) {
		return false
	}
	return modifiersMatch(combination.Shift, combination.Ctrl, combination.Alt)
}

// keyFires reports whether a key held for duration ticks fires.
func keyFires(duration int, repeat bool) bool {
	if duration == 1 {
		return true
	}
	if !repeat || duration < keyRepeatDelay {
		return false
	}
	return (duration-keyRepeatDelay)%keyRepeatInterval == 0
}

// CheckAction checks if any keybinding for the given action is pressed
func (km *KeybindingManager) CheckAction(action string) bool {
	repeat := isRepeatAction(action)
	for _, combination := range km.parsed[action] {
		if km.isKeyTriggered(combination, repeat) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (km *KeybindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !km.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// GetKeybindings returns the current keybindings map (for display purposes)
func (km *KeybindingManager) GetKeybindings() map[string][]string {
	return km.keybindings
}

// UpdateKeybindings replaces the keybindings. Unparseable strings are
// logged and skipped.
func (km *KeybindingManager) UpdateKeybindings(keybindings map[string][]string) {
	km.keybindings = keybindings
	km.parsed = make(map[string][]KeyCombination, len(keybindings))
	for action, keys := range keybindings {
		for _, keyStr := range keys {
			combination, err := km.parseKeyString(keyStr)
			if err != nil {
				debugLog("Ignoring key '%s' for action '%s': %v", keyStr, action, err)
				continue
			}
			km.parsed[action] = append(km.parsed[action], combination)
		}
	}
}
