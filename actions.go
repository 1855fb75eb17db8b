package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
	// Repeat fires the action repeatedly while a bound key is held.
	Repeat bool
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions
var actionDefinitions = []ActionDefinition{
	{Name: "exit", Keys: []string{"KeyQ"}, Description: "Quit application"},
	{Name: "help", Keys: []string{"Shift+Slash", "F1"}, MouseActions: []string{"Alt+RightClick"}, Description: "Show/hide help"},
	{Name: "info", Keys: []string{"KeyI"}, Description: "Show/hide status bar"},
	{Name: "next", Keys: []string{"KeyN", "PageDown", "Space"}, MouseActions: []string{"Forward"}, Description: "Next image in folder"},
	{Name: "previous", Keys: []string{"KeyP", "PageUp", "Backspace"}, MouseActions: []string{"Back"}, Description: "Previous image in folder"},
	{Name: "fullscreen", Keys: []string{"F11"}, MouseActions: []string{"DoubleLeftClick"}, Description: "Toggle fullscreen"},
	{Name: "exit_fullscreen", Keys: []string{"Escape"}, Description: "Leave fullscreen"},
	{Name: "toggle_scroll", Keys: []string{"Enter", "NumpadEnter"}, MouseActions: []string{"MiddleClick"}, Description: "Toggle scroll mode (leaving it resets zoom)"},
	{Name: "cycle_sort", Keys: []string{"Shift+KeyS"}, MouseActions: []string{"Alt+MiddleClick"}, Description: "Cycle sort method"},

	// File actions
	{Name: "open", Keys: []string{"Ctrl+KeyO"}, Description: "Open image"},
	{Name: "copy", Keys: []string{"Ctrl+KeyC"}, Description: "Copy image to clipboard"},
	{Name: "save", Keys: []string{"Ctrl+KeyS"}, Description: "Export flattened image as PNG"},

	// Zoom actions
	{Name: "zoom_in", Keys: []string{"Equal", "Shift+Equal"}, MouseActions: []string{"WheelUp"}, Description: "Zoom in at cursor"},
	{Name: "zoom_out", Keys: []string{"Minus"}, MouseActions: []string{"WheelDown"}, Description: "Zoom out at cursor"},
	{Name: "zoom_reset", Keys: []string{"Key0"}, MouseActions: []string{"Shift+MiddleClick"}, Description: "Back to unscaled view"},

	// Arrow actions: scroll when there is room, otherwise left/right navigate
	{Name: "left", Keys: []string{"ArrowLeft"}, Description: "Scroll left or previous image", Repeat: true},
	{Name: "right", Keys: []string{"ArrowRight"}, Description: "Scroll right or next image", Repeat: true},
	{Name: "up", Keys: []string{"ArrowUp"}, Description: "Scroll up", Repeat: true},
	{Name: "down", Keys: []string{"ArrowDown"}, Description: "Scroll down", Repeat: true},
}

// actionNames returns the action names in definition order.
func actionNames() []string {
	names := make([]string, len(actionDefinitions))
	for i, action := range actionDefinitions {
		names[i] = action.Name
	}
	return names
}

// isRepeatAction reports whether holding a key repeats the action.
func isRepeatAction(name string) bool {
	for _, action := range actionDefinitions {
		if action.Name == name {
			return action.Repeat
		}
	}
	return false
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string{}, action.Keys...)
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string{}, action.MouseActions...)
	}
	return mousebindings
}
