package main

// ActionExecutor provides centralized action execution logic shared by
// KeybindingManager and MousebindingManager.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction executes the given action using the InputActions interface.
// It returns false for unknown actions.
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		inputActions.Exit()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "next":
		inputActions.NavigateNext()
	case "previous":
		inputActions.NavigatePrevious()
	case "fullscreen":
		inputActions.ToggleFullscreen()
	case "exit_fullscreen":
		if inputState.IsFullscreen() {
			inputActions.ToggleFullscreen()
		}
	case "toggle_scroll":
		inputActions.ToggleScroll()
	case "cycle_sort":
		inputActions.CycleSortMethod()

	case "open":
		inputActions.OpenFile()
	case "copy":
		inputActions.CopyToClipboard()
	case "save":
		inputActions.SaveAs()

	case "zoom_in":
		inputActions.ZoomIn()
	case "zoom_out":
		inputActions.ZoomOut()
	case "zoom_reset":
		inputActions.ZoomReset()

	case "left":
		if inputState.CanScrollHorizontally() {
			inputActions.ScrollBy(-inputState.ScrollStep(), 0)
		} else {
			inputActions.NavigatePrevious()
		}
	case "right":
		if inputState.CanScrollHorizontally() {
			inputActions.ScrollBy(inputState.ScrollStep(), 0)
		} else {
			inputActions.NavigateNext()
		}
	case "up":
		inputActions.ScrollBy(0, -inputState.ScrollStep())
	case "down":
		inputActions.ScrollBy(0, inputState.ScrollStep())

	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()
