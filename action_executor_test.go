package main

import (
	"fmt"
	"slices"
	"testing"
)

// recordingActions records every InputActions call.
type recordingActions struct {
	calls []string
}

func (r *recordingActions) record(call string) { r.calls = append(r.calls, call) }

func (r *recordingActions) Exit() { r.record("Exit") }
func (r *recordingActions) ToggleHelp() { r.record("ToggleHelp") }
func (r *recordingActions) ToggleInfo() { r.record("ToggleInfo") }
func (r *recordingActions) ToggleFullscreen() { r.record("ToggleFullscreen") }
func (r *recordingActions) ToggleScroll() { r.record("ToggleScroll") }
func (r *recordingActions) CycleSortMethod() { r.record("CycleSortMethod") }
func (r *recordingActions) NavigateNext() { r.record("NavigateNext") }
func (r *recordingActions) NavigatePrevious() { r.record("NavigatePrevious") }
func (r *recordingActions) OpenFile() { r.record("OpenFile") }
func (r *recordingActions) CopyToClipboard() { r.record("CopyToClipboard") }
func (r *recordingActions) SaveAs() { r.record("SaveAs") }
func (r *recordingActions) ZoomIn() { r.record("ZoomIn") }
func (r *recordingActions) ZoomOut() { r.record("ZoomOut") }
func (r *recordingActions) ZoomReset() { r.record("ZoomReset") }
func (r *recordingActions) ShowOverlayMessage(string) {}

func (r *recordingActions) ScrollBy(dx, dy float64) {
	r.record(fmt.Sprintf("ScrollBy(%g,%g)", dx, dy))
}

func (r *recordingActions) PanByDelta(dx, dy float64) {
	r.record(fmt.Sprintf("PanByDelta(%g,%g)", dx, dy))
}

type stubInputState struct {
	hasImage   bool
	fullscreen bool
	scroll     ScrollVisibility
	horizontal bool
}

func (s stubInputState) HasImage() bool { return s.hasImage }
func (s stubInputState) IsFullscreen() bool { return s.fullscreen }
func (s stubInputState) ScrollVisibility() ScrollVisibility { return s.scroll }
func (s stubInputState) CanScrollHorizontally() bool { return s.horizontal }
func (s stubInputState) ScrollStep() float64 { return 12 }

func TestExecuteAction(t *testing.T) {
	tests := []struct {
		action   string
		state    stubInputState
		expected []string
	}{
		{"exit", stubInputState{}, []string{"Exit"}},
		{"help", stubInputState{}, []string{"ToggleHelp"}},
		{"next", stubInputState{}, []string{"NavigateNext"}},
		{"previous", stubInputState{}, []string{"NavigatePrevious"}},
		{"fullscreen", stubInputState{}, []string{"ToggleFullscreen"}},
		{"exit_fullscreen", stubInputState{}, nil},
		{"exit_fullscreen", stubInputState{fullscreen: true}, []string{"ToggleFullscreen"}},
		{"toggle_scroll", stubInputState{}, []string{"ToggleScroll"}},
		{"cycle_sort", stubInputState{}, []string{"CycleSortMethod"}},
		{"open", stubInputState{}, []string{"OpenFile"}},
		{"copy", stubInputState{}, []string{"CopyToClipboard"}},
		{"save", stubInputState{}, []string{"SaveAs"}},
		{"zoom_in", stubInputState{}, []string{"ZoomIn"}},
		{"zoom_out", stubInputState{}, []string{"ZoomOut"}},
		{"zoom_reset", stubInputState{}, []string{"ZoomReset"}},
		{"left", stubInputState{}, []string{"NavigatePrevious"}},
		{"left", stubInputState{horizontal: true}, []string{"ScrollBy(-12,0)"}},
		{"right", stubInputState{}, []string{"NavigateNext"}},
		{"right", stubInputState{horizontal: true}, []string{"ScrollBy(12,0)"}},
		{"up", stubInputState{}, []string{"ScrollBy(0,-12)"}},
		{"down", stubInputState{}, []string{"ScrollBy(0,12)"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%+v", tt.action, tt.state), func(t *testing.T) {
			actions := &recordingActions{}
			if !globalActionExecutor.ExecuteAction(tt.action, actions, tt.state) {
				t.Fatalf("action %q not handled", tt.action)
			}
			if !slices.Equal(actions.calls, tt.expected) {
				t.Errorf("calls = %v, want %v", actions.calls, tt.expected)
			}
		})
	}
}

func TestExecuteActionUnknown(t *testing.T) {
	actions := &recordingActions{}
	if globalActionExecutor.ExecuteAction("rotate", actions, stubInputState{}) {
		t.Error("unknown action reported as handled")
	}
	if len(actions.calls) != 0 {
		t.Errorf("unknown action made calls %v", actions.calls)
	}
}

func TestEveryDefinedActionIsExecutable(t *testing.T) {
	for _, name := range actionNames() {
		if !globalActionExecutor.ExecuteAction(name, &recordingActions{}, stubInputState{}) {
			t.Errorf("action %q is defined but not executable", name)
		}
	}
}

func TestExceedsDragThreshold(t *testing.T) {
	tests := []struct {
		dx, dy, threshold int
		expected          bool
	}{
		{0, 0, 5, false},
		{3, 3, 5, false},
		{3, 4, 5, true},
		{-10, 0, 5, true},
		{0, 0, 0, true},
	}
	for _, tt := range tests {
		if got := exceedsDragThreshold(tt.dx, tt.dy, tt.threshold); got != tt.expected {
			t.Errorf("exceedsDragThreshold(%d, %d, %d) = %v, want %v", tt.dx, tt.dy, tt.threshold, got, tt.expected)
		}
	}
}
