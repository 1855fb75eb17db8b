package main

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), ".nimv.json")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfigDefaults(t *testing.T) {
	result := loadConfigFromPath(filepath.Join(t.TempDir(), "nonexistent.json"))

	if result.Status != "Default" || result.HasError || len(result.Warnings) != 0 {
		t.Errorf("status %q hasError %v warnings %v", result.Status, result.HasError, result.Warnings)
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("Default config mismatch.\nExpected: %+v\nGot: %+v", defaultConfig(), result.Config)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Syntax error", `{"window_width": 1000,`},
		{"Type mismatch", `{"keybindings": {"exit": ["KeyX"]}, "window_width": "wide"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.content))
			if result.Status != "Error" || !result.HasError {
				t.Errorf("status %q hasError %v, want Error", result.Status, result.HasError)
			}
			if len(result.Warnings) != 1 {
				t.Errorf("warnings = %v, want one", result.Warnings)
			}
			if !reflect.DeepEqual(result.Config, defaultConfig()) {
				t.Errorf("invalid config did not fall back to defaults: %+v", result.Config)
			}
		})
	}
}

func TestLoadConfigValid(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{
		"window_width": 1000,
		"window_height": 800,
		"background_color": "#102030",
		"zoom_step": 0.25,
		"sort_method": 1,
		"cache_size": 8,
		"preload_enabled": false,
		"keybindings": {"exit": ["Ctrl+KeyQ"]}
	}`))

	if result.Status != "OK" {
		t.Fatalf("status %q, warnings %v", result.Status, result.Warnings)
	}
	c := result.Config
	if c.WindowWidth != 1000 || c.WindowHeight != 800 {
		t.Errorf("window %dx%d", c.WindowWidth, c.WindowHeight)
	}
	if c.Background() != (Color{A: 255, R: 0x10, G: 0x20, B: 0x30}) {
		t.Errorf("Background() = %+v", c.Background())
	}
	if c.ZoomStep != 0.25 || c.SortMethod != SortNatural || c.CacheSize != 8 || c.PreloadEnabled {
		t.Errorf("unexpected config %+v", c)
	}
	if !slices.Equal(c.Keybindings["exit"], []string{"Ctrl+KeyQ"}) {
		t.Errorf("exit keys = %v", c.Keybindings["exit"])
	}
	if !slices.Equal(c.Keybindings["next"], GetDefaultKeybindings()["next"]) {
		t.Errorf("unlisted action lost its default keys: %v", c.Keybindings["next"])
	}
	if c.ScrollStep != defaultScrollStep || c.Mouse != GetDefaultMouseSettings() {
		t.Errorf("omitted fields did not keep defaults: %+v", c)
	}
}

func TestLoadConfigClampsOutOfRangeValues(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{
		"window_width": 200,
		"window_height": 100,
		"background_color": "red",
		"zoom_step": 1.5,
		"scroll_step": -3,
		"help_font_size": 4,
		"sort_method": 9,
		"cache_size": 100,
		"preload_count": -3,
		"mouse": {"double_click_time": 10, "wheel_sensitivity": 0}
	}`))

	if result.Status != "Warning" || result.HasError {
		t.Fatalf("status %q hasError %v, want Warning", result.Status, result.HasError)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected schema warnings")
	}

	c := result.Config
	defaults := defaultConfig()
	checks := []struct {
		name      string
		got, want any
	}{
		{"window_width", c.WindowWidth, defaultWidth},
		{"window_height", c.WindowHeight, defaultHeight},
		{"background_color", c.BackgroundColor, defaults.BackgroundColor},
		{"zoom_step", c.ZoomStep, defaultZoomStep},
		{"scroll_step", c.ScrollStep, defaultScrollStep},
		{"help_font_size", c.HelpFontSize, defaultHelpFontSize},
		{"sort_method", c.SortMethod, SortOrdinalIgnoreCase},
		{"cache_size", c.CacheSize, 64},
		{"preload_count", c.PreloadCount, 0},
		{"double_click_time", c.Mouse.DoubleClickTime, defaults.Mouse.DoubleClickTime},
		{"wheel_sensitivity", c.Mouse.WheelSensitivity, defaults.Mouse.WheelSensitivity},
	}
	for _, check := range checks {
		if check.got != check.want {
			t.Errorf("%s = %v, want %v", check.name, check.got, check.want)
		}
	}
}

func TestLoadConfigUnknownFieldWarns(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{"right_to_left": true}`))
	if result.Status != "Warning" {
		t.Errorf("status %q, want Warning", result.Status)
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("unknown field changed the config")
	}
}

func TestLoadConfigInvalidBindings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Unknown key", `{"keybindings": {"next": ["KeyNope"]}}`},
		{"Unknown modifier", `{"keybindings": {"next": ["Hyper+KeyN"]}}`},
		{"Unknown action", `{"keybindings": {"rotate": ["KeyR"]}}`},
		{"Conflict with default", `{"keybindings": {"exit": ["KeyN"]}}`},
		{"Conflict ignoring case", `{"keybindings": {"exit": ["ctrl+KeyO"]}}`},
		{"Unknown mouse action", `{"mousebindings": {"next": ["TripleClick"]}}`},
		{"Mouse conflict", `{"mousebindings": {"exit": ["WheelUp"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.content))
			if result.Status != "Warning" {
				t.Errorf("status %q, want Warning", result.Status)
			}
			if !reflect.DeepEqual(result.Config.Keybindings, GetDefaultKeybindings()) {
				t.Errorf("keybindings did not fall back to defaults: %v", result.Config.Keybindings)
			}
			if !reflect.DeepEqual(result.Config.Mousebindings, GetDefaultMousebindings()) {
				t.Errorf("mouse bindings did not fall back to defaults: %v", result.Config.Mousebindings)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".nimv.json")

	config := defaultConfig()
	config.WindowWidth = 1280
	config.SortMethod = SortSimple
	config.BackgroundColor = "#112233"
	config.Keybindings["exit"] = []string{"Ctrl+KeyQ", "KeyX"}
	saveConfigToPath(config, configPath)

	result := loadConfigFromPath(configPath)
	if result.Status != "OK" {
		t.Fatalf("status %q, warnings %v", result.Status, result.Warnings)
	}
	if !reflect.DeepEqual(result.Config, config) {
		t.Errorf("round trip mismatch.\nExpected: %+v\nGot: %+v", config, result.Config)
	}
}

func TestSaveConfigRejectsSmallWindow(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".nimv.json")
	config := defaultConfig()
	config.WindowWidth = 10
	saveConfigToPath(config, configPath)

	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Errorf("config with invalid window size was written (stat err %v)", err)
	}
}

func TestGetSortMethodName(t *testing.T) {
	if got := getSortMethodName(SortNatural); got != "Natural" {
		t.Errorf("getSortMethodName(SortNatural) = %q", got)
	}
	if got := getSortMethodName(99); got != getSortMethodName(SortOrdinalIgnoreCase) {
		t.Errorf("unknown sort method should fall back to ordinal, got %q", got)
	}
}

func TestLoadConfigTranslucentBackgroundIsOpaque(t *testing.T) {
	configPath := writeConfig(t, `{"background_color": "#00112233"}`)

	result := loadConfigFromPath(configPath)
	if result.Status != "Warning" {
		t.Errorf("status %q, want Warning", result.Status)
	}
	if result.Config.BackgroundColor != "#112233" {
		t.Errorf("BackgroundColor = %q, want #112233", result.Config.BackgroundColor)
	}
	want := Color{A: 255, R: 0x11, G: 0x22, B: 0x33}
	if got := result.Config.Background(); got != want {
		t.Errorf("Background() = %+v, want %+v", got, want)
	}

	// whatever the stored string says, flattening onto the background is opaque
	cfg := defaultConfig()
	cfg.BackgroundColor = "#00112233"
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, A: 100})
	if err := FlattenTransparency(context.Background(), cfg.Background(), img); err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 2; x++ {
		if a := img.NRGBAAt(x, 0).A; a != 255 {
			t.Errorf("pixel %d alpha = %d after flattening, want 255", x, a)
		}
	}
}
