package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// Window size constants
const (
	defaultWidth  = 1024
	defaultHeight = 768
	minWidth      = 400
	minHeight     = 300
)

const (
	defaultScrollStep   = 12.0
	defaultHelpFontSize = 20.0
	defaultCacheSize    = 16
	defaultPreloadCount = 2
)

// configSchema describes ~/.nimv.json. Values the schema rejects are
// reported as warnings and then clamped or replaced by defaults.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "window_width":     {"type": "integer", "minimum": 400},
    "window_height":    {"type": "integer", "minimum": 300},
    "background_color": {"type": "string", "pattern": "^#[0-9A-Fa-f]{6}$"},
    "zoom_step":        {"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 1},
    "scroll_step":      {"type": "number", "exclusiveMinimum": 0},
    "help_font_size":   {"type": "number", "minimum": 12},
    "sort_method":      {"type": "integer", "enum": [0, 1, 2, 3]},
    "fullscreen":       {"type": "boolean"},
    "cache_size":       {"type": "integer", "minimum": 1, "maximum": 64},
    "preload_enabled":  {"type": "boolean"},
    "preload_count":    {"type": "integer", "minimum": 0, "maximum": 16},
    "keybindings": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    },
    "mousebindings": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    },
    "mouse": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "wheel_sensitivity": {"type": "number", "exclusiveMinimum": 0},
        "double_click_time": {"type": "integer", "minimum": 50, "maximum": 2000},
        "drag_threshold":    {"type": "integer", "minimum": 0},
        "enable_mouse":      {"type": "boolean"},
        "wheel_inverted":    {"type": "boolean"},
        "enable_drag_pan":   {"type": "boolean"},
        "drag_sensitivity":  {"type": "number", "exclusiveMinimum": 0}
      }
    }
  }
}`

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth     int                 `json:"window_width"`
	WindowHeight    int                 `json:"window_height"`
	BackgroundColor string              `json:"background_color"`
	ZoomStep        float64             `json:"zoom_step"`
	ScrollStep      float64             `json:"scroll_step"`
	HelpFontSize    float64             `json:"help_font_size"`
	SortMethod      int                 `json:"sort_method"`
	Fullscreen      bool                `json:"fullscreen"`
	CacheSize       int                 `json:"cache_size"`
	PreloadEnabled  bool                `json:"preload_enabled"`
	PreloadCount    int                 `json:"preload_count"`
	Keybindings     map[string][]string `json:"keybindings"`
	Mousebindings   map[string][]string `json:"mousebindings"`
	Mouse           MouseSettings       `json:"mouse"`
}

// Background returns the parsed background color, falling back to the
// default. The result is always opaque; an alpha channel is ignored.
func (c Config) Background() Color {
	bg, err := ParseHexColor(c.BackgroundColor)
	if err != nil {
		return DefaultBackground
	}
	bg.A = 255
	return bg
}

func defaultConfig() Config {
	return Config{
		WindowWidth:     defaultWidth,
		WindowHeight:    defaultHeight,
		BackgroundColor: DefaultBackground.Hex(),
		ZoomStep:        defaultZoomStep,
		ScrollStep:      defaultScrollStep,
		HelpFontSize:    defaultHelpFontSize,
		SortMethod:      SortOrdinalIgnoreCase,
		Fullscreen:      false,
		CacheSize:       defaultCacheSize,
		PreloadEnabled:  true,
		PreloadCount:    defaultPreloadCount,
		Keybindings:     GetDefaultKeybindings(),
		Mousebindings:   GetDefaultMousebindings(),
		Mouse:           GetDefaultMouseSettings(),
	}
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "nimv.json"
	}
	return filepath.Join(homeDir, ".nimv.json")
}

// validateConfigSchema checks raw config JSON against configSchema and
// returns one message per violation.
func validateConfigSchema(data []byte) ([]string, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, err
	}
	var violations []string
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return violations, nil
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.Config = defaultConfig()
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("Warning: %s", msg)
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, msg)
	}

	violations, err := validateConfigSchema(data)
	if err != nil {
		warn("Config schema check failed: %v", err)
	}
	for _, v := range violations {
		warn("Config: %s", v)
	}

	// Clamp whatever the schema flagged back into range
	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}
	if bg, err := ParseHexColor(config.BackgroundColor); err != nil {
		config.BackgroundColor = DefaultBackground.Hex()
	} else if bg.A != 255 {
		config.BackgroundColor = config.Background().Hex()
	}
	if config.ZoomStep <= 0 || config.ZoomStep >= 1 {
		config.ZoomStep = defaultZoomStep
	}
	if config.ScrollStep <= 0 {
		config.ScrollStep = defaultScrollStep
	}
	if config.HelpFontSize < 12.0 {
		config.HelpFontSize = defaultHelpFontSize
	}
	if config.SortMethod < SortOrdinalIgnoreCase || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortOrdinalIgnoreCase
	}
	if config.CacheSize < 1 {
		config.CacheSize = defaultCacheSize
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}
	if config.PreloadCount < 0 {
		config.PreloadCount = 0
	} else if config.PreloadCount > 16 {
		config.PreloadCount = 16
	}
	config.Mouse = clampMouseSettings(config.Mouse)

	if err := validateKeybindings(fillDefaults(&config.Keybindings, GetDefaultKeybindings())); err != nil {
		warn("Invalid keybindings detected, using defaults: %v", err)
		config.Keybindings = GetDefaultKeybindings()
	}
	if err := validateMousebindings(fillDefaults(&config.Mousebindings, GetDefaultMousebindings())); err != nil {
		warn("Invalid mouse bindings detected, using defaults: %v", err)
		config.Mousebindings = GetDefaultMousebindings()
	}

	result.Config = config
	return result
}

// fillDefaults adds the default bindings of actions missing from *bindings.
func fillDefaults(bindings *map[string][]string, defaults map[string][]string) map[string][]string {
	if *bindings == nil {
		*bindings = defaults
		return *bindings
	}
	for action, keys := range defaults {
		if _, exists := (*bindings)[action]; !exists {
			(*bindings)[action] = keys
		}
	}
	return *bindings
}

func clampMouseSettings(m MouseSettings) MouseSettings {
	defaults := GetDefaultMouseSettings()
	if m.WheelSensitivity <= 0 {
		m.WheelSensitivity = defaults.WheelSensitivity
	}
	if m.DoubleClickTime < 50 || m.DoubleClickTime > 2000 {
		m.DoubleClickTime = defaults.DoubleClickTime
	}
	if m.DragThreshold < 0 {
		m.DragThreshold = defaults.DragThreshold
	}
	if m.DragSensitivity <= 0 {
		m.DragSensitivity = defaults.DragSensitivity
	}
	return m
}

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	km := &KeybindingManager{keyMapping: getKeyMapping()}
	return validateBindings(keybindings, func(s string) error {
		_, err := km.parseKeyString(s)
		return err
	})
}

// validateMousebindings validates the mouse bindings configuration
func validateMousebindings(mousebindings map[string][]string) error {
	mm := &MousebindingManager{mouseMapping: getMouseMapping()}
	return validateBindings(mousebindings, func(s string) error {
		_, err := mm.parseMouseString(s)
		return err
	})
}

// validateBindings checks every binding string of known actions and detects
// an input bound to two actions.
func validateBindings(bindings map[string][]string, parse func(string) error) error {
	known := make(map[string]bool)
	for _, name := range actionNames() {
		known[name] = true
	}

	inputToAction := make(map[string]string)
	for action, inputs := range bindings {
		if !known[action] {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, input := range inputs {
			if err := parse(input); err != nil {
				return fmt.Errorf("invalid input '%s' for action '%s': %v", input, action, err)
			}
			normalized := strings.ToLower(input)
			if existingAction, exists := inputToAction[normalized]; exists && existingAction != action {
				return fmt.Errorf("conflict: '%s' is bound to both '%s' and '%s'", input, existingAction, action)
			}
			inputToAction[normalized] = action
		}
	}
	return nil
}

// getSortMethodName returns the human-readable name of a sort method
func getSortMethodName(sortMethod int) string {
	return GetSortStrategy(sortMethod).Name()
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		log.Printf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Printf("Error: Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		log.Printf("Error: Failed to save config to %s: %v", configPath, err)
	}
}
