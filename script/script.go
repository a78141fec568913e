// Package script defines the narrative as data: camera, scene objects, UI
// panels, projection anchors and the ordered step list.
package script

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultScript []byte

// Object and panel IDs the session binds to directly
const (
	ObjectPhone = "smartphone"
	ObjectLink  = "harmonylink"

	PanelSignal          = "signal"
	PanelLinkSignal      = "harmonylink_signal"
	PanelInstructionText = "instruction_text"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid script")

// Vec is a YAML [x, y, z] triple
type Vec [3]float64

// CameraSpec configures the perspective camera
type CameraSpec struct {
	Position Vec     `yaml:"position"`
	Target   Vec     `yaml:"target"`
	FOV      float64 `yaml:"fov"`
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
}

// ObjectSpec describes one scene object and the model it loads from
type ObjectSpec struct {
	ID          string `yaml:"id"`
	Model       string `yaml:"model"`
	Position    Vec    `yaml:"position"`
	HalfExtents Vec    `yaml:"half_extents"`
	Scale       *Vec   `yaml:"scale,omitempty"`
	Draggable   bool   `yaml:"draggable"`
}

// AnchorSpec pins a panel to a world position
type AnchorSpec struct {
	Element  string `yaml:"element"`
	Position Vec    `yaml:"position"`
}

// PanelSpec is a UI overlay; At names the anchor element it renders at, defaulting to ID
type PanelSpec struct {
	ID      string `yaml:"id"`
	Text    string `yaml:"text"`
	At      string `yaml:"at,omitempty"`
	Visible bool   `yaml:"visible"`
}

// EffectSpec is a one-shot eased translation
type EffectSpec struct {
	Target     string `yaml:"target"`
	Translate  Vec    `yaml:"translate"`
	DurationMS int    `yaml:"duration_ms"`
	Ease       string `yaml:"ease"`
}

// StepSpec is one narrative step
type StepSpec struct {
	ID                 string      `yaml:"id"`
	After              string      `yaml:"after,omitempty"`
	Hide               []string    `yaml:"hide,omitempty"`
	Show               []string    `yaml:"show,omitempty"`
	DelayMS            int         `yaml:"delay_ms"`
	Reveal             string      `yaml:"reveal,omitempty"`
	RequiresConnection bool        `yaml:"requires_connection"`
	Effect             *EffectSpec `yaml:"effect,omitempty"`
}

// Script is the whole narrative document
type Script struct {
	Camera CameraSpec `yaml:"camera"`

	// Indicator is the world position of the connection status sphere
	Indicator Vec `yaml:"indicator"`

	Objects []ObjectSpec `yaml:"objects"`
	Anchors []AnchorSpec `yaml:"anchors"`
	Panels  []PanelSpec  `yaml:"panels"`
	Steps   []StepSpec   `yaml:"steps"`
}

// Parse decodes and validates a script; unknown keys are rejected
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("decode script: %w", err)
	}
	s.applyDefaults()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a script file
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// Default returns the embedded built-in script
func Default() (*Script, error) {
	s, err := Parse(defaultScript)
	if err != nil {
		return nil, fmt.Errorf("built-in script: %w", err)
	}
	return s, nil
}

// LoadOrDefault loads path, or the built-in script when path is empty
func LoadOrDefault(path string) (*Script, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

func (s *Script) applyDefaults() {
	if s.Camera.FOV == 0 {
		s.Camera.FOV = 60
	}
	if s.Camera.Near == 0 {
		s.Camera.Near = 0.1
	}
	if s.Camera.Far == 0 {
		s.Camera.Far = 1000
	}
	for i := range s.Panels {
		if s.Panels[i].At == "" {
			s.Panels[i].At = s.Panels[i].ID
		}
	}
}

// Panel returns the panel spec by ID
func (s *Script) Panel(id string) (PanelSpec, bool) {
	for _, p := range s.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return PanelSpec{}, false
}
