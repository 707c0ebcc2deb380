package planexport

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aerissecure/planexport/layout"
	"github.com/aerissecure/planexport/pdf"
)

// Config holds the settings an Exporter renders with.
type Config struct {
	// SystemName is printed in document footers and metadata.
	SystemName string           `yaml:"system_name"`
	Layout     layout.Constants `yaml:"layout"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{SystemName: pdf.DefaultSystemName, Layout: layout.Default()}
}

// DefaultConfigYAML documents every setting with its default value. Lengths
// are in millimetres.
const DefaultConfigYAML = `system_name: Lesson Planner
layout:
  # A4 portrait page and margins.
  page_width: 210
  page_height: 297
  margin_left: 15
  margin_right: 15
  margin_top: 12
  margin_bottom: 20
  # Repeated at the top of every page after the cover.
  running_header_height: 18
  section_gap: 6
  # Daily block geometry used by the height estimator.
  day_header_height: 10
  topic_height: 12
  field_height: 12
  notes_base_height: 8
  line_height: 4.5
  chars_per_line: 50
  topic_chars_per_line: 40
  block_padding: 6
  empty_state_height: 24
  # Weekly notes longer than this go to the appendix instead of the overview.
  overview_notes_max_lines: 10
  # Workbook notes region sizing.
  grid_chars_per_line: 100
  min_note_rows: 3
  max_note_rows: 20
`

// ParseConfig overlays the YAML document in data on DefaultConfig and
// validates the layout.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode: %w", err)
		}
	}
	if cfg.SystemName == "" {
		cfg.SystemName = pdf.DefaultSystemName
	}
	if err := cfg.Layout.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return ParseConfig(data)
}
