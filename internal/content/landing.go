// Package content loads the static marketing copy shown on the landing page.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LandingFile is the path of the landing copy inside the content filesystem.
const LandingFile = "landing.yaml"

// Stat is a headline number in the hero.
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Link is a call-to-action button.
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Hero is the top banner.
type Hero struct {
	Badge     string `yaml:"badge"`
	Title     string `yaml:"title"`
	Highlight string `yaml:"highlight"`
	Subtitle  string `yaml:"subtitle"`
	Primary   Link   `yaml:"primary"`
	Secondary Link   `yaml:"secondary"`
	Stats     []Stat `yaml:"stats"`
}

// Feature is one entry of the feature grid.
type Feature struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// EventPreview is a showcased upcoming event.
type EventPreview struct {
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	Date            string `yaml:"date"`
	Time            string `yaml:"time"`
	Location        string `yaml:"location"`
	Category        string `yaml:"category"`
	Participants    int    `yaml:"participants"`
	MaxParticipants int    `yaml:"max_participants"`
	Prize           string `yaml:"prize"`
}

// FillPercent is the share of seats taken, clamped to 0..100.
func (e EventPreview) FillPercent() int {
	if e.MaxParticipants <= 0 || e.Participants <= 0 {
		return 0
	}
	if e.Participants >= e.MaxParticipants {
		return 100
	}
	return e.Participants * 100 / e.MaxParticipants
}

// Landing is the whole landing page copy.
type Landing struct {
	Hero     Hero           `yaml:"hero"`
	Features []Feature      `yaml:"features"`
	Events   []EventPreview `yaml:"events"`
}

// ParseLanding decodes landing copy. Unknown keys are rejected so typos in
// the content file surface at startup.
func ParseLanding(data []byte) (Landing, error) {
	var l Landing
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return Landing{}, fmt.Errorf("parse landing content: %w", err)
	}
	if l.Hero.Title == "" {
		return Landing{}, errors.New("parse landing content: hero.title is required")
	}
	return l, nil
}

// LoadLanding reads LandingFile from fsys.
func LoadLanding(fsys fs.FS) (Landing, error) {
	data, err := fs.ReadFile(fsys, LandingFile)
	if err != nil {
		return Landing{}, fmt.Errorf("read landing content: %w", err)
	}
	return ParseLanding(data)
}

// LoadLandingFile reads landing copy from a path on disk (dev mode).
func LoadLandingFile(path string) (Landing, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return Landing{}, fmt.Errorf("read landing content: %w", err)
	}
	return ParseLanding(data)
}
