// Package extension loads extension manifests: YAML files declaring the
// polls, categories, selections, choices and game modes an extension module
// contributes to the vote catalog.
package extension

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"
)

// APIVersion is the registration API version manifests are checked against.
const APIVersion = "1.0.0"

var ErrInvalidManifest = errors.New("invalid extension manifest")
var ErrIncompatible = errors.New("extension requires an incompatible API version")

var manifestValidate *validator.Validate

func init() {
	manifestValidate = validator.New()
	_ = manifestValidate.RegisterValidation("semverconstraint", validateConstraint)
}

func validateConstraint(fl validator.FieldLevel) bool {
	_, err := semver.NewConstraint(fl.Field().String())
	return err == nil
}

type Color struct {
	R float32 `yaml:"r" validate:"gte=0,lte=1"`
	G float32 `yaml:"g" validate:"gte=0,lte=1"`
	B float32 `yaml:"b" validate:"gte=0,lte=1"`
	A float32 `yaml:"a" validate:"gte=0,lte=1"`
}

type Choice struct {
	Name      string `yaml:"name" validate:"required"`
	NameColor Color  `yaml:"nameColor"`
	Body      string `yaml:"body"`
	BodyColor Color  `yaml:"bodyColor"`
	Icon      string `yaml:"icon"`
	// VoteBit defaults to -1 (no bit) when omitted.
	VoteBit *int   `yaml:"voteBit" validate:"omitempty,gte=-1,lte=31"`
	Poll    string `yaml:"poll" validate:"required"`
	Payload any    `yaml:"payload"`
}

type Selection struct {
	Name    string   `yaml:"name" validate:"required"`
	Default int      `yaml:"default" validate:"gte=0"`
	Choices []Choice `yaml:"choices" validate:"required,min=1,dive"`
}

type Category struct {
	Name       string      `yaml:"name" validate:"required"`
	Color      Color       `yaml:"color"`
	AfterHost  bool        `yaml:"afterHost"`
	Selections []Selection `yaml:"selections" validate:"dive"`
}

type GameMode struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	BannedItems []string `yaml:"bannedItems"`
}

// Manifest describes one extension module.
type Manifest struct {
	Name       string     `yaml:"name" validate:"required"`
	Version    string     `yaml:"version" validate:"required,semver"`
	APIVersion string     `yaml:"apiVersion" validate:"required,semverconstraint"`
	Polls      []string   `yaml:"polls" validate:"dive,required"`
	GameModes  []GameMode `yaml:"gameModes" validate:"dive"`
	Categories []Category `yaml:"categories" validate:"dive"`

	path string
}

// Parse decodes and validates a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.path = path
	return m, nil
}

// LoadAll loads every manifest matched by patterns. Matches of one pattern
// load in lexical order, patterns in the order given.
func LoadAll(patterns []string) ([]*Manifest, error) {
	var manifests []*Manifest
	for _, pattern := range patterns {
		paths, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("manifest pattern %q: %w", pattern, err)
		}
		sort.Strings(paths)
		for _, path := range paths {
			m, err := Load(path)
			if err != nil {
				return nil, err
			}
			manifests = append(manifests, m)
		}
	}
	return manifests, nil
}

// Validate checks field constraints, default choice bounds and API
// compatibility.
func (m *Manifest) Validate() error {
	if err := manifestValidate.Struct(m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	for _, c := range m.Categories {
		for _, s := range c.Selections {
			if s.Default >= len(s.Choices) {
				return fmt.Errorf("%w: selection %q default %d out of %d choices", ErrInvalidManifest, s.Name, s.Default, len(s.Choices))
			}
		}
	}

	constraint, err := semver.NewConstraint(m.APIVersion)
	if err != nil {
		return fmt.Errorf("%w: apiVersion %q: %v", ErrInvalidManifest, m.APIVersion, err)
	}
	if !constraint.Check(semver.MustParse(APIVersion)) {
		return fmt.Errorf("%w: %s wants %s, have %s", ErrIncompatible, m.Name, m.APIVersion, APIVersion)
	}
	return nil
}

// Path is the file the manifest was loaded from, if any.
func (m *Manifest) Path() string {
	return m.path
}

func (m *Manifest) String() string {
	return strings.TrimSpace(m.Name + " " + m.Version)
}
