// Package config reads scene descriptions from JSON or YAML and turns them
// into a scene of placed primitives.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/geometry"
	"github.com/df07/go-raycast/pkg/logger"
	"github.com/df07/go-raycast/pkg/scene"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid scene config")

// Format selects the scene file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Triple is an x, y, z value as written in scene files
type Triple [3]float64

// Vec3 converts the triple to a vector
func (t Triple) Vec3() core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}

// ShapeCfg places one primitive in the scene
type ShapeCfg struct {
	Type string `json:"type" yaml:"type"` // "box" or "sphere"
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Placement: scale, then rotate (degrees, X then Y then Z), then translate.
	// A missing scale means 1,1,1.
	Translate Triple  `json:"translate,omitempty" yaml:"translate,omitempty"`
	Scale     *Triple `json:"scale,omitempty" yaml:"scale,omitempty"`
	Rotate    Triple  `json:"rotate,omitempty" yaml:"rotate,omitempty"`

	// Box only: "first-axis" (default) or "blend"
	NormalPolicy string `json:"normalPolicy,omitempty" yaml:"normalPolicy,omitempty"`
}

// RayCfg is a world-space ray to cast
type RayCfg struct {
	Origin    Triple `json:"origin" yaml:"origin"`
	Direction Triple `json:"direction" yaml:"direction"`
}

// Config is the top level of a scene file
type Config struct {
	Shapes  []ShapeCfg `json:"shapes" yaml:"shapes"`
	Rays    []RayCfg   `json:"rays,omitempty" yaml:"rays,omitempty"`
	Workers int        `json:"workers,omitempty" yaml:"workers,omitempty"`
	BVH     bool       `json:"bvh,omitempty" yaml:"bvh,omitempty"`
}

// Load reads and validates a scene file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}

	cfg, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return cfg, nil
}

// FormatForPath picks a Format from the file extension
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes and validates a scene description. Unknown fields are
// rejected so that typos do not silently drop settings.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported scene format %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every shape and ray, reporting all problems at once
func (c *Config) Validate() error {
	var errs []error

	for i, s := range c.Shapes {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("shape %d (%s): %w", i, s.Name, err))
		}
	}
	for i, r := range c.Rays {
		if r.Direction.Vec3().LengthSquared() == 0 {
			errs = append(errs, fmt.Errorf("ray %d: %w: zero direction", i, ErrInvalid))
		}
		if !r.Origin.Vec3().IsFinite() || !r.Direction.Vec3().IsFinite() {
			errs = append(errs, fmt.Errorf("ray %d: %w: non-finite component", i, ErrInvalid))
		}
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers must not be negative", ErrInvalid))
	}

	return errors.Join(errs...)
}

func (s ShapeCfg) validate() error {
	switch s.Type {
	case "box":
		if _, err := geometry.ParseNormalPolicy(s.NormalPolicy); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	case "sphere":
		if s.NormalPolicy != "" {
			return fmt.Errorf("%w: normalPolicy only applies to boxes", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown shape type %q", ErrInvalid, s.Type)
	}

	scale := s.scale()
	if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
		return fmt.Errorf("%w: scale %v has a zero component", ErrInvalid, scale)
	}
	return nil
}

func (s ShapeCfg) scale() core.Vec3 {
	if s.Scale == nil {
		return core.NewVec3(1, 1, 1)
	}
	return s.Scale.Vec3()
}

// Primitive builds the placed primitive described by s
func (s ShapeCfg) Primitive() (*geometry.Transformed, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	var local core.Primitive
	switch s.Type {
	case "box":
		policy, err := geometry.ParseNormalPolicy(s.NormalPolicy)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		local = &geometry.Box{Name: s.Name, Policy: policy}
	case "sphere":
		local = geometry.NewSphere(s.Name)
	}

	return geometry.NewTransformed(local, geometry.TRS(s.Translate.Vec3(), s.scale(), s.Rotate.Vec3()))
}

// Build creates the scene, building the BVH when the config asks for it
func (c *Config) Build(log *zap.Logger) (*scene.Scene, error) {
	log = logger.OrNop(log)
	s := scene.New(log)

	for i, shape := range c.Shapes {
		prim, err := shape.Primitive()
		if err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", i, shape.Name, err)
		}
		s.Add(prim)
		log.Debug("placed shape",
			zap.Int("index", i),
			zap.String("type", shape.Type),
			zap.String("name", shape.Name))
	}

	if c.BVH {
		s.Preprocess()
	}

	log.Info("scene ready",
		zap.Int("shapes", len(s.Primitives)),
		zap.Bool("bvh", c.BVH))
	return s, nil
}

// WorldRays returns the configured rays
func (c *Config) WorldRays() []core.Ray {
	rays := make([]core.Ray, len(c.Rays))
	for i, r := range c.Rays {
		rays[i] = core.NewRay(r.Origin.Vec3(), r.Direction.Vec3())
	}
	return rays
}
