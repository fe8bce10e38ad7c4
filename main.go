package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/df07/go-raycast/pkg/config"
	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/geometry"
	"github.com/df07/go-raycast/pkg/logger"
)

// options collects the command line settings
type options struct {
	scenePath string
	origin    string
	dir       string
	workers   int
	bvh       bool
	stlPath   string
	slices    int
}

func main() {
	// Parse command line flags
	var opts options
	flag.StringVar(&opts.scenePath, "scene", "", "Scene file (.json, .yaml or .yml); default is a lone unit box")
	flag.StringVar(&opts.origin, "origin", "", "Ray origin as x,y,z (overrides the scene's rays)")
	flag.StringVar(&opts.dir, "dir", "0,0,1", "Ray direction as x,y,z, used with -origin")
	flag.IntVar(&opts.workers, "workers", 0, "Workers for batch casting (0 = scene setting or one per CPU)")
	flag.BoolVar(&opts.bvh, "bvh", false, "Build a BVH before casting")
	flag.StringVar(&opts.stlPath, "stl", "", "Write the tessellated unit box to this STL file")
	flag.IntVar(&opts.slices, "slices", 10, "Grid divisions per box face for -stl")
	debug := flag.Bool("debug", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Unit box ray caster")
		fmt.Println("Usage: raycast [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Each ray prints its closest hit (t, point, normal, object) or 'miss'.")
		return
	}

	log, err := logger.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), opts, os.Stdout, log); err != nil {
		log.Error("raycast failed", zap.Error(err))
		os.Exit(1)
	}
}

// run executes one invocation, writing results to out
func run(ctx context.Context, opts options, out io.Writer, log *zap.Logger) error {
	if opts.stlPath != "" {
		if err := geometry.WriteSTL(opts.stlPath, opts.slices); err != nil {
			return err
		}
		log.Info("wrote mesh", zap.String("path", opts.stlPath), zap.Int("slices", opts.slices))
	}

	cfg, err := createConfig(opts.scenePath)
	if err != nil {
		return err
	}
	if opts.bvh {
		cfg.BVH = true
	}

	rays := cfg.WorldRays()
	if opts.origin != "" {
		ray, err := parseRay(opts.origin, opts.dir)
		if err != nil {
			return err
		}
		rays = []core.Ray{ray}
	}
	if len(rays) == 0 {
		if opts.stlPath != "" {
			return nil
		}
		return errors.New("no rays to cast: pass -origin or a scene with rays")
	}

	s, err := cfg.Build(log)
	if err != nil {
		return err
	}

	workers := opts.workers
	if workers == 0 {
		workers = cfg.Workers
	}
	hits, err := s.CastBatch(ctx, rays, workers)
	if err != nil {
		return fmt.Errorf("cast: %w", err)
	}

	for i, hit := range hits {
		fmt.Fprintf(out, "ray %d: %s\n", i, formatHit(hit))
	}
	return nil
}

// createConfig loads the scene file, or a single unit box when path is empty
func createConfig(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{Shapes: []config.ShapeCfg{{Type: "box", Name: "unit"}}}, nil
	}
	return config.Load(path)
}

// parseRay builds a ray from "x,y,z" origin and direction strings
func parseRay(origin, dir string) (core.Ray, error) {
	o, err := parseVec3(origin)
	if err != nil {
		return core.Ray{}, fmt.Errorf("origin: %w", err)
	}
	d, err := parseVec3(dir)
	if err != nil {
		return core.Ray{}, fmt.Errorf("dir: %w", err)
	}
	if d.LengthSquared() == 0 {
		return core.Ray{}, errors.New("dir: direction must not be zero")
	}
	return core.NewRay(o, d), nil
}

func parseVec3(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}

	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

func formatHit(hit core.HitRecord) string {
	if !hit.Valid() {
		return "miss"
	}
	return fmt.Sprintf("hit t=%.6g point=%s normal=%s object=%v",
		hit.T, formatVec(hit.Point), formatVec(hit.Normal), hit.Object)
}

func formatVec(v core.Vec3) string {
	// Round transform residue and -0 to a plain zero
	clean := func(f float64) float64 {
		if math.Abs(f) < 1e-12 {
			return 0
		}
		return f
	}
	return fmt.Sprintf("(%.6g, %.6g, %.6g)", clean(v.X), clean(v.Y), clean(v.Z))
}
