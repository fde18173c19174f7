package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chazu/flexure/internal/config"
	"github.com/chazu/flexure/pkg/engine"
	"github.com/chazu/flexure/pkg/export"
	"github.com/chazu/flexure/pkg/kernel"
	"github.com/chazu/flexure/pkg/kernel/sdfx"
	"github.com/chazu/flexure/pkg/library"
	"github.com/chazu/flexure/pkg/placement"
	"github.com/chazu/flexure/pkg/profile"
	"github.com/chazu/flexure/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to
// preview meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App ties the DSL engine, the profile library and the preview kernel
// together. The CLI drives everything through it.
type App struct {
	cfg    config.Config
	lib    *library.Library
	engine *engine.Engine
	kernel kernel.Kernel
	log    zerolog.Logger
}

// MeshData is the JSON-serializable preview mesh.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// ProfileData summarizes one evaluated profile.
type ProfileData struct {
	Category   string         `json:"category"`
	Name       string         `json:"name"`
	Primitives int            `json:"primitives"`
	Centroid   *profile.Point `json:"centroid,omitempty"`
	Source     string         `json:"source"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a source file.
type EvalResult struct {
	Profiles []ProfileData   `json:"profiles"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp builds an App from cfg. The built-in flexures are merged with
// cfg.LibraryFile when one is set.
func NewApp(cfg config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	lib := library.Default()
	if cfg.LibraryFile != "" {
		f, err := os.Open(cfg.LibraryFile)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		extra, err := library.Load(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("app: %s: %w", cfg.LibraryFile, err)
		}
		lib = library.Merge(lib, extra)
		log.Debug().Str("file", cfg.LibraryFile).Int("profiles", extra.Len()).Msg("merged library file")
	}
	cfg.Export.Tessellation = cfg.Tessellation
	return &App{
		cfg:    cfg,
		lib:    lib,
		engine: engine.NewEngine(lib),
		kernel: sdfx.New(sdfx.WithMeshCells(cfg.MeshCells)),
		log:    log,
	}, nil
}

// Library returns the base library profiles are resolved against.
func (a *App) Library() *library.Library { return a.lib }

// Evaluate runs DSL source and returns a summary and preview mesh for each
// profile it defines. Profiles without a closed loop get a warning instead
// of a mesh.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Profiles: []ProfileData{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, err := a.engine.EvaluateResult(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error().Err(err).Msg("evaluate failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}

	for i, e := range res.Library.Entries() {
		pd := ProfileData{
			Category:   e.Category,
			Name:       e.Name,
			Primitives: len(e.Profile),
			Source:     profile.Encode(e.Profile),
		}
		if c, err := profile.Centroid(e.Profile); err == nil {
			pd.Centroid = &c
		} else {
			result.Warnings = append(result.Warnings, EvalErrorData{
				Message: fmt.Sprintf("%s: no centroid: %v", e.Name, err),
			})
		}
		result.Profiles = append(result.Profiles, pd)

		m, err := a.Mesh(e.Name, e.Profile)
		if err != nil {
			a.log.Debug().Err(err).Str("profile", e.Name).Msg("no preview mesh")
			result.Warnings = append(result.Warnings, EvalErrorData{
				Message: fmt.Sprintf("%s: no preview: %v", e.Name, err),
			})
			continue
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	a.log.Info().
		Int("profiles", len(result.Profiles)).
		Int("meshes", len(result.Meshes)).
		Int("warnings", len(result.Warnings)).
		Msg("evaluated")
	return result
}

// EvaluateLibrary runs DSL source and returns the profiles it defines
// without building centroids or preview meshes. The first evaluation error
// is returned as an error.
func (a *App) EvaluateLibrary(source string) (*library.Library, error) {
	res, err := a.engine.EvaluateResult(source)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, res.Errors[0]
	}
	for _, w := range res.Warnings {
		a.log.Warn().Str("warning", w.String()).Msg("evaluate")
	}
	return res.Library, nil
}

// Mesh extrudes p by the configured preview thickness.
func (a *App) Mesh(name string, p profile.Profile) (*kernel.Mesh, error) {
	return tessellate.Tessellate(name, p, a.kernel, a.cfg.PreviewThickness, a.cfg.Tessellation)
}

// Lookup resolves ref against the library. ref is either "Category/Name"
// or a bare name searched across all categories.
func (a *App) Lookup(ref string) (library.Entry, error) {
	return lookupRef(a.lib, ref)
}

func lookupRef(lib *library.Library, ref string) (library.Entry, error) {
	if cat, name, ok := strings.Cut(ref, "/"); ok {
		p, found := lib.Lookup(cat, name)
		if !found {
			return library.Entry{}, fmt.Errorf("no profile %s/%s", cat, name)
		}
		return library.Entry{Category: cat, Name: name, Profile: p}, nil
	}
	e, ok := lib.Find(ref)
	if !ok {
		return library.Entry{}, fmt.Errorf("no profile named %q", ref)
	}
	return e, nil
}

// Place centers the library profile ref on target and scales it so the
// reference hub matches target's circle radius.
func (a *App) Place(ref string, target profile.Profile) (profile.Profile, error) {
	e, err := a.Lookup(ref)
	if err != nil {
		return nil, err
	}
	r, err := placement.TargetRadius(target)
	if err != nil {
		return nil, err
	}
	out, err := placement.PlaceWithReference(e.Profile, target, r, a.cfg.ReferenceRadius)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("profile", e.Name).Float64("radius", r).Msg("placed")
	return out, nil
}

// errUnknownFormat reports an export path whose extension has no writer.
var errUnknownFormat = errors.New("unknown export format")

// Export writes p to path, picking the writer from the file extension
// (.dxf or .svg).
func (a *App) Export(path, title string, p profile.Profile) error {
	opts := a.cfg.Export
	opts.Title = title
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dxf":
		if err := export.WriteDXF(path, p, opts); err != nil {
			return err
		}
	case ".svg":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := export.WriteSVG(f, p, opts); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	default:
		return fmt.Errorf("%s: %w", path, errUnknownFormat)
	}
	a.log.Info().Str("path", path).Int("primitives", len(p)).Msg("exported")
	return nil
}
