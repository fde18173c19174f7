// Command flexure inspects, authors, places and exports flexure profiles.
//
// Usage:
//
//	flexure [-config file] [-log-level level] <command> [args]
//
// Commands:
//
//	list                       list library profiles
//	show REF                   print a profile table and its centroid
//	dump                       write the library as YAML
//	eval [-json] FILE          evaluate a profile source file
//	place [-x X -y Y -r R] [-o PATH] REF
//	                           fit a profile onto a round cut
//	export [-source FILE] REF PATH
//	                           write a profile to .dxf or .svg
//
// REF is "Category/Name" or a bare profile name.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/chazu/flexure/internal/config"
	"github.com/chazu/flexure/internal/logging"
	"github.com/chazu/flexure/pkg/library"
	"github.com/chazu/flexure/pkg/profile"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errUsage reports bad command line arguments; the usage text has already
// been printed.
var errUsage = errors.New("usage")

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("flexure", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	level := fs.String("log-level", "", "log level override (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	logger, err := logging.New(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log.Logger = logger

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("startup failed")
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "flexure: missing command (list, show, dump, eval, place, export)")
		return 2
	}
	cmd, cmdArgs := rest[0], rest[1:]

	switch cmd {
	case "list":
		err = cmdList(app, stdout)
	case "show":
		err = cmdShow(app, cmdArgs, stdout, stderr)
	case "dump":
		err = library.Dump(stdout, app.Library())
	case "eval":
		err = cmdEval(app, cmdArgs, stdout, stderr)
	case "place":
		err = cmdPlace(app, cmdArgs, stdout, stderr)
	case "export":
		err = cmdExport(app, cmdArgs, stderr)
	default:
		fmt.Fprintf(stderr, "flexure: unknown command %q\n", cmd)
		return 2
	}

	switch {
	case errors.Is(err, errUsage):
		return 2
	case err != nil:
		logger.Error().Err(err).Str("command", cmd).Msg("failed")
		return 1
	}
	return 0
}

func cmdList(app *App, stdout io.Writer) error {
	lib := app.Library()
	for _, cat := range lib.Categories() {
		fmt.Fprintf(stdout, "%s:\n", cat)
		for _, name := range lib.Names(cat) {
			p, _ := lib.Lookup(cat, name)
			fmt.Fprintf(stdout, "  %-24s %3d primitives\n", name, len(p))
		}
	}
	return nil
}

func cmdShow(app *App, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: flexure show REF")
		return errUsage
	}
	e, err := app.Lookup(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "# %s/%s\n%s\n", e.Category, e.Name, profile.Encode(e.Profile))
	c, err := profile.Centroid(e.Profile)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "# centroid (%g, %g, %g)\n", c.X, c.Y, c.Z)
	for _, w := range profile.Validate(e.Profile).Warnings {
		fmt.Fprintf(stdout, "# warning: primitive %d: %s\n", w.Index, w.Message)
	}
	return nil
}

func cmdEval(app *App, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print the full result, meshes included, as JSON")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: flexure eval [-json] FILE")
		return errUsage
	}
	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	res := app.Evaluate(string(src))
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		for _, p := range res.Profiles {
			fmt.Fprintf(stdout, "%s/%s: %d primitives", p.Category, p.Name, p.Primitives)
			if p.Centroid != nil {
				fmt.Fprintf(stdout, ", centroid (%g, %g, %g)", p.Centroid.X, p.Centroid.Y, p.Centroid.Z)
			}
			fmt.Fprintln(stdout)
		}
		for _, m := range res.Meshes {
			fmt.Fprintf(stdout, "mesh %s: %d triangles\n", m.Name, len(m.Indices)/3)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(stdout, "warning: %s\n", w.Message)
		}
		for _, e := range res.Errors {
			fmt.Fprintf(stdout, "error: line %d: %s\n", e.Line, e.Message)
		}
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%s: %d evaluation errors", fs.Arg(0), len(res.Errors))
	}
	return nil
}

func cmdPlace(app *App, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("place", flag.ContinueOnError)
	fs.SetOutput(stderr)
	x := fs.Float64("x", 0, "target circle center x")
	y := fs.Float64("y", 0, "target circle center y")
	r := fs.Float64("r", 1, "target circle radius")
	out := fs.String("o", "", "also export the placed profile to this .dxf or .svg file")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: flexure place [-x X -y Y -r R] [-o PATH] REF")
		return errUsage
	}

	target := profile.Profile{profile.Circle{Center: profile.Point{X: *x, Y: *y}, Radius: *r}}
	placed, err := app.Place(fs.Arg(0), target)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, profile.Encode(placed))
	if *out != "" {
		return app.Export(*out, fs.Arg(0), placed)
	}
	return nil
}

func cmdExport(app *App, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	source := fs.String("source", "", "resolve REF in the profiles defined by this source file")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: flexure export [-source FILE] REF PATH")
		return errUsage
	}
	ref, path := fs.Arg(0), fs.Arg(1)

	if *source == "" {
		e, err := app.Lookup(ref)
		if err != nil {
			return err
		}
		return app.Export(path, e.Name, e.Profile)
	}

	src, err := os.ReadFile(*source)
	if err != nil {
		return err
	}
	lib, err := app.EvaluateLibrary(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", *source, err)
	}
	e, err := lookupRef(lib, ref)
	if err != nil {
		return fmt.Errorf("%s: %w", *source, err)
	}
	return app.Export(path, e.Name, e.Profile)
}
