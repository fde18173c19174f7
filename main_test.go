package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI runs the command line with a coarse preview mesh and returns the
// exit code and both output streams.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "flexure.yaml")
	if err := os.WriteFile(cfgPath, []byte("mesh_cells: 40\nlog_level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-config", cfgPath}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLIList(t *testing.T) {
	code, out, _ := runCLI(t, "list")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{"Circular:", "1st Flexure", "67 primitives", "Square:", "Triangular:"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIShow(t *testing.T) {
	code, out, _ := runCLI(t, "show", "Circular/1st Flexure")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.HasPrefix(out, "# Circular/1st Flexure\n[\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "# centroid (") {
		t.Errorf("missing centroid:\n%s", out)
	}
	if strings.Count(out, "('arc'") != 6 {
		t.Errorf("expected 6 arcs:\n%s", out)
	}
}

func TestCLIDump(t *testing.T) {
	code, out, _ := runCLI(t, "dump")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.HasPrefix(out, "categories:") || !strings.Contains(out, "3rd Flexure") {
		t.Errorf("unexpected dump:\n%.200s", out)
	}
}

func TestCLIEval(t *testing.T) {
	code, out, _ := runCLI(t, "eval", "examples/flexures.flex")
	if code != 0 {
		t.Fatalf("exit %d:\n%s", code, out)
	}
	for _, want := range []string{"Demo/washer: 2 primitives", "Placed/big-third: 67 primitives", "mesh slot:"} {
		if !strings.Contains(out, want) {
			t.Errorf("eval output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIEvalJSON(t *testing.T) {
	code, out, _ := runCLI(t, "eval", "-json", "examples/flexures.flex")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out, `"profiles": [`) || !strings.Contains(out, `"vertices": [`) {
		t.Errorf("unexpected JSON:\n%.300s", out)
	}
}

func TestCLIEvalErrors(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.flex")
	if err := os.WriteFile(src, []byte(`(defprofile "x" (profile "nope"))`), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, _ := runCLI(t, "eval", src)
	if code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if !strings.Contains(out, "error: ") {
		t.Errorf("missing error line:\n%s", out)
	}
}

func TestCLIPlace(t *testing.T) {
	dxfPath := filepath.Join(t.TempDir(), "placed.dxf")
	code, out, _ := runCLI(t, "place", "-x", "3", "-y", "4", "-r", "2", "-o", dxfPath, "3rd Flexure")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out, "('circle', [((3.0, 4.0, 0.0), 1.99998") {
		t.Errorf("hub not placed at (3, 4):\n%s", out)
	}
	if _, err := os.Stat(dxfPath); err != nil {
		t.Errorf("export file: %v", err)
	}
}

func TestCLIExport(t *testing.T) {
	dir := t.TempDir()

	svgPath := filepath.Join(dir, "first.svg")
	if code, _, _ := runCLI(t, "export", "1st Flexure", svgPath); code != 0 {
		t.Fatalf("export: exit %d", code)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "<path") != 7 {
		t.Errorf("expected 7 paths in %s", svgPath)
	}

	dxfPath := filepath.Join(dir, "slot.dxf")
	if code, _, _ := runCLI(t, "export", "-source", "examples/flexures.flex", "Demo/slot", dxfPath); code != 0 {
		t.Fatalf("export -source: exit %d", code)
	}
	if _, err := os.Stat(dxfPath); err != nil {
		t.Errorf("export file: %v", err)
	}

	if code, _, _ := runCLI(t, "export", "-source", "examples/flexures.flex", "nope", dxfPath); code != 1 {
		t.Errorf("unknown source profile: exit %d, want 1", code)
	}
}

func TestCLIUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"frobnicate"}, 2},
		{"show without ref", []string{"show"}, 2},
		{"eval without file", []string{"eval"}, 2},
		{"export one arg", []string{"export", "1st Flexure"}, 2},
		{"missing profile", []string{"show", "nope"}, 1},
		{"missing file", []string{"eval", "no/such/file.flex"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit %d, want %d", code, tt.code)
			}
		})
	}
}

func TestCLIBadConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", "no/such/config.yaml", "list"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if code := run([]string{"-log-level", "chatty", "list"}, &stdout, &stderr); code != 1 {
		t.Errorf("bad log level: exit %d, want 1", code)
	}
}
