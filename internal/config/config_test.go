package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Grid.Dims() != 1 || cfg.Grid.Nx != 200 {
		t.Errorf("expected a 200-cell line, got %+v", cfg.Grid)
	}
	if cfg.Steps != 500 {
		t.Errorf("expected 500 steps, got %d", cfg.Steps)
	}
	if cfg.Courant != 1 {
		t.Errorf("expected S=1, got %f", cfg.Courant)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	srcs, err := cfg.EngineSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(srcs) != 1 || srcs[0].Mode != fdtd.Overwrite || srcs[0].Window != 20 {
		t.Errorf("unexpected default source %+v", srcs)
	}
}

func TestCourantLimit(t *testing.T) {
	if CourantLimit(1) != 1 {
		t.Errorf("1D limit: got %f", CourantLimit(1))
	}
	if got := CourantLimit(2); got < 0.7071 || got > 0.7072 {
		t.Errorf("2D limit: got %f", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"ok", func(c *Config) {}, nil},
		{"zero steps", func(c *Config) { c.Steps = 0 }, ErrInvalidSteps},
		{"unstable 1D", func(c *Config) { c.Courant = 1.5 }, ErrUnstable},
		{"unstable allowed", func(c *Config) { c.Courant = 1.5; c.AllowUnstable = true }, nil},
		{"unstable 2D", func(c *Config) { c.Grid = fdtd.Shape2D(50, 50); c.Courant = 0.8 }, ErrUnstable},
		{"2D at limit", func(c *Config) { c.Grid = fdtd.Shape2D(50, 50); c.Courant = 0.7071 }, nil},
		{"bad grid", func(c *Config) { c.Grid = fdtd.Shape1D(1) }, fdtd.ErrInvalidShape},
		{"bad boundary", func(c *Config) { c.Boundary = "mirror" }, fdtd.ErrInvalidBoundary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEngineSourcesBadMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sources[0].Mode = "pulse"
	if _, err := cfg.EngineSources(); !errors.Is(err, fdtd.ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("2d-glass")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Courant != 0.5 || cfg.Grid.Dims() != 2 {
		t.Errorf("unexpected glass preset %+v", cfg)
	}
	if len(cfg.Materials) != 1 || cfg.Materials[0].Index != 2 {
		t.Errorf("expected one n=2 slab, got %+v", cfg.Materials)
	}

	cfg.Materials[0].Index = 5
	if Presets["2d-glass"].Materials[0].Index != 2 {
		t.Error("GetPreset handed out the shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("3d-cavity"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d names, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if err := cfg.Validate(); err != nil {
				t.Fatal(err)
			}
			srcs, err := cfg.EngineSources()
			if err != nil {
				t.Fatal(err)
			}
			for _, s := range srcs {
				if err := s.Validate(cfg.Grid); err != nil {
					t.Error(err)
				}
			}
			if _, err := fdtd.BuildMaterialMap(cfg.Grid, cfg.Courant, cfg.Materials); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	orig := GetPreset("2d-glass")
	orig.Name = "glass-copy"
	if err := Save(path, orig); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "glass-copy" || loaded.Grid != orig.Grid || loaded.Courant != orig.Courant {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.Materials) != 1 || loaded.Materials[0] != orig.Materials[0] {
		t.Errorf("materials lost: %+v", loaded.Materials)
	}
	if len(loaded.Sources) != 1 || loaded.Sources[0] != orig.Sources[0] {
		t.Errorf("sources lost: %+v", loaded.Sources)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("steps: 120\nboundary: fixed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Steps != 120 || cfg.Boundary != "fixed" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Grid.Nx != DefaultSize || len(cfg.Sources) != 1 {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadOver(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		doc     string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "keeps preset fields",
			doc:  "steps: 40\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Steps != 40 {
					t.Errorf("expected 40 steps, got %d", cfg.Steps)
				}
				if cfg.Name != "1d-slab" || cfg.Grid.Nx != 300 || len(cfg.Materials) != 1 || len(cfg.Probes) != 2 {
					t.Errorf("preset not kept: %+v", cfg)
				}
			},
		},
		{
			name: "replaces listed fields",
			doc:  "name: thick\nmaterials:\n  - {x0: 100, x1: 250, index: 3}\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Name != "thick" || len(cfg.Materials) != 1 || cfg.Materials[0].Index != 3 {
					t.Errorf("file values not applied: %+v", cfg)
				}
				if cfg.Steps != 800 {
					t.Errorf("expected preset steps 800, got %d", cfg.Steps)
				}
			},
		},
		{
			name:    "bad yaml",
			doc:     "steps: [\n",
			wantErr: true,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, fmt.Sprintf("over%d.yaml", i))
			if err := os.WriteFile(path, []byte(tt.doc), 0644); err != nil {
				t.Fatal(err)
			}
			base := GetPreset("1d-slab")
			cfg, err := LoadOver(path, base)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, cfg)
			if base.Steps != 800 || base.Name != "1d-slab" {
				t.Errorf("base modified: %+v", base)
			}
		})
	}
}

func TestLoadMaterialsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slab.yaml")
	doc := `grid: {nx: 60, ny: 40}
courant: 0.5
sources:
  - {i: 10, j: 20, t0: 40, sigma: 10, mode: additive}
materials:
  - {x0: 30, x1: 40, y0: 0, y1: 40, index: 1.5}
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := fdtd.Region{Rect: fdtd.Rect{X0: 30, X1: 40, Y0: 0, Y1: 40}, Index: 1.5}
	if len(cfg.Materials) != 1 || cfg.Materials[0] != want {
		t.Errorf("expected %+v, got %+v", want, cfg.Materials)
	}
	if cfg.Sources[0].Mode != "additive" || cfg.Sources[0].J != 20 {
		t.Errorf("unexpected source %+v", cfg.Sources[0])
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
