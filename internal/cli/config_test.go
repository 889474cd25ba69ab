package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/dominant/internal/seed"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Colours != 3 || cfg.Side != 50 || cfg.SeedMode != seed.ModeContent || cfg.Format != FormatHex {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestConfigApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, c Config)
		wantErr bool
	}{
		{
			name: "nothing set",
			env:  map[string]string{},
			check: func(t *testing.T, c Config) {
				if c.Colours != 3 || c.Preview {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "all set",
			env: map[string]string{
				EnvColours:  "7",
				EnvSide:     "0",
				EnvSeedMode: "random",
				EnvFormat:   "JSON",
				EnvPreview:  "true",
			},
			check: func(t *testing.T, c Config) {
				if c.Colours != 7 || c.Side != 0 || c.SeedMode != seed.ModeRandom || c.Format != FormatJSON || !c.Preview {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "seed value implies manual",
			env:  map[string]string{EnvSeedValue: "-12"},
			check: func(t *testing.T, c Config) {
				if c.SeedMode != seed.ModeManual || c.SeedValue == nil || *c.SeedValue != -12 {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "explicit mode wins over implied manual",
			env:  map[string]string{EnvSeedValue: "5", EnvSeedMode: "filepath"},
			check: func(t *testing.T, c Config) {
				if c.SeedMode != seed.ModeFilepath {
					t.Errorf("SeedMode = %s, want filepath", c.SeedMode)
				}
			},
		},
		{name: "bad colours", env: map[string]string{EnvColours: "many"}, wantErr: true},
		{name: "bad side", env: map[string]string{EnvSide: "1.5"}, wantErr: true},
		{name: "bad seed mode", env: map[string]string{EnvSeedMode: "dice"}, wantErr: true},
		{name: "bad seed value", env: map[string]string{EnvSeedValue: "x"}, wantErr: true},
		{name: "bad preview", env: map[string]string{EnvPreview: "sometimes"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ApplyEnv(envMap(tt.env))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnv() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	env := envMap(map[string]string{EnvColours: "5", EnvFormat: "rgb", EnvPreview: "1"})

	cmd := newExtractCmd()
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.ParseFlags([]string{"-c", "2", "--seed", "9"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}
	if cfg.Colours != 2 {
		t.Errorf("Colours = %d, want flag value 2", cfg.Colours)
	}
	if cfg.Format != FormatRGB {
		t.Errorf("Format = %s, want env value rgb", cfg.Format)
	}
	if !cfg.Preview {
		t.Error("Preview should come from the environment")
	}
	if cfg.SeedMode != seed.ModeManual || cfg.SeedValue == nil || *cfg.SeedValue != 9 {
		t.Errorf("seed = %s/%v, want manual/9", cfg.SeedMode, cfg.SeedValue)
	}
}

func TestResolveConfigPreviewOffWithoutTerminal(t *testing.T) {
	cmd := newExtractCmd()
	cmd.SetOut(&bytes.Buffer{})
	cfg, err := resolveConfig(cmd, envMap(nil))
	if err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}
	if cfg.Preview {
		t.Error("preview should be off when output is not a terminal")
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		env   map[string]string
		level hclog.Level
	}{
		{"default", nil, nil, hclog.Info},
		{"verbose", []string{"-v"}, nil, hclog.Debug},
		{"quiet", []string{"-q"}, nil, hclog.Error},
		{"environment wins", []string{"-q"}, map[string]string{envLogLevel: "trace"}, hclog.Trace},
		{"unknown environment level ignored", []string{"-v"}, map[string]string{envLogLevel: "loud"}, hclog.Debug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCmd()
			if err := root.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}
			if got := logLevel(root, envMap(tt.env)); got != tt.level {
				t.Errorf("logLevel() = %v, want %v", got, tt.level)
			}
		})
	}
}

func TestFormatPaletteUnsupported(t *testing.T) {
	_, err := formatPalette(nil, "xml", false)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("formatPalette() error = %v", err)
	}
}
