package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/systemstart/pipegen/pkg/api"
	"github.com/systemstart/pipegen/pkg/emitter"
	"github.com/systemstart/pipegen/pkg/processing"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"parse", &api.ParseError{Err: errors.New("bad")}, exitParseFailed},
		{"wrapped parse", fmt.Errorf("1 pipeline(s) failed: %w", &api.ParseError{Err: errors.New("bad")}), exitParseFailed},
		{"emit", &emitter.EmissionError{Stage: 0, Err: errors.New("bad")}, exitEmitFailed},
		{"persist", &processing.PersistenceError{Path: "Jenkinsfile", Err: fs.ErrPermission}, exitPersistFailed},
		{"input directory", fmt.Errorf("discovering pipelines: %w", fmt.Errorf("%w: %w", processing.ErrInputDirectory, &fs.PathError{Op: "stat", Path: "x", Err: fs.ErrNotExist})), exitInputDirectoryInvalid},
		{"read", fmt.Errorf("reading pipeline file: %w", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}), exitInputReadFailed},
		{"other", errors.New("boom"), exitToolErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodesDistinct(t *testing.T) {
	codes := []int{
		exitDotenvError,
		exitLoggingSetupFailed,
		exitInputReadFailed,
		exitParseFailed,
		exitEmitFailed,
		exitPersistFailed,
		exitInputDirectoryInvalid,
		exitToolErrors,
	}
	seen := make(map[int]bool)
	for _, c := range codes {
		if c == 0 {
			t.Error("exit code 0 is reserved for success")
		}
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
	}
}

func newTestFlagSet(t *testing.T, args ...string) (*flag.FlagSet, map[string]*string) {
	t.Helper()
	flags := flag.NewFlagSet("pipegen", flag.ContinueOnError)
	values := map[string]*string{
		"input":       flags.String("input", api.DefaultInputFile, ""),
		"output":      flags.String("output", api.DefaultOutputFile, ""),
		"agent-image": flags.String("agent-image", emitter.DefaultAgentImage, ""),
	}
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	return flags, values
}

func TestApplyEnvDefaults(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want map[string]string
	}{
		{
			name: "defaults without environment",
			want: map[string]string{"input": "pipeline.yaml", "output": "Jenkinsfile", "agent-image": "maven:3.6.0"},
		},
		{
			name: "environment fills unset flags",
			env:  map[string]string{"PIPEGEN_INPUT": "ci.yaml", "PIPEGEN_OUTPUT": "out/Jenkinsfile", "PIPEGEN_AGENT_IMAGE": "docker:27"},
			want: map[string]string{"input": "ci.yaml", "output": "out/Jenkinsfile", "agent-image": "docker:27"},
		},
		{
			name: "explicit flag beats environment",
			args: []string{"-output", "cli/Jenkinsfile"},
			env:  map[string]string{"PIPEGEN_INPUT": "ci.yaml", "PIPEGEN_OUTPUT": "env/Jenkinsfile"},
			want: map[string]string{"input": "ci.yaml", "output": "cli/Jenkinsfile", "agent-image": "maven:3.6.0"},
		},
		{
			name: "empty variable still counts as set",
			env:  map[string]string{"PIPEGEN_AGENT_IMAGE": ""},
			want: map[string]string{"input": "pipeline.yaml", "output": "Jenkinsfile", "agent-image": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, d := range envDefaults {
				unsetEnv(t, d.env)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			flags, values := newTestFlagSet(t, tt.args...)
			applyEnvDefaults(flags)

			for name, want := range tt.want {
				if got := *values[name]; got != want {
					t.Errorf("-%s = %q, want %q", name, got, want)
				}
			}
		})
	}
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDotenv(t *testing.T) {
	const key = "PIPEGEN_OUTPUT"
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(key+"=from/dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("loads file", func(t *testing.T) {
		unsetEnv(t, key)
		loaded, err := loadDotenv(envFile)
		if err != nil || !loaded {
			t.Fatalf("loadDotenv = %v, %v; want true, nil", loaded, err)
		}
		if got := os.Getenv(key); got != "from/dotenv" {
			t.Errorf("%s = %q, want %q", key, got, "from/dotenv")
		}
	})

	t.Run("does not override environment", func(t *testing.T) {
		t.Setenv(key, "from/env")
		if _, err := loadDotenv(envFile); err != nil {
			t.Fatal(err)
		}
		if got := os.Getenv(key); got != "from/env" {
			t.Errorf("%s = %q, want %q", key, got, "from/env")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		loaded, err := loadDotenv(filepath.Join(dir, "missing.env"))
		if err != nil || loaded {
			t.Errorf("loadDotenv = %v, %v; want false, nil", loaded, err)
		}
	})

	t.Run("feeds flag defaults", func(t *testing.T) {
		for _, d := range envDefaults {
			unsetEnv(t, d.env)
		}
		if _, err := loadDotenv(envFile); err != nil {
			t.Fatal(err)
		}
		flags, values := newTestFlagSet(t)
		applyEnvDefaults(flags)
		if got := *values["output"]; got != "from/dotenv" {
			t.Errorf("-output = %q, want %q", got, "from/dotenv")
		}
	})
}
