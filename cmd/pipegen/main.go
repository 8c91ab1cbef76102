package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/systemstart/pipegen/pkg/api"
	"github.com/systemstart/pipegen/pkg/emitter"
	"github.com/systemstart/pipegen/pkg/logging"
	"github.com/systemstart/pipegen/pkg/processing"
)

var version = "dev"

const (
	_ = iota
	exitDotenvError
	exitLoggingSetupFailed
	exitInputReadFailed
	exitParseFailed
	exitEmitFailed
	exitPersistFailed
	exitInputDirectoryInvalid
	exitToolErrors
)

var (
	inputFile      string
	outputFile     string
	agentImage     string
	inputDirectory string
	filePattern    string
	maxDepth       int
	dryRun         bool
	loggingType    string
	logLevel       string
	showVersion    bool
)

// Environment variables consulted for flags not given on the command line.
var envDefaults = []struct{ flag, env string }{
	{"input", "PIPEGEN_INPUT"},
	{"output", "PIPEGEN_OUTPUT"},
	{"agent-image", "PIPEGEN_AGENT_IMAGE"},
}

func init() {
	flag.StringVar(
		&inputFile,
		"input",
		api.DefaultInputFile,
		"pipeline description to compile")
	flag.StringVar(
		&outputFile,
		"output",
		api.DefaultOutputFile,
		"path of the generated script")
	flag.StringVar(
		&agentImage,
		"agent-image",
		emitter.DefaultAgentImage,
		"docker image of the build agent")
	flag.StringVar(
		&inputDirectory,
		"input-directory",
		"",
		"compile every matching pipeline below this directory instead of -input")
	flag.StringVar(
		&filePattern,
		"pattern",
		api.DefaultFilePattern,
		"glob selecting pipeline files in -input-directory")
	flag.IntVar(
		&maxDepth,
		"max-depth",
		-1,
		"max directory recursion depth (-1 = unlimited, 0 = root only)")
	flag.BoolVar(
		&dryRun,
		"dry-run",
		false,
		"print generated scripts instead of writing them")
	flag.StringVar(
		&loggingType,
		"logging-type",
		"tint",
		"logging type: json, text or tint")
	flag.StringVar(
		&logLevel,
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	flag.BoolVar(
		&showVersion,
		"version",
		false,
		"print version and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := logging.Initialize(os.Stderr, loggingType, logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitLoggingSetupFailed)
	}

	includeEnv()
	applyEnvDefaults(flag.CommandLine)

	opts := processing.Options{
		Emitter: emitter.Options{AgentImage: agentImage},
		DryRun:  dryRun,
	}

	var err error
	if inputDirectory != "" {
		err = processing.RunAll(inputDirectory, filePattern, maxDepth, opts)
	} else {
		err = processing.CompileFile(inputFile, outputFile, opts)
	}
	if err != nil {
		slog.Error("compilation failed", "error", err)
		os.Exit(exitCodeFor(err))
	}

	slog.Info("done")
}

func exitCodeFor(err error) int {
	var (
		parseErr   *api.ParseError
		emitErr    *emitter.EmissionError
		persistErr *processing.PersistenceError
		pathErr    *fs.PathError
	)
	switch {
	case errors.Is(err, processing.ErrInputDirectory):
		return exitInputDirectoryInvalid
	case errors.As(err, &parseErr):
		return exitParseFailed
	case errors.As(err, &emitErr):
		return exitEmitFailed
	case errors.As(err, &persistErr):
		return exitPersistFailed
	case errors.As(err, &pathErr):
		return exitInputReadFailed
	default:
		return exitToolErrors
	}
}

func includeEnv() {
	loaded, err := loadDotenv()
	switch {
	case err != nil:
		slog.Error("failed to load .env", "error", err)
		os.Exit(exitDotenvError)
	case loaded:
		slog.Info("using .env file")
	default:
		slog.Debug("no .env file found")
	}
}

// loadDotenv loads the given files (default .env) into the environment
// without overriding variables that are already set. A missing file is not
// an error.
func loadDotenv(filenames ...string) (bool, error) {
	err := godotenv.Load(filenames...)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// applyEnvDefaults sets every flag in envDefaults that was not given on the
// command line from its environment variable.
func applyEnvDefaults(flags *flag.FlagSet) {
	explicit := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	for _, d := range envDefaults {
		v, ok := os.LookupEnv(d.env)
		if !ok || explicit[d.flag] {
			continue
		}
		if err := flags.Set(d.flag, v); err != nil {
			slog.Warn("ignoring environment default", "variable", d.env, "error", err)
			continue
		}
		slog.Debug("flag set from environment", "flag", d.flag, "variable", d.env)
	}
}
