package processing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/systemstart/pipegen/pkg/api"
	"github.com/systemstart/pipegen/pkg/emitter"
)

const outputFileMode = 0o644

// Options configure a compilation run.
type Options struct {
	Emitter emitter.Options

	// DryRun writes scripts to Stdout instead of their output files.
	DryRun bool
	Stdout io.Writer
}

// Compile decodes a pipeline description and renders its script.
func Compile(data []byte, opts emitter.Options) (string, error) {
	p, err := api.Parse(data)
	if err != nil {
		return "", err
	}
	return emitter.New(opts).Emit(p)
}

// CompileFile compiles inputFile and writes the script to outputFile. Nothing
// is written unless decoding and emission both succeed.
func CompileFile(inputFile, outputFile string, opts Options) error {
	p, err := api.LoadPipeline(inputFile)
	if err != nil {
		return err
	}

	script, err := emitter.New(opts.Emitter).Emit(p)
	if err != nil {
		return err
	}

	if opts.DryRun {
		if _, err := io.WriteString(opts.stdout(), script); err != nil {
			return fmt.Errorf("printing script: %w", err)
		}
		return nil
	}

	if err := writeFileAtomic(outputFile, []byte(script), outputFileMode); err != nil {
		return err
	}

	slog.Info("pipeline compiled",
		"input", inputFile,
		"output", outputFile,
		"environment", p.Environment,
		"stages", len(p.Steps))
	return nil
}

// RunAll compiles every pipeline found under root, writing each script beside
// its description. All pipelines are attempted; the error summarizes every
// failure.
func RunAll(root, pattern string, maxDepth int, opts Options) error {
	files, err := DiscoverPipelines(root, pattern, maxDepth)
	if err != nil {
		return fmt.Errorf("discovering pipelines: %w", err)
	}

	if len(files) == 0 {
		slog.Warn("no pipeline files found", "dir", root, "pattern", pattern)
		return nil
	}

	slog.Info("discovered pipelines", "count", len(files))

	var (
		failed []string
		errs   []error
	)
	for _, f := range files {
		if cErr := CompileFile(f, OutputPathFor(f), opts); cErr != nil {
			slog.Error("pipeline failed", "path", f, "error", cErr)
			failed = append(failed, f)
			errs = append(errs, cErr)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d pipeline(s) failed: %v: %w", len(failed), failed, errors.Join(errs...))
	}
	return nil
}

func (o Options) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}
