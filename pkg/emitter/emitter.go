// Package emitter renders a pipeline model as a declarative pipeline script.
package emitter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/systemstart/pipegen/pkg/api"
)

// DefaultAgentImage is the docker image every pipeline builds in.
const DefaultAgentImage = "maven:3.6.0"

var builderCommands = [...]string{
	api.Docker: "docker build .",
	api.Maven:  "mvn clean package",
	api.Gradle: "gradle build",
}

var deployOpeners = [...]string{
	api.Kubernetes:   "kubernetesDeploy {",
	api.CloudFoundry: "cloudFoundryDeploy {",
	api.AWS:          "awsDeploy {",
}

// Adding a Builder or DeployTarget without a table entry fails compilation.
func _() {
	var x [1]struct{}
	_ = x[len(builderCommands)-int(api.BuilderCount)]
	_ = x[len(deployOpeners)-int(api.DeployTargetCount)]
}

// BuilderCommand returns the canonical build command for b.
func BuilderCommand(b api.Builder) (string, bool) {
	if !b.Valid() {
		return "", false
	}
	return builderCommands[b], true
}

// DeployOpener returns the deploy block opening line for t.
func DeployOpener(t api.DeployTarget) (string, bool) {
	if !t.Valid() {
		return "", false
	}
	return deployOpeners[t], true
}

// EmissionError reports a step the emitter has no rule for. Decoded and
// validated pipelines never produce one.
type EmissionError struct {
	Stage int // -1 for the preamble and closing fragments
	Kind  string
	Err   error
}

func (e *EmissionError) Error() string {
	if e.Stage < 0 {
		return fmt.Sprintf("emitting pipeline: %v", e.Err)
	}
	return fmt.Sprintf("emitting stage %d (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *EmissionError) Unwrap() error { return e.Err }

// Options tune the generated script.
type Options struct {
	AgentImage string // defaults to DefaultAgentImage
}

// Emitter turns pipeline configurations into script text. It holds no
// per-run state and may be reused.
type Emitter struct {
	opts Options
}

// New creates an Emitter.
func New(opts Options) *Emitter {
	return &Emitter{opts: opts}
}

// Emit renders p with default options.
func Emit(p *api.PipelineConfig) (string, error) {
	return New(Options{}).Emit(p)
}

// Emit renders p. Output depends only on p and the options.
func (e *Emitter) Emit(p *api.PipelineConfig) (string, error) {
	if p == nil {
		return "", &EmissionError{Stage: -1, Err: errors.New("pipeline is nil")}
	}

	var buf bytes.Buffer
	w := &stageWriter{out: &buf, index: -1}

	w.render(fragmentPreamble, preambleData{AgentImage: e.opts.AgentImage})
	for i, step := range p.Steps {
		w.index = i
		if step == nil {
			w.fail("", errors.New("step is empty"))
			break
		}
		step.Accept(w)
	}
	w.index = -1
	w.render(fragmentClosing, nil)

	if w.err != nil {
		return "", w.err
	}
	return buf.String(), nil
}

// stageWriter implements api.StepVisitor; the first failure stops output.
type stageWriter struct {
	out   *bytes.Buffer
	index int
	err   error
}

var _ api.StepVisitor = (*stageWriter)(nil)

func (w *stageWriter) VisitBuild(s api.BuildStep) {
	cmd, ok := BuilderCommand(s.Builder)
	if !ok {
		w.fail(s.Kind(), fmt.Errorf("no build command for %v", s.Builder))
		return
	}
	w.render(fragmentBuild, buildData{Stage: s.Kind(), Command: cmd, Args: s.Args})
}

func (w *stageWriter) VisitDeploy(s api.DeployStep) {
	opener, ok := DeployOpener(s.Target)
	if !ok {
		w.fail(s.Kind(), fmt.Errorf("no deploy block for %v", s.Target))
		return
	}
	w.render(fragmentDeploy, deployData{
		Stage:     s.Kind(),
		Opener:    opener,
		Artifact:  s.Config.Artifact,
		Namespace: s.Config.Namespace,
	})
}

func (w *stageWriter) render(name string, data any) {
	if w.err != nil {
		return
	}
	if err := fragments.ExecuteTemplate(w.out, name, data); err != nil {
		w.fail(name, err)
	}
}

func (w *stageWriter) fail(kind string, err error) {
	if w.err == nil {
		w.err = &EmissionError{Stage: w.index, Kind: kind, Err: err}
	}
}
