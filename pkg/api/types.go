package api

const (
	DefaultInputFile   = "pipeline.yaml"
	DefaultOutputFile  = "Jenkinsfile"
	DefaultFilePattern = "**/*.pipeline.yaml"

	StepKindBuild  = "Build"
	StepKindDeploy = "Deploy"
)

// PipelineConfig is the root of a decoded pipeline description.
type PipelineConfig struct {
	RepositoryURL string      `yaml:"repository_url"`
	Branch        string      `yaml:"branch"`
	Environment   Environment `yaml:"environment"`
	Steps         Steps       `yaml:"steps"`
}

// Step is one stage of a pipeline. The set of implementations is closed:
// every step kind has a matching method on StepVisitor, and only this
// package can add one.
type Step interface {
	Accept(v StepVisitor)
	Kind() string
	isStep()
}

// StepVisitor dispatches on the concrete step kind.
type StepVisitor interface {
	VisitBuild(BuildStep)
	VisitDeploy(DeployStep)
}

// Steps is the ordered step list, decoded from externally tagged entries.
type Steps []Step

// BuildStep runs the builder's canonical command followed by Args.
type BuildStep struct {
	Builder Builder  `yaml:"builder"`
	Args    []string `yaml:"args"`
}

func (s BuildStep) Accept(v StepVisitor) { v.VisitBuild(s) }
func (s BuildStep) Kind() string         { return StepKindBuild }
func (BuildStep) isStep()                {}

// DeployStep ships an artifact to a deploy target.
type DeployStep struct {
	Target DeployTarget `yaml:"target"`
	Config DeployConfig `yaml:"config"`
}

func (s DeployStep) Accept(v StepVisitor) { v.VisitDeploy(s) }
func (s DeployStep) Kind() string         { return StepKindDeploy }
func (DeployStep) isStep()                {}

// DeployConfig names what is deployed and where.
type DeployConfig struct {
	Artifact  string `yaml:"artifact"`
	Namespace string `yaml:"namespace"`
}
