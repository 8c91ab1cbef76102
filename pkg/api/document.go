package api

import "fmt"

// The document types mirror the public model with pointer fields, so a key
// that is absent can be told apart from one set to an empty value. Every
// key is required; empty strings and empty lists are accepted.

type pipelineDocument struct {
	RepositoryURL *string      `yaml:"repository_url"`
	Branch        *string      `yaml:"branch"`
	Environment   *Environment `yaml:"environment"`
	Steps         *Steps       `yaml:"steps"`
}

type buildDocument struct {
	Builder *Builder  `yaml:"builder"`
	Args    *[]string `yaml:"args"`
}

type deployDocument struct {
	Target *DeployTarget         `yaml:"target"`
	Config *deployConfigDocument `yaml:"config"`
}

type deployConfigDocument struct {
	Artifact  *string `yaml:"artifact"`
	Namespace *string `yaml:"namespace"`
}

func (d *pipelineDocument) config() (*PipelineConfig, error) {
	switch {
	case d.RepositoryURL == nil:
		return nil, missingField("repository_url")
	case d.Branch == nil:
		return nil, missingField("branch")
	case d.Environment == nil:
		return nil, missingField("environment")
	case d.Steps == nil:
		return nil, missingField("steps")
	}

	steps := *d.Steps
	if steps == nil {
		steps = Steps{}
	}
	return &PipelineConfig{
		RepositoryURL: *d.RepositoryURL,
		Branch:        *d.Branch,
		Environment:   *d.Environment,
		Steps:         steps,
	}, nil
}

func (d *buildDocument) step() (BuildStep, error) {
	switch {
	case d.Builder == nil:
		return BuildStep{}, missingField("builder")
	case d.Args == nil:
		return BuildStep{}, missingField("args")
	}
	args := *d.Args
	if args == nil {
		args = []string{}
	}
	return BuildStep{Builder: *d.Builder, Args: args}, nil
}

func (d *deployDocument) step() (DeployStep, error) {
	switch {
	case d.Target == nil:
		return DeployStep{}, missingField("target")
	case d.Config == nil:
		return DeployStep{}, missingField("config")
	case d.Config.Artifact == nil:
		return DeployStep{}, missingField("config.artifact")
	case d.Config.Namespace == nil:
		return DeployStep{}, missingField("config.namespace")
	}
	return DeployStep{
		Target: *d.Target,
		Config: DeployConfig{
			Artifact:  *d.Config.Artifact,
			Namespace: *d.Config.Namespace,
		},
	}, nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}
