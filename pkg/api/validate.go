package api

import (
	"errors"
	"fmt"
)

// Validate checks that every variant tag is a declared value and every step
// is one of the known kinds. Key presence is enforced while decoding; empty
// strings are valid values.
func (p *PipelineConfig) Validate() error {
	if !p.Environment.Valid() {
		return errors.New("environment is required")
	}
	if p.Steps == nil {
		return errors.New("steps is required")
	}

	for i, step := range p.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch s := step.(type) {
	case BuildStep:
		if !s.Builder.Valid() {
			return errors.New("build.builder is required")
		}
		return nil
	case DeployStep:
		if !s.Target.Valid() {
			return errors.New("deploy.target is required")
		}
		return nil
	case nil:
		return errors.New("step is empty")
	default:
		return fmt.Errorf("unsupported step type %T", step)
	}
}
