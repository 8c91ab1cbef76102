package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPipeline reads a pipeline file, decodes it and validates it.
func LoadPipeline(filename string) (*PipelineConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline file: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Source = filename
		}
		return nil, err
	}
	return p, nil
}

// Parse decodes and validates a pipeline description. Any failure is
// returned as a *ParseError and no configuration is produced.
func Parse(data []byte) (*PipelineConfig, error) {
	var doc pipelineDocument
	if err := decodeStrict(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	p, err := doc.config()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := p.Validate(); err != nil {
		return nil, &ParseError{Err: err}
	}
	return p, nil
}

// UnmarshalYAML decodes externally tagged steps:
//
//	- Build: {builder: Docker, args: [...]}
//	- Deploy: {target: AWS, config: {...}}
func (s *Steps) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: steps must be a list", node.Line)
	}

	steps := make(Steps, 0, len(node.Content))
	for i, item := range node.Content {
		step, err := decodeStep(item)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	*s = steps
	return nil
}

func decodeStep(node *yaml.Node) (Step, error) {
	node, err := resolveAliases(node)
	if err != nil {
		return nil, err
	}
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return nil, fmt.Errorf("line %d: expected a single %s or %s entry", node.Line, StepKindBuild, StepKindDeploy)
	}

	tag, body := node.Content[0], node.Content[1]
	switch tag.Value {
	case StepKindBuild:
		var b buildDocument
		if err := decodeNodeStrict(body, &b); err != nil {
			return nil, fmt.Errorf("%s: %w", StepKindBuild, err)
		}
		step, err := b.step()
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", StepKindBuild, body.Line, err)
		}
		return step, nil
	case StepKindDeploy:
		var d deployDocument
		if err := decodeNodeStrict(body, &d); err != nil {
			return nil, fmt.Errorf("%s: %w", StepKindDeploy, err)
		}
		step, err := d.step()
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", StepKindDeploy, body.Line, err)
		}
		return step, nil
	default:
		return nil, fmt.Errorf("line %d: unknown step kind %q", tag.Line, tag.Value)
	}
}

// decodeNodeStrict re-encodes node so that the nested decode rejects
// unknown fields; Node.Decode alone does not. Aliases must already be
// resolved, the re-encoded body carries no anchors.
func decodeNodeStrict(node *yaml.Node, v any) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	raw, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("re-marshaling line %d: %w", node.Line, err)
	}
	if err := decodeStrict(raw, v); err != nil {
		return fmt.Errorf("at line %d: %w", node.Line, err)
	}
	return nil
}

// maxResolvedNodes bounds alias expansion within a single step.
const maxResolvedNodes = 10000

// resolveAliases returns a copy of node with every alias replaced by the
// node it refers to.
func resolveAliases(node *yaml.Node) (*yaml.Node, error) {
	budget := maxResolvedNodes
	return resolveNode(node, &budget)
}

func resolveNode(node *yaml.Node, budget *int) (*yaml.Node, error) {
	for node.Kind == yaml.AliasNode {
		if node.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown anchor %q", node.Line, node.Value)
		}
		node = node.Alias
	}

	*budget--
	if *budget < 0 {
		return nil, fmt.Errorf("line %d: step expands to more than %d nodes", node.Line, maxResolvedNodes)
	}

	resolved := *node
	resolved.Anchor = ""
	if len(node.Content) > 0 {
		resolved.Content = make([]*yaml.Node, len(node.Content))
		for i, child := range node.Content {
			c, err := resolveNode(child, budget)
			if err != nil {
				return nil, err
			}
			resolved.Content[i] = c
		}
	}
	return &resolved, nil
}

// decodeStrict decodes exactly one YAML document into v, rejecting fields v
// does not declare.
func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return fmt.Errorf("line %d: expected a single document", extra.Line)
	}
	return nil
}
