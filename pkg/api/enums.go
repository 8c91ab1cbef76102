package api

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment is the logical environment a pipeline targets.
type Environment int

const (
	EnvironmentUnset Environment = iota
	Dev
	Stg
	Prod

	EnvironmentCount
)

// Builder is the tool producing the build artifact.
type Builder int

const (
	BuilderUnset Builder = iota
	Docker
	Maven
	Gradle

	BuilderCount
)

// DeployTarget is the platform an artifact is deployed to.
type DeployTarget int

const (
	DeployTargetUnset DeployTarget = iota
	Kubernetes
	CloudFoundry
	AWS

	DeployTargetCount
)

var (
	environmentNames  = [...]string{Dev: "Dev", Stg: "Stg", Prod: "Prod"}
	builderNames      = [...]string{Docker: "Docker", Maven: "Maven", Gradle: "Gradle"}
	deployTargetNames = [...]string{Kubernetes: "Kubernetes", CloudFoundry: "CloudFoundry", AWS: "AWS"}
)

// A constant index out of range fails compilation when a value is added
// without a name.
func _() {
	var x [1]struct{}
	_ = x[len(environmentNames)-int(EnvironmentCount)]
	_ = x[len(builderNames)-int(BuilderCount)]
	_ = x[len(deployTargetNames)-int(DeployTargetCount)]
}

// Valid reports whether the value is one of the declared tags.
func (e Environment) Valid() bool  { return e > EnvironmentUnset && e < EnvironmentCount }
func (b Builder) Valid() bool      { return b > BuilderUnset && b < BuilderCount }
func (d DeployTarget) Valid() bool { return d > DeployTargetUnset && d < DeployTargetCount }

// String returns the YAML tag, or Type(n) for an undeclared value.
func (e Environment) String() string  { return enumName(environmentNames[:], int(e), "Environment") }
func (b Builder) String() string      { return enumName(builderNames[:], int(b), "Builder") }
func (d DeployTarget) String() string { return enumName(deployTargetNames[:], int(d), "DeployTarget") }

// ParseEnvironment maps a YAML tag such as "Prod" to its Environment.
func ParseEnvironment(s string) (Environment, error) {
	i, err := enumIndex(environmentNames[:], s, "environment")
	return Environment(i), err
}

// ParseBuilder maps a YAML tag such as "Maven" to its Builder.
func ParseBuilder(s string) (Builder, error) {
	i, err := enumIndex(builderNames[:], s, "builder")
	return Builder(i), err
}

// ParseDeployTarget maps a YAML tag such as "AWS" to its DeployTarget.
func ParseDeployTarget(s string) (DeployTarget, error) {
	i, err := enumIndex(deployTargetNames[:], s, "deploy target")
	return DeployTarget(i), err
}

// UnmarshalYAML accepts exactly one of the declared tags.
func (e *Environment) UnmarshalYAML(node *yaml.Node) error {
	return unmarshalEnum(node, func(s string) (err error) { *e, err = ParseEnvironment(s); return })
}

// UnmarshalYAML accepts exactly one of the declared tags.
func (b *Builder) UnmarshalYAML(node *yaml.Node) error {
	return unmarshalEnum(node, func(s string) (err error) { *b, err = ParseBuilder(s); return })
}

// UnmarshalYAML accepts exactly one of the declared tags.
func (d *DeployTarget) UnmarshalYAML(node *yaml.Node) error {
	return unmarshalEnum(node, func(s string) (err error) { *d, err = ParseDeployTarget(s); return })
}

// MarshalYAML encodes the value as its tag.
func (e Environment) MarshalYAML() (any, error)  { return e.String(), nil }
func (b Builder) MarshalYAML() (any, error)      { return b.String(), nil }
func (d DeployTarget) MarshalYAML() (any, error) { return d.String(), nil }

func unmarshalEnum(node *yaml.Node, parse func(string) error) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar tag", node.Line)
	}
	if err := parse(node.Value); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

func enumName(names []string, i int, typeName string) string {
	if i > 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s(%d)", typeName, i)
}

func enumIndex(names []string, s, what string) (int, error) {
	for i, name := range names {
		if i > 0 && name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (valid: %s)", what, s, strings.Join(names[1:], ", "))
}
