// Package config defines the orchestrator's OrchestrationConfig and its
// YAML (de)serialization. It never discovers or loads a config file
// from disk: the only entry points operate on in-memory bytes or an
// io.Reader supplied by the caller, leaving path resolution to callers.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OrchestrationConfig configures an Orchestrator's builder. Every field
// is optional; a zero-value config falls back to the builder's
// in-memory, no-op defaults.
type OrchestrationConfig struct {
	// MaxConcurrency caps how many tasks the Scheduler may run at once.
	MaxConcurrency int `yaml:"max_concurrency"`

	// Planner names which Planner implementation to construct
	// ("simple", "auto"); empty defers to the builder's default.
	Planner string `yaml:"planner,omitempty"`

	// Model names the LLM model an AutoPlanner's LLM collaborator
	// should request, if one is configured.
	Model string `yaml:"model,omitempty"`

	// Backend names the LLM transport ("http", "ollama", "custom").
	Backend string `yaml:"backend,omitempty"`

	// ContainerMode names the execution sandbox a worker should assume
	// ("devcontainer", "docker", "k8s").
	ContainerMode string `yaml:"container_mode,omitempty"`

	// ProjectName overrides the workspace's inferred project name.
	ProjectName string `yaml:"project_name,omitempty"`

	// QCEndpoint, when set, selects an HTTPOptimizer sidecar at this
	// base URL instead of the in-process ClassicalOptimizer.
	QCEndpoint string `yaml:"qc_endpoint,omitempty"`
}

// DefaultConfig returns the builder's baseline configuration: a single
// task at a time, no sidecar optimiser, no named planner override.
func DefaultConfig() OrchestrationConfig {
	return OrchestrationConfig{MaxConcurrency: 1}
}

// MarshalYAML renders cfg as YAML bytes.
func (cfg OrchestrationConfig) MarshalYAML() ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal orchestration config: %w", err)
	}
	return data, nil
}

// LoadConfigFromYAML decodes an OrchestrationConfig from r. Callers
// supply the reader (an embedded bytes.Reader, a test fixture, a
// caller-opened file); this package never resolves a path itself.
func LoadConfigFromYAML(r io.Reader) (OrchestrationConfig, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return OrchestrationConfig{}, fmt.Errorf("decode orchestration config: %w", err)
	}
	return cfg, nil
}
