package core

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Policy files: Declare named execution policies in YAML
// =============================================================================

// PolicySpec is the YAML form of an ExecutionPolicy. Delay accepts Go
// duration strings ("500ms", "1.5s"); empty means no delay.
type PolicySpec struct {
	Daemon        bool   `yaml:"daemon"`
	Join          bool   `yaml:"join"`
	Delay         string `yaml:"delay"`
	CaptureReturn bool   `yaml:"capture_return"`
}

// Policy converts the spec into a validated ExecutionPolicy.
func (s PolicySpec) Policy() (ExecutionPolicy, error) {
	p := ExecutionPolicy{
		Daemon:        s.Daemon,
		Join:          s.Join,
		CaptureReturn: s.CaptureReturn,
	}
	if s.Delay != "" {
		delay, err := time.ParseDuration(s.Delay)
		if err != nil {
			return ExecutionPolicy{}, fmt.Errorf("policy delay %q: %w", s.Delay, err)
		}
		p.Delay = delay
	}
	if err := p.Validate(); err != nil {
		return ExecutionPolicy{}, err
	}
	return p, nil
}

type policyFile struct {
	Policies map[string]PolicySpec `yaml:"policies"`
}

// ParsePolicies parses a YAML document mapping policy names to specs:
//
//	policies:
//	  notify:
//	    daemon: true
//	  fetch:
//	    delay: 500ms
//	    capture_return: true
func ParsePolicies(data []byte) (map[string]ExecutionPolicy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policies: %w", err)
	}

	policies := make(map[string]ExecutionPolicy, len(file.Policies))
	for name, spec := range file.Policies {
		p, err := spec.Policy()
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", name, err)
		}
		policies[name] = p
	}
	return policies, nil
}

// LoadPolicyFile reads and parses a YAML policy file from disk.
func LoadPolicyFile(path string) (map[string]ExecutionPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicies(data)
}
