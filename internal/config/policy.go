package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

// policyFile is the YAML root of a FUSION_POLICY_FILE:
//
//	policies:
//	  - name: coastal-strict
//	    weights: {consensus: 0.7, history: 0.3}
//	    threshold: 0.8
type policyFile struct {
	Policies []policyEntry `yaml:"policies"`
}

type policyEntry struct {
	Name      string             `yaml:"name"`
	Weights   map[string]float64 `yaml:"weights"`
	Threshold *float64           `yaml:"threshold"`
}

// LoadFusionPolicy resolves name against the built-in policies and any
// policies defined in path. File policies override built-ins of the same name.
// An omitted threshold defaults to domain.DefaultThreshold.
func LoadFusionPolicy(name, path string) (domain.FusionPolicy, error) {
	policies := domain.BuiltinPolicies()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.FusionPolicy{}, fmt.Errorf("read policy file: %w", err)
		}
		var f policyFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return domain.FusionPolicy{}, fmt.Errorf("parse policy file: %w", err)
		}
		for _, e := range f.Policies {
			threshold := domain.DefaultThreshold
			if e.Threshold != nil {
				threshold = *e.Threshold
			}
			policies[e.Name] = domain.FusionPolicy{Name: e.Name, Weights: e.Weights, Threshold: threshold}
		}
	}

	policy, ok := policies[name]
	if !ok {
		return domain.FusionPolicy{}, fmt.Errorf("unknown fusion policy %q", name)
	}
	if err := policy.Validate(); err != nil {
		return domain.FusionPolicy{}, err
	}
	return policy, nil
}
