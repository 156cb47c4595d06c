package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cspkit/cspkit/internal/csp"
	"github.com/cspkit/cspkit/internal/fieldline"
)

type ValidationError struct {
	Problems []string
}

func (v *ValidationError) Add(format string, args ...any) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%d validation error(s)", len(v.Problems))
}

func (c *Config) Validate() error {
	v := &ValidationError{}

	if c.ConfigVersion != 1 {
		v.Add("configVersion must be 1")
	}

	if len(c.Policies) == 0 {
		v.Add("at least one policy is required")
	}

	policyNames := map[string]struct{}{}
	for i, policy := range c.Policies {
		if policy.Name == "" {
			v.Add("policies[%d].name is required", i)
		} else if _, exists := policyNames[policy.Name]; exists {
			v.Add("policies[%d].name %q is duplicated", i, policy.Name)
		} else {
			policyNames[policy.Name] = struct{}{}
		}

		if len(policy.Directives) == 0 {
			v.Add("policies[%d].directives must not be empty", i)
		}

		directiveNames := map[string]struct{}{}
		for j, directive := range policy.Directives {
			if directive.Name == "" {
				v.Add("policies[%d].directives[%d].name is required", i, j)
				continue
			}
			if !csp.IsValidDirective(directive.Name) {
				v.Add("policies[%d].directives[%d].name %q must be one of %s",
					i, j, directive.Name, strings.Join(csp.ValidDirectives(), "|"))
				continue
			}
			if _, exists := directiveNames[directive.Name]; exists {
				v.Add("policies[%d].directives[%d].name %q is duplicated", i, j, directive.Name)
			} else {
				directiveNames[directive.Name] = struct{}{}
			}

			for k, source := range directive.Sources {
				if err := fieldline.CheckToken(source); err != nil {
					v.Add("policies[%d].directives[%d].sources[%d] invalid: %v", i, j, k, err)
				}
			}
		}
	}

	if len(v.Problems) > 0 {
		sort.Strings(v.Problems)
		return v
	}
	return nil
}

// Header builds the policy's header by applying each declared directive in
// order.
func (p PolicySpec) Header() (*csp.PolicyHeader, error) {
	h := csp.NewPolicyHeader()
	for _, directive := range p.Directives {
		if err := h.SetDirective(directive.Name, directive.Sources); err != nil {
			return nil, fmt.Errorf("policy %s: %w", p.Name, err)
		}
	}
	return h, nil
}
