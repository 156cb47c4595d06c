package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `configVersion: 1
policies:
  - name: site
    directives:
      - name: default-src
        sources: ["'self'"]
      - name: script-src
        sources: ["'self'", "https://cdn.example.com"]
      - name: object-src
        sources: []
  - name: reporting
    directives:
      - name: default-src
        sources: ["'self'"]
      - name: report-uri
        sources: ["https://example.com/csp-report"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policies.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAndValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validate error: %v", err)
	}
	if len(cfg.Policies) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(cfg.Policies))
	}
	if cfg.BaseDir() == "" {
		t.Fatalf("expected baseDir to be set")
	}
}

func TestValidateProblems(t *testing.T) {
	cases := []struct {
		name    string
		content string
		problem string
	}{
		{
			"bad-version",
			"configVersion: 2\npolicies:\n  - name: a\n    directives:\n      - name: default-src\n        sources: [\"'self'\"]\n",
			"configVersion must be 1",
		},
		{
			"no-policies",
			"configVersion: 1\n",
			"at least one policy is required",
		},
		{
			"missing-policy-name",
			"configVersion: 1\npolicies:\n  - directives:\n      - name: default-src\n        sources: [\"'self'\"]\n",
			"policies[0].name is required",
		},
		{
			"duplicate-policy-name",
			"configVersion: 1\npolicies:\n  - name: a\n    directives:\n      - name: default-src\n        sources: [\"'self'\"]\n  - name: a\n    directives:\n      - name: default-src\n        sources: [\"'self'\"]\n",
			"policies[1].name \"a\" is duplicated",
		},
		{
			"no-directives",
			"configVersion: 1\npolicies:\n  - name: a\n",
			"policies[0].directives must not be empty",
		},
		{
			"unknown-directive",
			"configVersion: 1\npolicies:\n  - name: a\n    directives:\n      - name: bogus-src\n        sources: [\"'self'\"]\n",
			"policies[0].directives[0].name \"bogus-src\" must be one of",
		},
		{
			"duplicate-directive",
			"configVersion: 1\npolicies:\n  - name: a\n    directives:\n      - name: img-src\n        sources: [\"*\"]\n      - name: img-src\n        sources: [\"'self'\"]\n",
			"policies[0].directives[1].name \"img-src\" is duplicated",
		},
		{
			"invalid-source",
			"configVersion: 1\npolicies:\n  - name: a\n    directives:\n      - name: img-src\n        sources: [\"bad\\nvalue\"]\n",
			"policies[0].directives[0].sources[0] invalid",
		},
	}

	for _, tt := range cases {
		cfg, err := Load(writeConfig(t, tt.content))
		if err != nil {
			t.Fatalf("%s: unexpected load error: %v", tt.name, err)
		}
		err = cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tt.name)
		}
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("%s: expected *ValidationError, got %T", tt.name, err)
		}
		found := false
		for _, problem := range verr.Problems {
			if strings.Contains(problem, tt.problem) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("%s: expected problem containing %q, got %v", tt.name, tt.problem, verr.Problems)
		}
	}
}

func TestPolicyHeader(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	h, err := cfg.Policies[0].Header()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	want := "Content-Security-Policy: default-src 'self'; script-src 'self' https://cdn.example.com; object-src 'none';"
	if h.String() != want {
		t.Fatalf("expected %q, got %q", want, h.String())
	}
}
