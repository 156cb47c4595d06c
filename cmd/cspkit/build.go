package main

import (
	"errors"
	"fmt"

	"github.com/cspkit/cspkit/internal/config"
	"github.com/cspkit/cspkit/internal/csp"
	"github.com/cspkit/cspkit/internal/report"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var configPath string
	var policyName string
	var outPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build header lines from a policy definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return errors.New("config path is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			headers, err := buildHeaders(cfg, policyName)
			if err != nil {
				return err
			}

			out, err := renderHeaders(headers)
			if err != nil {
				return err
			}
			return report.WriteOutput(outPath, []byte(out))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to policy definition file")
	cmd.Flags().StringVar(&policyName, "policy", "", "Build only the named policy")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file path (default stdout)")

	return cmd
}

func buildHeaders(cfg *config.Config, policyName string) ([]*csp.PolicyHeader, error) {
	var headers []*csp.PolicyHeader
	for _, policy := range cfg.Policies {
		if policyName != "" && policy.Name != policyName {
			continue
		}
		h, err := policy.Header()
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("no policy named %q", policyName)
	}
	return headers, nil
}

// renderHeaders emits a single header as one line, and several headers as
// the CRLF-terminated multi-header block HTTP uses for repeated field names.
func renderHeaders(headers []*csp.PolicyHeader) (string, error) {
	if len(headers) == 1 {
		return headers[0].String() + "\n", nil
	}

	siblings := make([]csp.HeaderField, 0, len(headers)-1)
	for _, h := range headers[1:] {
		siblings = append(siblings, h)
	}
	return headers[0].FormatMultiple(siblings...)
}
