package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cspkit/cspkit/internal/csp"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var inputPath string
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [headerLine]",
		Short: "Parse a raw header line and print its directives",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := inspectInput(args, inputPath)
			if err != nil {
				return err
			}

			h, err := csp.ParsePolicyHeader(line)
			if err != nil {
				return err
			}

			switch format {
			case "", "text":
				for _, d := range h.Directives() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d.Name, d.Value)
				}
				return nil
			case "json":
				data, err := json.MarshalIndent(h.Directives(), "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&inputPath, "in", "", "Read the header line from a file instead of an argument")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json")

	return cmd
}

// inspectInput picks the header line: the positional argument, or the first
// non-blank line of --in.
func inspectInput(args []string, inputPath string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if inputPath == "" {
		return "", errors.New("a header line argument or --in is required")
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s contains no header line", inputPath)
}
