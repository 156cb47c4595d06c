// Package report audits capture files of Content-Security-Policy header
// lines and summarizes what the captured policies allow.
package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cspkit/cspkit/internal/csp"
)

type Summary struct {
	Headers           int         `json:"headers"`
	Directives        int         `json:"directives"`
	MissingDefaultSrc int         `json:"missing_default_src"`
	UnsafeInline      int         `json:"unsafe_inline"`
	UnsafeEval        int         `json:"unsafe_eval"`
	WildcardSources   int         `json:"wildcard_sources"`
	WithReportURI     int         `json:"with_report_uri"`
	TopDirectives     []CountItem `json:"top_directives"`
	TopSources        []CountItem `json:"top_sources"`
}

type CountItem struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Reader loads a capture file: one raw Content-Security-Policy header line
// per line, blank lines skipped. A line that fails to parse aborts the read.
type Reader struct{}

func (r *Reader) Read(path string) ([]*csp.PolicyHeader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var headers []*csp.PolicyHeader
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h, err := csp.ParsePolicyHeader(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		headers = append(headers, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return headers, nil
}

func Summarize(headers []*csp.PolicyHeader) Summary {
	var summary Summary
	if len(headers) == 0 {
		return summary
	}

	directiveCounts := map[string]int{}
	sourceCounts := map[string]int{}

	for _, h := range headers {
		summary.Headers++

		if _, ok := h.Directive(csp.DefaultSrc); !ok {
			summary.MissingDefaultSrc++
		}
		if _, ok := h.Directive(csp.ReportURI); ok {
			summary.WithReportURI++
		}

		for _, d := range h.Directives() {
			summary.Directives++
			directiveCounts[d.Name]++

			for _, source := range strings.Fields(d.Value) {
				sourceCounts[source]++
				switch source {
				case "'unsafe-inline'":
					summary.UnsafeInline++
				case "'unsafe-eval'":
					summary.UnsafeEval++
				case "*":
					summary.WildcardSources++
				}
			}
		}
	}

	summary.TopDirectives = topCounts(directiveCounts, 5)
	summary.TopSources = topCounts(sourceCounts, 5)

	return summary
}

func topCounts(counts map[string]int, n int) []CountItem {
	items := make([]CountItem, 0, len(counts))
	for key, count := range counts {
		items = append(items, CountItem{Key: key, Count: count})
	}
	if len(items) == 0 {
		return nil
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Key < items[j].Key
		}
		return items[i].Count > items[j].Count
	})

	if len(items) > n {
		items = items[:n]
	}
	return items
}

func RenderText(summary Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Headers: %d\n", summary.Headers)
	fmt.Fprintf(&b, "Directives: %d\n", summary.Directives)
	fmt.Fprintf(&b, "Missing default-src: %d\n", summary.MissingDefaultSrc)
	fmt.Fprintf(&b, "With report-uri: %d\n", summary.WithReportURI)
	fmt.Fprintf(&b, "'unsafe-inline' uses: %d\n", summary.UnsafeInline)
	fmt.Fprintf(&b, "'unsafe-eval' uses: %d\n", summary.UnsafeEval)
	fmt.Fprintf(&b, "Wildcard sources: %d\n", summary.WildcardSources)

	writeCounts(&b, "Top directives", summary.TopDirectives)
	writeCounts(&b, "Top sources", summary.TopSources)

	return b.String()
}

func RenderMarkdown(summary Summary) string {
	var b strings.Builder
	b.WriteString("# CSP Report\n\n")
	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Headers: %d\n", summary.Headers)
	fmt.Fprintf(&b, "- Directives: %d\n", summary.Directives)
	fmt.Fprintf(&b, "- Missing default-src: %d\n", summary.MissingDefaultSrc)
	fmt.Fprintf(&b, "- With report-uri: %d\n", summary.WithReportURI)
	fmt.Fprintf(&b, "- 'unsafe-inline' uses: %d\n", summary.UnsafeInline)
	fmt.Fprintf(&b, "- 'unsafe-eval' uses: %d\n", summary.UnsafeEval)
	fmt.Fprintf(&b, "- Wildcard sources: %d\n\n", summary.WildcardSources)

	writeCountsMarkdown(&b, "Top directives", summary.TopDirectives)
	writeCountsMarkdown(&b, "Top sources", summary.TopSources)

	return b.String()
}

func RenderJSON(summary Summary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}

func writeCounts(b *strings.Builder, title string, items []CountItem) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: none\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s: %d\n", item.Key, item.Count)
	}
}

func writeCountsMarkdown(b *strings.Builder, title string, items []CountItem) {
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n\n")
	if len(items) == 0 {
		b.WriteString("- none\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s: %d\n", item.Key, item.Count)
	}
	b.WriteString("\n")
}

func WriteOutput(path string, content []byte) error {
	if path == "" {
		_, err := io.Copy(os.Stdout, bytes.NewReader(content))
		return err
	}
	return os.WriteFile(path, content, 0o600)
}
