package main

import (
	"fmt"
	"log"

	"github.com/cspkit/cspkit/internal/csp"
)

func main() {
	site := csp.NewPolicyHeader()
	if err := site.SetDirective(csp.DefaultSrc, []string{"'self'"}); err != nil {
		log.Fatal(err)
	}
	if err := site.SetDirective(csp.ScriptSrc, []string{"'self'", "https://cdn.example.com"}); err != nil {
		log.Fatal(err)
	}
	if err := site.SetDirective(csp.ObjectSrc, nil); err != nil {
		log.Fatal(err)
	}

	fmt.Println(site)

	reporting := csp.NewPolicyHeader()
	if err := reporting.SetDirective(csp.DefaultSrc, []string{"'self'"}); err != nil {
		log.Fatal(err)
	}
	if err := reporting.SetDirective(csp.ReportURI, []string{"https://example.com/csp-report"}); err != nil {
		log.Fatal(err)
	}

	block, err := site.FormatMultiple(reporting)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(block)
}
