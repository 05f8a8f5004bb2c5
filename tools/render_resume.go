package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
)

// Renders a saved resume JSON file to an HTML page for inspection.
func main() {
	in := flag.String("in", "resume.json", "resume JSON file")
	template := flag.String("template", "", "override the document's template")
	export := flag.Bool("export", false, "render in export mode")
	flag.Parse()

	b, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read resume: %v\n", err)
		os.Exit(2)
	}
	doc, err := model.Decode(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		os.Exit(2)
	}
	if *template != "" {
		doc.Template = model.TemplateID(*template)
	}

	opts := render.Options{Mode: render.ModePreview}
	if *export {
		opts.Mode = render.ModeExport
	}
	_, page, err := render.Page(doc, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(2)
	}

	outFile := filepath.Join("resume-data", "generated", strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))+"_"+opts.Mode.String()+".html")
	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create out dir: %v\n", err)
		os.Exit(2)
	}
	if err := os.WriteFile(outFile, []byte(page), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write out: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", outFile)
}
