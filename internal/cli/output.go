package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/agentscape/pkg/pipeline"
	"github.com/matzehuels/agentscape/pkg/plot"
)

// artifactWriteParams describes rendered artifacts and where they go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
	plotted   int
	displaced int
}

// writeArtifacts writes one file per format. A single format is written to
// output verbatim when given; otherwise files are named <base>.<format>.
func writeArtifacts(w io.Writer, p artifactWriteParams) ([]string, error) {
	base := basePath(p.output, p.input)
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s artifact rendered", format)
		}
		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess(w, "Rendered %s", strings.Join(p.formats, ", "))
	for _, path := range paths {
		printFile(w, path)
	}
	printStats(w, p.plotted, p.displaced, p.cacheHit)
	return paths, nil
}

// basePath derives the output path without extension. With no output the
// input's name is used; remote inputs fall back to the application name.
// Known format extensions are stripped from output.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if pipeline.KindOf(input) != pipeline.SourceFile {
		return appName
	}
	input = strings.TrimSuffix(input, ".layout.json")
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// countDisplaced counts points the layout engine moved.
func countDisplaced(l plot.Layout) int {
	n := 0
	for _, p := range l.Points {
		if p.Displaced() {
			n++
		}
	}
	return n
}
