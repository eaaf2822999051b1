package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Writer renders a report.
type Writer interface {
	Write(r *Report, w io.Writer) error
}

// YAMLWriter renders the report as a YAML document.
type YAMLWriter struct{}

func (YAMLWriter) Write(r *Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// TextWriter renders the report as a human readable table.
type TextWriter struct{}

func (TextWriter) Write(r *Report, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "run %s\n", r.RunID)
	if r.Graph != "" {
		fmt.Fprintf(&b, "graph %s\n", r.Graph)
	}
	fmt.Fprintf(&b, "config %s\n", r.Config)
	fmt.Fprintf(&b, "levels %d, total time %s\n\n", len(r.Levels), r.Duration)

	fmt.Fprintf(&b, "%-6s %10s %10s %12s %10s\n", "level", "nodes", "edges", "node_weight", "max_node")
	for _, s := range r.Hierarchy {
		fmt.Fprintf(&b, "%-6d %10d %10d %12d %10d\n", s.Level, s.Nodes, s.Edges, s.TotalNodeWeight, s.MaxNodeWeight)
	}

	if len(r.Levels) > 0 {
		fmt.Fprintf(&b, "\n%-6s %-20s %10s %10s %10s %8s\n", "level", "kind", "nodes", "coarser", "modularity", "verified")
		for _, ls := range r.Levels {
			fmt.Fprintf(&b, "%-6d %-20s %10d %10d %10.4f %8t\n",
				ls.Level, ls.Kind, ls.Nodes, ls.CoarserNodes, ls.Modularity, ls.Verified)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// NewWriter returns the writer for a format name ("yaml" or "text").
func NewWriter(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return YAMLWriter{}, nil
	case "text", "txt":
		return TextWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile writes r to path, picking the format from the file extension.
// Unknown extensions get the text format.
func WriteFile(r *Report, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	w, err := NewWriter(format)
	if err != nil {
		w = TextWriter{}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := w.Write(r, file); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
