// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"taskmaster/internal/ui"
	"taskmaster/internal/view"
)

// Format selects how a task list is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// EmptyMessage is printed by the text format when there are no tasks.
const EmptyMessage = "no tasks found"

// descIndent lines a description up under the title.
const descIndent = "          "

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json, yaml or html)", s)
}

// Write renders m to w in format f.
func Write(w io.Writer, f Format, m view.Model) error {
	switch f {
	case FormatText, "":
		WriteText(w, m)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	case FormatHTML:
		return view.WriteHTML(w, m)
	}
	return fmt.Errorf("unknown format %q", f)
}

// WriteText writes the numbered listing. Numbers are the 1-based positions
// accepted as task refs.
func WriteText(w io.Writer, m view.Model) {
	if m.EmptyVisible {
		fmt.Fprintln(w, EmptyMessage)
		return
	}
	for i, item := range m.Items {
		FormatItem(w, i+1, item)
	}
}

// FormatItem formats one task.
// Format: "{N:>4}  [x] {TITLE}  ({DATE})\n" followed by the description,
// indented, when there is one.
func FormatItem(w io.Writer, num int, item view.Item) {
	mark := " "
	if item.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s", num, mark, normalizeTitle(item.Title))
	if item.Created != "" {
		fmt.Fprintf(w, "  (%s)", item.Created)
	}
	fmt.Fprintln(w)

	if desc := oneLine(item.Description); strings.TrimSpace(desc) != "" {
		fmt.Fprintf(w, "%s%s\n", descIndent, desc)
	}
}

// ToastSink returns a notification sink for the terminal. Errors go to
// errOut; everything else goes to out unless quiet is set.
func ToastSink(out, errOut io.Writer, quiet bool) func(ui.Notification) {
	return func(n ui.Notification) {
		if n.Kind == ui.KindError {
			fmt.Fprintf(errOut, "error: %s\n", n.Text)
			return
		}
		if !quiet {
			fmt.Fprintln(out, n.Text)
		}
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = oneLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
