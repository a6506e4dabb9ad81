package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text|json|yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown audit format %q (expected text|json|yaml)", s)
	}
}

// Write renders rep in the given format.
func Write(w io.Writer, rep Report, format Format, colored bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, Text(rep, colored))
		return err
	}
}

type palette struct {
	file, endorse, dedorse, dim lipgloss.Style
}

func newPalette(colored bool) palette {
	if !colored {
		plain := lipgloss.NewStyle()
		return palette{file: plain, endorse: plain, dedorse: plain, dim: plain}
	}
	return palette{
		file:    lipgloss.NewStyle().Bold(true),
		endorse: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		dedorse: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Text renders the human-readable report:
//
//	src/a.c
//	  #1 ENDORSE  12:9   in compute  sentinel=0xE5D0  operand APPROX int
func Text(rep Report, colored bool) string {
	p := newPalette(colored)
	var sb strings.Builder
	for _, u := range rep.Units {
		sb.WriteString(p.file.Render(u.File))
		switch {
		case u.Skipped:
			sb.WriteString(p.dim.Render("  (not checked)"))
		case !u.Accepted:
			sb.WriteString(p.dim.Render("  (rejected)"))
		}
		sb.WriteByte('\n')
		if len(u.Sites) == 0 && !u.Skipped {
			sb.WriteString(p.dim.Render("  no escape sites"))
			sb.WriteByte('\n')
		}
		for _, s := range u.Sites {
			dir := p.endorse
			if s.Direction == "DEDORSE" {
				dir = p.dedorse
			}
			where := "file scope"
			if s.Func != "" {
				where = "in " + s.Func
			}
			fmt.Fprintf(&sb, "  #%-3d %s %-7s %s  sentinel=0x%X  operand %s",
				s.ID, dir.Render(fmt.Sprintf("%-7s", s.Direction)),
				fmt.Sprintf("%d:%d", s.Line, s.Col), where, s.Sentinel, s.Operand)
			if s.Redundant {
				sb.WriteString(p.dim.Render("  (redundant)"))
			}
			sb.WriteByte('\n')
		}
	}
	fmt.Fprintf(&sb, "%d escape sites (%d ENDORSE, %d DEDORSE)\n", rep.Total, rep.Endorse, rep.Dedorse)
	return sb.String()
}
