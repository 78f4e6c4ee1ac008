// Package report renders aggregated usage as text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/HaPhanBaoMinh/kusage/internal/domain"
	"github.com/HaPhanBaoMinh/kusage/internal/ui/styles"
	"github.com/HaPhanBaoMinh/kusage/internal/ui/widgets"
)

const defaultBarWidth = 20

// Printer writes the usage summary. The zero value prints plain text.
type Printer struct {
	Color    bool // style section titles
	Bars     bool // append each namespace's share of total CPU
	BarWidth int
}

func (p Printer) Print(w io.Writer, s *domain.Summary) error {
	_, err := io.WriteString(w, p.Render(s))
	return err
}

func (p Printer) Render(s *domain.Summary) string {
	var b strings.Builder

	b.WriteString(p.title("Namespace-wise Resource Usage:"))
	b.WriteByte('\n')
	for _, ns := range s.Namespaces.Names() {
		u, _ := s.Namespaces.Get(ns)
		fmt.Fprintf(&b, "- %s: CPU=%dm (%.2f cores), Memory=%dMi", ns, u.CPUMillicores, u.Cores(), u.MemoryMebibytes)
		if p.Bars {
			b.WriteString("  ")
			b.WriteString(p.bar(widgets.Share(u.CPUMillicores, s.Totals.CPUMillicores)))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(p.title("Total Resource Usage:"))
	b.WriteByte('\n')
	t := s.Totals
	fmt.Fprintf(&b, "Total CPU: %dm (%.2f cores)\n", t.CPUMillicores, t.Cores())
	fmt.Fprintf(&b, "Total Memory in MiB: %dMi\n", t.MemoryMebibytes)
	fmt.Fprintf(&b, "Total Memory in GiB: %.2f Gi\n", t.GiB())
	return b.String()
}

func (p Printer) title(s string) string {
	if !p.Color {
		return s
	}
	return styles.Title.Render(s)
}

func (p Printer) bar(share float64) string {
	width := p.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}
	bar := widgets.Bar(share, width)
	if p.Color {
		bar = styles.Bar.Render(bar)
	}
	return bar
}
