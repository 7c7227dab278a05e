package gol

import (
	"bufio"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Separator is printed between the boards before and after a run
var Separator = strings.Repeat("-", 20)

// Printer writes boards as rows of space-terminated codes
type Printer struct {
	w      io.Writer
	colour *termenv.Output // Styles live cells when non-nil
}

// NewPrinter returns a printer writing to w. With colour set live cells are
// highlighted, but only when w is a terminal; otherwise the text is unchanged
func NewPrinter(w io.Writer, colour bool) *Printer {
	p := &Printer{w: w}
	if colour {
		p.colour = termenv.NewOutput(w)
	}
	return p
}

// Board prints the interior of g, one row per line
func (p *Printer) Board(g Grid) error {
	buffer := bufio.NewWriter(p.w)
	for y := 1; y <= g.Height; y++ {
		for x := 1; x <= g.Width; x++ {
			buffer.WriteString(p.cell(g.Cells[y][x]))
			buffer.WriteByte(' ')
		}
		buffer.WriteByte('\n')
	}
	return buffer.Flush()
}

// Separator prints the separator line
func (p *Printer) Separator() error {
	_, err := io.WriteString(p.w, Separator+"\n")
	return err
}

func (p *Printer) cell(c Code) string {
	if p.colour == nil || c != Alive {
		return c.String()
	}
	return p.colour.String(c.String()).Foreground(p.colour.Color("2")).Bold().String()
}
