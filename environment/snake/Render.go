package snake

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/samuelfneumann/snakeq/environment"
)

// Terminal styles, one per kind of cell
var (
	headStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B8E23"))
	bodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#556B2F"))
	foodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	bonusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF69B4"))
	hazardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C80000"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
)

// String renders the board for a terminal
func (g *Game) String() string {
	cols := g.Width / g.BlockSize
	rows := g.Height / g.BlockSize

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := environment.Point{X: c * g.BlockSize, Y: r * g.BlockSize}
			sb.WriteString(g.cell(p))
		}
		if r < rows-1 {
			sb.WriteByte('\n')
		}
	}

	header := fmt.Sprintf("Score: %d  Length: %d  Frame: %d", g.score,
		len(g.body), g.frame)
	return lipgloss.JoinVertical(lipgloss.Left, header,
		boardStyle.Render(sb.String()))
}

// cell renders a single board cell. The snake is drawn above items.
func (g *Game) cell(p environment.Point) string {
	switch {
	case p == g.head:
		return headStyle.Render("██")
	case g.onBody(p):
		return bodyStyle.Render("▓▓")
	case p == g.food:
		return foodStyle.Render("██")
	case p == g.bonus:
		return bonusStyle.Render("██")
	case p == g.hazard:
		return hazardStyle.Render("██")
	default:
		return emptyStyle.Render("··")
	}
}

// SavePNG saves a snapshot image of the board to filename
func (g *Game) SavePNG(filename string) error {
	dc := gg.NewContext(g.Width, g.Height)
	dc.SetRGB255(192, 192, 192)
	dc.Clear()

	bs := float64(g.BlockSize)
	fill := func(p environment.Point, r, gr, b int) {
		dc.SetRGB255(r, gr, b)
		dc.DrawRectangle(float64(p.X), float64(p.Y), bs, bs)
		dc.Fill()
	}

	fill(g.food, 255, 215, 0)
	fill(g.bonus, 255, 105, 180)
	fill(g.hazard, 200, 0, 0)

	inset := bs / 5
	for _, segment := range g.body {
		fill(segment, 85, 107, 47)
		dc.SetRGB255(107, 142, 35)
		dc.DrawRectangle(float64(segment.X)+inset, float64(segment.Y)+inset,
			bs-2*inset, bs-2*inset)
		dc.Fill()
	}

	dc.SetRGB255(255, 255, 255)
	dc.DrawString(fmt.Sprintf("Score: %d", g.score), 4, 16)

	if err := dc.SavePNG(filename); err != nil {
		return errors.Wrapf(err, "savepng: could not save %s", filename)
	}
	return nil
}
