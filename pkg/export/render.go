package export

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

// Card geometry. The card grows vertically with the number of rows.
const (
	cardWidth   = 480
	marginX     = 24
	headerH     = 56
	groupGap    = 14
	rowH        = 22
	barW        = 120
	barH        = 10
	footerH     = 20
	labelMaxLen = 42
)

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBarBG    = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorBarDone  = color.RGBA{0x4c, 0xaf, 0x50, 0xff}
	colorBarPart  = color.RGBA{0xff, 0xb7, 0x4d, 0xff}
)

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func cardHeight(rep report) int {
	h := headerH + footerH + 16
	for _, g := range rep.groups {
		h += groupGap + rowH // group heading
		h += rowH * len(g.rows)
	}
	return h
}

func clip(s string) string {
	if len(s) <= labelMaxLen {
		return s
	}
	return s[:labelMaxLen-1] + "…"
}

// barFill returns the filled fraction of a row's progress bar.
func barFill(r row) float64 {
	if !r.hasTotal || r.total == 0 {
		return 0
	}
	f := float64(r.completed) / float64(r.total)
	if f > 1 {
		f = 1
	}
	return f
}

func renderSVG(path string, rep report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, rep)
}

func renderSVGToWriter(w io.Writer, rep report) error {
	height := cardHeight(rep)
	canvas := svg.New(w)
	canvas.Start(cardWidth, height)
	canvas.Rect(0, 0, cardWidth, height, "fill:"+css(colorBackdrop))
	canvas.Roundrect(12, 12, cardWidth-24, headerH-16, 8, 8, "fill:"+css(colorHeaderBG))

	textStyle := "font-family:monospace;font-size:13px;fill:" + css(colorText)
	subtleStyle := "font-family:monospace;font-size:11px;fill:" + css(colorSubtle)

	canvas.Text(marginX, 36, clip(rep.title), textStyle)
	canvas.Text(cardWidth-marginX-130, 36, fmt.Sprintf("%d/%d pages done", rep.pagesDone, rep.pages), subtleStyle)

	y := headerH + 8
	for _, g := range rep.groups {
		y += groupGap
		canvas.Text(marginX, y+14, clip(g.label), textStyle)
		y += rowH
		for _, r := range g.rows {
			canvas.Text(marginX+12, y+14, clip(r.label), subtleStyle)

			bx := cardWidth - marginX - barW - 70
			canvas.Roundrect(bx, y+6, barW, barH, 3, 3, "fill:"+css(colorBarBG))
			if fill := barFill(r); fill > 0 {
				c := colorBarPart
				if r.done {
					c = colorBarDone
				}
				canvas.Roundrect(bx, y+6, int(float64(barW)*fill), barH, 3, 3, "fill:"+css(c))
			}
			canvas.Text(bx+barW+8, y+14, r.marker(), subtleStyle)
			y += rowH
		}
	}

	canvas.End()
	return nil
}

func renderPNG(path string, rep report) error {
	height := cardHeight(rep)
	dc := gg.NewContext(cardWidth, height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(12, 12, cardWidth-24, headerH-16, 8)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawString(clip(rep.title), marginX, 36)
	dc.SetColor(colorSubtle)
	dc.DrawString(fmt.Sprintf("%d/%d pages done", rep.pagesDone, rep.pages), cardWidth-marginX-130, 36)

	y := float64(headerH + 8)
	for _, g := range rep.groups {
		y += groupGap
		dc.SetColor(colorText)
		dc.DrawString(clip(g.label), marginX, y+14)
		y += rowH
		for _, r := range g.rows {
			dc.SetColor(colorSubtle)
			dc.DrawString(clip(r.label), marginX+12, y+14)

			bx := float64(cardWidth - marginX - barW - 70)
			dc.SetColor(colorBarBG)
			dc.DrawRoundedRectangle(bx, y+6, barW, barH, 3)
			dc.Fill()
			if fill := barFill(r); fill > 0 {
				if r.done {
					dc.SetColor(colorBarDone)
				} else {
					dc.SetColor(colorBarPart)
				}
				dc.DrawRoundedRectangle(bx, y+6, float64(barW)*fill, barH, 3)
				dc.Fill()
			}
			dc.SetColor(colorSubtle)
			dc.DrawString(r.marker(), bx+barW+8, y+14)
			y += rowH
		}
	}

	return dc.SavePNG(path)
}
