package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/harmonylink/fog"
	"github.com/lixenwraith/harmonylink/projection"
	"github.com/lixenwraith/harmonylink/scene"
	"github.com/lixenwraith/harmonylink/script"
	"github.com/lixenwraith/harmonylink/session"
	"github.com/lixenwraith/harmonylink/vmath"
)

const helpLine = " wheel/j: scroll   drag: move harmonylink   r: reset   q: quit "

const fogBarWidth = 20

var (
	styleBase   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewRGBColor(0xfa, 0x9c, 0x1b))
	stylePanel  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(0x20, 0x20, 0x28)).Bold(true)
	styleLabel  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xa0, 0xa0, 0xa0))
	styleHelp   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0x80, 0x80, 0x80)).Background(tcell.ColorBlack)
	stylePhone  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0x60, 0xa0, 0xff))
	styleLink   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xff, 0xd0, 0x60))
	indicatorFg = map[string]tcell.Color{
		"off":   tcell.NewRGBColor(0x40, 0x40, 0x40),
		"red":   tcell.NewRGBColor(0xff, 0x00, 0x00),
		"green": tcell.NewRGBColor(0x00, 0xff, 0x00),
	}
)

var objectGlyphs = map[string]rune{
	script.ObjectPhone: '▮',
	script.ObjectLink:  '◆',
}

// renderer draws a session snapshot into a tcell screen
type renderer struct {
	screen tcell.Screen
	script *script.Script
	bg     tcell.Color
}

func newRenderer(screen tcell.Screen, sc *script.Script) *renderer {
	return &renderer{screen: screen, script: sc}
}

// draw renders one frame; the caller owns Show
func (r *renderer) draw(snap session.Snapshot, cam *scene.Camera) {
	cols, rows := r.screen.Size()
	vp := viewport{cols: cols, rows: rows}
	w, h := vp.size()

	r.bg = fogColor(snap.Fog)
	r.fill(vp, styleBase.Background(r.bg))

	for _, o := range snap.Objects {
		sp := projection.Project(o.Position, cam, w, h)
		if !sp.Visible {
			continue
		}
		x, y := vp.cell(sp)
		glyph, ok := objectGlyphs[o.ID]
		if !ok {
			glyph = '■'
		}
		style := stylePhone
		if o.ID == script.ObjectLink {
			style = styleLink
		}
		if snap.Dragging == o.ID {
			style = style.Reverse(true)
		}
		r.put(vp, x, y, glyph, style)
		r.text(vp, x-runewidth.StringWidth(o.ID)/2, y+1, o.ID, styleLabel)
	}

	if sp := projection.Project(r.script.Indicator.V(), cam, w, h); sp.Visible {
		x, y := vp.cell(sp)
		r.put(vp, x, y, '●', tcell.StyleDefault.Foreground(indicatorFg[snap.Indicator]))
	}

	for _, p := range snap.Panels {
		if !p.Visible || p.Text == "" {
			continue
		}
		x, y := vp.cell(projection.ScreenPoint{X: p.X, Y: p.Y, Visible: true})
		label := " " + p.Text + " "
		r.text(vp, x-runewidth.StringWidth(label)/2, y, label, stylePanel)
	}

	r.hud(vp, snap)
}

func (r *renderer) hud(vp viewport, snap session.Snapshot) {
	filled := int(snap.Fog.Density / snap.Fog.MaxDensity * fogBarWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", fogBarWidth-filled)

	link := "no signal"
	if snap.Connected {
		link = "linked"
	}
	step := fmt.Sprintf("%d/%d", snap.Narrative.CurrentStepIndex+1, len(r.script.Steps))
	top := fmt.Sprintf(" fog %s %.3f  step %s %s  %s ", bar, snap.Fog.Density, step, snap.Narrative.Phase, link)

	r.text(vp, 0, 0, padRight(top, vp.cols), styleHUD)
	r.text(vp, 0, vp.rows-1, padRight(helpLine, vp.cols), styleHelp)
}

func (r *renderer) fill(vp viewport, style tcell.Style) {
	for y := 0; y < vp.rows; y++ {
		for x := 0; x < vp.cols; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (r *renderer) put(vp viewport, x, y int, ch rune, style tcell.Style) {
	if !vp.contains(x, y) {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style.Background(r.bg))
}

// text draws s from (x, y), clipped to the viewport
func (r *renderer) text(vp viewport, x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		if vp.contains(x, y) {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x += runewidth.RuneWidth(ch)
	}
}

// fogColor tints the backdrop from black toward the fog color as density rises
func fogColor(st fog.State) tcell.Color {
	frac := 0.0
	if st.MaxDensity > 0 {
		frac = vmath.Clamp(st.Density/st.MaxDensity, 0, 1)
	}
	return tcell.NewRGBColor(int32(0xfa*frac), int32(0x9c*frac), int32(0x1b*frac))
}

func padRight(s string, width int) string {
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
