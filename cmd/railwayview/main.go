// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command railwayview is an interactive viewer for Railway container files.
// It decodes a .rwy file, runs its stack program every tick, and renders the
// result into an ebiten window. The left/right and up/down arrow keys nudge
// the x and y of the program's first declared argument; the mouse position,
// scaled to [0,1] across the window, drives the second, if present. R resets
// every argument to its default.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/railwayfmt/railway"
	"github.com/railwayfmt/railway/raster"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
	nudgePerTick  = 0.02
)

// Game implements ebiten.Game, evaluating one Railway program per tick and
// blitting its rendered frame.
type Game struct {
	prog   *railway.Program
	stack  []railway.Couple
	params []railway.Parameter

	pix     *railway.Pixmap
	canvas  *raster.Adapter
	cache   *railway.RenderCache
	surface *ebiten.Image
}

func newGame(prog *railway.Program, width, height int) (*Game, error) {
	params, err := prog.Parameters()
	if err != nil {
		return nil, fmt.Errorf("railwayview: %w", err)
	}

	pix := railway.NewPixmap(width, height)
	return &Game{
		prog:    prog,
		stack:   prog.NewStack(),
		params:  params,
		pix:     pix,
		canvas:  raster.NewAdapter(pix),
		cache:   railway.NewRenderCache(prog),
		surface: ebiten.NewImage(width, height),
	}, nil
}

func (g *Game) Update() error {
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += nudgePerTick
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= nudgePerTick
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= nudgePerTick
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += nudgePerTick
	}
	if (dx != 0 || dy != 0) && len(g.params) > 0 {
		cur := g.stack[0]
		g.setArgument(0, railway.NewCouple(float64(cur.X)+dx, float64(cur.Y)+dy))
	}

	if len(g.params) > 1 {
		mx, my := ebiten.CursorPosition()
		w, h := g.pix.Width(), g.pix.Height()
		g.setArgument(1, railway.NewCouple(float64(mx)/float64(w), float64(my)/float64(h)))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.stack = g.prog.NewStack()
	}

	g.prog.Compute(g.stack)
	return nil
}

// setArgument clamps value into the i'th declared parameter's range and
// writes it directly to the stack slot, bypassing the name lookup
// Program.SetArgument performs since the index is already known.
func (g *Game) setArgument(i int, value railway.Couple) {
	p := g.params[i]
	g.stack[i] = railway.Couple{
		X: clampf32(value.X, min32(p.Min.X, p.Max.X), max32(p.Min.X, p.Max.X)),
		Y: clampf32(value.Y, min32(p.Min.Y, p.Max.Y), max32(p.Min.Y, p.Max.Y)),
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.pix.Clear(railway.Transparent)
	g.prog.Render(g.stack, g.canvas, railway.WithCache(g.cache))
	g.surface.WritePixels(g.pix.Data())
	screen.DrawImage(g.surface, nil)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  arrows: arg 0  mouse: arg 1  R: reset", ebiten.ActualFPS()), 4, 4)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.pix.Width(), g.pix.Height()
}

func clampf32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func main() {
	var width, height int
	flag.IntVar(&width, "width", defaultWidth, "viewer window width")
	flag.IntVar(&height, "height", defaultHeight, "viewer window height")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: railwayview [-width N] [-height N] <file.rwy>")
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		slog.Error("read file", "error", err)
		os.Exit(1)
	}

	prog, err := railway.Decode(data)
	if err != nil {
		slog.Error("decode program", "error", err)
		os.Exit(1)
	}

	game, err := newGame(prog, width, height)
	if err != nil {
		slog.Error("create viewer", "error", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("railwayview: " + flag.Arg(0))
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}
