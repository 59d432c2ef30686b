package ui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// Marker is a keypoint annotation drawn over the preview, positioned in
// source-frame pixel coordinates.
type Marker struct {
	X, Y  float64
	Color color.Color
}

// RenderFrame scales img to cols x rows terminal cells and renders it with
// half-block characters, two pixel rows per cell. Markers are plotted into
// the scaled image before conversion.
func RenderFrame(t Theme, img image.Image, cols, rows int, markers []Marker) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	src := img.Bounds()
	if src.Dx() == 0 || src.Dy() == 0 {
		return ""
	}

	// Preserve aspect ratio; a cell is two pixels tall.
	w, h := fitTo(src.Dx(), src.Dy(), cols, rows*2)
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, src, xdraw.Src, nil)

	sx := float64(w) / float64(src.Dx())
	sy := float64(h) / float64(src.Dy())
	for _, mk := range markers {
		plotMarker(scaled, int(mk.X*sx), int(mk.Y*sy), mk.Color)
	}

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := termColor(scaled.RGBAAt(x, y))
			bottom := top
			if y+1 < h {
				bottom = termColor(scaled.RGBAAt(x, y+1))
			}
			b.WriteString(t.Renderer.NewStyle().
				Foreground(top).
				Background(bottom).
				Render("▀"))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func fitTo(srcW, srcH, maxW, maxH int) (int, int) {
	w, h := maxW, srcH*maxW/srcW
	if h > maxH {
		w, h = srcW*maxH/srcH, maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// plotMarker stamps a small plus so keypoints stay visible after scaling.
func plotMarker(img *image.RGBA, cx, cy int, c color.Color) {
	r, g, b, _ := c.RGBA()
	rgba := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255}
	for _, d := range [][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		x, y := cx+d[0], cy+d[1]
		if image.Pt(x, y).In(img.Bounds()) {
			img.SetRGBA(x, y, rgba)
		}
	}
}

func termColor(c color.RGBA) lipgloss.Color {
	const hex = "0123456789ABCDEF"
	s := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		s[1+i*2] = hex[v>>4]
		s[2+i*2] = hex[v&0xF]
	}
	return lipgloss.Color(s)
}
