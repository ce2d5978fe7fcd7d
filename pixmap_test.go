package railway

import "testing"

func TestPixmapSetGetPixelRoundtrip(t *testing.T) {
	pm := NewPixmap(10, 10)
	pm.SetPixel(5, 5, RGBA{R: 0.5, G: 0.25, B: 0.125, A: 1})

	got := pm.GetPixel(5, 5)
	const tolerance = 1.0 / 255
	if abs(got.R-0.5) > tolerance || abs(got.G-0.25) > tolerance || abs(got.B-0.125) > tolerance || abs(got.A-1) > tolerance {
		t.Errorf("GetPixel() = %+v, want approximately {0.5 0.25 0.125 1}", got)
	}
}

func TestPixmapSetPixelOutOfBoundsIsNoOp(t *testing.T) {
	pm := NewPixmap(10, 10)
	pm.Clear(Black)
	original := make([]uint8, len(pm.Data()))
	copy(original, pm.Data())

	oob := []struct{ x, y int }{
		{-1, 5}, {10, 5}, {5, -1}, {5, 10}, {-100, -100}, {100, 100},
	}
	for _, c := range oob {
		pm.SetPixel(c.x, c.y, Red)
	}

	for i, v := range pm.Data() {
		if v != original[i] {
			t.Fatalf("out-of-bounds write modified data at index %d: got %d, want %d", i, v, original[i])
		}
	}
}

func TestPixmapGetPixelOutOfBoundsReturnsTransparent(t *testing.T) {
	pm := NewPixmap(10, 10)
	pm.Clear(White)

	for _, p := range [][2]int{{-1, 0}, {10, 0}, {0, -1}, {0, 10}} {
		if got := pm.GetPixel(p[0], p[1]); got != Transparent {
			t.Errorf("GetPixel(%d, %d) = %+v, want Transparent", p[0], p[1], got)
		}
	}
}

func TestPixmapClearFillsEveryPixel(t *testing.T) {
	pm := NewPixmap(4, 3)
	pm.Clear(Blue)

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got := pm.GetPixel(x, y); got != Blue {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, Blue)
			}
		}
	}
}

func TestPixmapWidthHeight(t *testing.T) {
	pm := NewPixmap(7, 11)
	if pm.Width() != 7 || pm.Height() != 11 {
		t.Errorf("Width/Height = %d/%d, want 7/11", pm.Width(), pm.Height())
	}
	if len(pm.Data()) != 7*11*4 {
		t.Errorf("len(Data()) = %d, want %d", len(pm.Data()), 7*11*4)
	}
}

func TestPixmapImageInterface(t *testing.T) {
	pm := NewPixmap(5, 5)
	pm.Clear(Transparent)
	pm.SetPixel(2, 2, RGBA{R: 1, G: 0, B: 0, A: 1})

	if got := pm.Bounds().Dx(); got != 5 {
		t.Errorf("Bounds().Dx() = %d, want 5", got)
	}
	r, g, b, a := pm.At(2, 2).RGBA()
	if r == 0 || a == 0 {
		t.Errorf("At(2, 2) = (%d, %d, %d, %d), want an opaque red pixel", r, g, b, a)
	}
}

func TestPixmapToImageCopiesData(t *testing.T) {
	pm := NewPixmap(3, 3)
	pm.Clear(Green)

	img := pm.ToImage()
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 3 {
		t.Fatalf("ToImage() bounds = %v, want 3x3", img.Bounds())
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if g == 0 || r != 0 || b != 0 {
		t.Errorf("ToImage() pixel at (1,1) = (%d, %d, %d), want pure green", r, g, b)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
