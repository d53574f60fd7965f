package geometry

import (
	"math"
	"testing"
)

func TestNewDuctMirroredWalls(t *testing.T) {
	d, err := NewDuct(800, 400, 7, "laval")
	if err != nil {
		t.Fatalf("duct failed: %v", err)
	}

	top, bottom := d.Top.Points(), d.Bottom.Points()
	if len(top) != 7 || len(bottom) != 7 {
		t.Fatalf("expected 7 points per wall, got %d/%d", len(top), len(bottom))
	}
	for i := range top {
		if top[i].X != bottom[i].X {
			t.Errorf("point %d: x mismatch %g vs %g", i, top[i].X, bottom[i].X)
		}
		mirrored := 2*d.CenterY - bottom[i].Y
		if math.Abs(top[i].Y-mirrored) > 1e-9 {
			t.Errorf("point %d: top %g not mirror of bottom %g", i, top[i].Y, bottom[i].Y)
		}
	}
}

func TestDuctMovePointMirrors(t *testing.T) {
	d, err := NewDuct(800, 400, 5, "straight")
	if err != nil {
		t.Fatalf("duct failed: %v", err)
	}

	d.MovePoint(BottomWall, 2, 400, 350)

	bottom := d.Bottom.Points()[2]
	top := d.Top.Points()[2]
	if bottom.Y != 350 {
		t.Errorf("bottom drag lost: got %g", bottom.Y)
	}
	if math.Abs(top.Y-(2*d.CenterY-350)) > 1e-9 {
		t.Errorf("top not mirrored: got %g", top.Y)
	}

	// Dragging the top wall mirrors back onto the bottom.
	d.MovePoint(TopWall, 2, 400, 80)
	if got := d.Bottom.Points()[2].Y; math.Abs(got-(2*d.CenterY-80)) > 1e-9 {
		t.Errorf("bottom not mirrored from top drag: got %g", got)
	}
}

func TestDuctAreaFromBottomWall(t *testing.T) {
	d, err := NewDuct(800, 400, 5, "straight")
	if err != nil {
		t.Fatalf("duct failed: %v", err)
	}

	x := 400.0
	r := d.Bottom.HeightAt(x) - d.CenterY
	want := math.Pi * r * r
	if got := d.Area(x); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %g, got %g", want, got)
	}
}

func TestStraightDuctConstantArea(t *testing.T) {
	d, err := NewDuct(800, 400, 5, "straight")
	if err != nil {
		t.Fatalf("duct failed: %v", err)
	}

	base := d.Area(0)
	for x := 0.0; x <= 800; x += 50 {
		if got := d.Area(x); math.Abs(got-base) > 1e-6 {
			t.Errorf("area varies at x=%g: %g vs %g", x, got, base)
		}
	}
}

func TestLavalDuctHasThroat(t *testing.T) {
	d, err := NewDuct(800, 400, 7, "laval")
	if err != nil {
		t.Fatalf("duct failed: %v", err)
	}

	throat := d.Area(800 * 0.45)
	if d.Area(0) <= throat || d.Area(800) <= throat {
		t.Error("expected the throat to be the narrowest station")
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		w, h    float64
		n       int
	}{
		{"unknown profile", "corkscrew", 800, 400, 5},
		{"too few points", "laval", 800, 400, 1},
		{"zero extent", "laval", 0, 400, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Layout(tt.profile, tt.w, tt.h, tt.n); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSampleWall(t *testing.T) {
	d, err := NewDuct(800, 400, 5, "laval")
	if err != nil {
		t.Fatalf("duct failed: %v", err)
	}

	pts := d.SampleWall(BottomWall, 50)
	if len(pts) != 50 {
		t.Fatalf("expected 50 samples, got %d", len(pts))
	}
	if pts[0].X != 0 || pts[len(pts)-1].X != 800 {
		t.Errorf("samples do not span the duct: %g..%g", pts[0].X, pts[len(pts)-1].X)
	}
}

func TestDuctResize(t *testing.T) {
	d, err := NewDuct(800, 400, 5, "laval")
	if err != nil {
		t.Fatalf("duct failed: %v", err)
	}
	d.MovePoint(BottomWall, 2, 300, 390)

	if err := d.Resize(1000, 500, "laval"); err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if d.Length != 1000 || d.CenterY != 250 {
		t.Errorf("extent not updated: length %g, center %g", d.Length, d.CenterY)
	}
	// Drag state is discarded by the fresh layout.
	if got := d.Bottom.Points()[2].Y; got == 390 {
		t.Error("resize kept dragged layout")
	}
}
