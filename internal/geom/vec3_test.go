package geom

import (
	"testing"

	"github.com/chewxy/math32"
)

const eps = 1e-6

func TestNormalizeUnitLength(t *testing.T) {
	v := V3(3, -4, 12).Normalize()
	if d := math32.Abs(v.Length() - 1); d > eps {
		t.Fatalf("normalized length = %f, want 1", v.Length())
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Fatalf("normalizing zero vector changed it: %+v", zero)
	}
}

func TestCrossOrthogonal(t *testing.T) {
	a := V3(1, 0, 0)
	b := V3(0, 1, 0)
	c := a.Cross(b)
	if c != V3(0, 0, 1) {
		t.Fatalf("x cross y = %+v, want (0,0,1)", c)
	}
	if math32.Abs(c.Dot(a)) > eps || math32.Abs(c.Dot(b)) > eps {
		t.Fatal("cross product not orthogonal to operands")
	}
}

func TestMidpointDistance(t *testing.T) {
	a := V3(0, 0, 0)
	b := V3(2, 4, 6)
	m := a.Midpoint(b)
	if m != V3(1, 2, 3) {
		t.Fatalf("midpoint = %+v, want (1,2,3)", m)
	}
	if d := a.Distance(b); math32.Abs(d-math32.Sqrt(56)) > eps {
		t.Fatalf("distance = %f, want sqrt(56)", d)
	}
}
