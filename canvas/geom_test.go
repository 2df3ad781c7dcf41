package canvas

import "testing"

func TestRectCornerOrder(t *testing.T) {
	r := Rect(5, 7, 1, 2)
	if want := (Rectangle{Pt(1, 2), Pt(5, 7)}); !r.Eq(want) {
		t.Errorf("Rect(5, 7, 1, 2) = %v, want %v", r, want)
	}
	if got := Rect(3, 0, 0, 3); !got.Eq(Rect(0, 3, 3, 0)) {
		t.Errorf("Rect(3, 0, 0, 3) = %v, want %v", got, Rect(0, 3, 3, 0))
	}
}

func TestPointIn(t *testing.T) {
	r := Rect(0, 0, 3, 2)
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(0, 0), true},
		{Pt(2, 1), true},
		{Pt(3, 1), false},
		{Pt(2, 2), false},
		{Pt(-1, 0), false},
	}
	for _, tc := range tests {
		if got := tc.p.In(r); got != tc.want {
			t.Errorf("%v.In(%v) = %v, want %v", tc.p, r, got, tc.want)
		}
	}
}

func TestPointLess(t *testing.T) {
	tests := []struct {
		p, q Point
		want bool
	}{
		{Pt(0, 5), Pt(1, 0), true},
		{Pt(1, 0), Pt(0, 5), false},
		{Pt(2, 1), Pt(2, 3), true},
		{Pt(2, 3), Pt(2, 3), false},
	}
	for _, tc := range tests {
		if got := tc.p.Less(tc.q); got != tc.want {
			t.Errorf("%v.Less(%v) = %v, want %v", tc.p, tc.q, got, tc.want)
		}
	}
}

func TestClip(t *testing.T) {
	bounds := Rect(0, 0, 10, 5)
	tests := []struct {
		r    Rectangle
		want Rectangle
		ok   bool
	}{
		{Rect(2, 1, 4, 3), Rect(2, 1, 4, 3), true},
		{Rect(-3, -3, 4, 3), Rect(0, 0, 4, 3), true},
		{Rect(8, 4, 100, 100), Rect(8, 4, 10, 5), true},
		{Rect(20, 0, 30, 5), Rectangle{Pt(20, 0), Pt(10, 5)}, false},
	}
	for _, tc := range tests {
		got, ok := tc.r.Clip(bounds)
		if ok != tc.ok || (ok && !got.Eq(tc.want)) {
			t.Errorf("%v.Clip(%v) = %v, %v; want %v, %v", tc.r, bounds, got, ok, tc.want, tc.ok)
		}
	}
}

func TestEmpty(t *testing.T) {
	tests := []struct {
		r    Rectangle
		want bool
	}{
		{Rect(0, 0, 1, 1), false},
		{Rect(2, 0, 2, 5), true},
		{Rect(0, 4, 5, 4), true},
		{Rectangle{Pt(3, 3), Pt(1, 5)}, true},
	}
	for _, tc := range tests {
		if got := tc.r.Empty(); got != tc.want {
			t.Errorf("%v.Empty() = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	if got := Pt(3, 4).String(); got != "(3,4)" {
		t.Errorf("Pt(3, 4).String() = %q", got)
	}
	if got := Rect(0, 1, 2, 3).String(); got != "(0,1)-(2,3)" {
		t.Errorf("Rect(0, 1, 2, 3).String() = %q", got)
	}
}
