package lang

import "testing"

func TestMat4(t *testing.T) {
	translate := Identity4()
	translate[3] = Vec4{2, 3, 4, 1}
	tests := []struct {
		name string
		got  Vec4
		want Vec4
	}{
		{"identity", Identity4().Transform(V4(1, 2, 3, 1)), V4(1, 2, 3, 1)},
		{"translate point", translate.Transform(V4(1, 1, 1, 1)), V4(3, 4, 5, 1)},
		{"translate direction", translate.Transform(V4(1, 1, 1, 0)), V4(1, 1, 1, 0)},
		{"product", translate.Mul(translate).Transform(V4(0, 0, 0, 1)), V4(4, 6, 8, 1)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestVec(t *testing.T) {
	if got := V3(1, 0, 0).Cross(V3(0, 1, 0)); got != V3(0, 0, 1) {
		t.Errorf("Cross = %v", got)
	}
	if got := V2(3, 4).Length(); got != 5 {
		t.Errorf("Length = %v", got)
	}
	if got := V3(0, 0, 2).Normalize(); got != V3(0, 0, 1) {
		t.Errorf("Normalize = %v", got)
	}
	if got := V4(1, 2, 3, 4).Mul(V4(2, 2, 2, 2)); got != V4(2, 4, 6, 8) {
		t.Errorf("Mul = %v", got)
	}
	if got := V3(0, 0, 0).Mix(V3(2, 4, 8), 0.5); got != V3(1, 2, 4) {
		t.Errorf("Mix = %v", got)
	}
	if got := V4FromV2(V2(1, 2), 3, 4).XYZ(); got != V3(1, 2, 3) {
		t.Errorf("XYZ = %v", got)
	}
}

func TestScalar(t *testing.T) {
	tests := []struct {
		name      string
		got, want float32
	}{
		{"clamp low", Clamp(-1, 0, 1), 0},
		{"clamp high", Clamp(2, 0, 1), 1},
		{"mix", Mix(2, 4, 0.25), 2.5},
		{"step below", Step(0.5, 0.25), 0},
		{"step at", Step(0.5, 0.5), 1},
		{"fract", Fract(1.25), 0.25},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}
