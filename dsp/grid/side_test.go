package grid

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-uvspec/internal/testutil"
)

func twoSided() [NumSides][]float64 {
	return [NumSides][]float64{
		testutil.Linspace(1260, 1270, 101),
		testutil.Linspace(1025, 1035, 101),
	}
}

func TestPickSide(t *testing.T) {
	wl := twoSided()

	tests := []struct {
		name    string
		r       [2]float64
		want    Side
		wantErr bool
	}{
		{name: "inside red", r: [2]float64{1261, 1269}, want: SideRed},
		{name: "inside blue", r: [2]float64{1026, 1034}, want: SideBlue},
		{name: "wider than blue", r: [2]float64{1024, 1036}, wantErr: true},
		{name: "spanning both", r: [2]float64{1030, 1265}, wantErr: true},
		{name: "touching red edge", r: [2]float64{1260, 1265}, wantErr: true},
		{name: "outside both", r: [2]float64{1500, 1510}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PickSide(wl, tt.r)
			if tt.wantErr {
				if !errors.Is(err, ErrRangeNotCovered) {
					t.Fatalf("expected ErrRangeNotCovered, got side=%v err=%v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("PickSide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickSideDeterministic(t *testing.T) {
	wl := twoSided()
	first, err := PickSide(wl, [2]float64{1262, 1263})
	if err != nil {
		t.Fatalf("PickSide error: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, _ := PickSide(wl, [2]float64{1262, 1263})
		if got != first {
			t.Fatalf("iteration %d: got %v, want %v", i, got, first)
		}
	}
}

func TestPickSideEmptySide(t *testing.T) {
	wl := [NumSides][]float64{nil, testutil.Linspace(1025, 1035, 11)}
	got, err := PickSide(wl, [2]float64{1026, 1030})
	if err != nil || got != SideBlue {
		t.Fatalf("PickSide = %v, %v; want blue", got, err)
	}
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"red": SideRed, "BLUE": SideBlue, "0": SideRed, "1": SideBlue} {
		got, err := ParseSide(in)
		if err != nil || got != want {
			t.Fatalf("ParseSide(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSide("green"); err == nil {
		t.Fatal("expected error for unknown side")
	}
	if SideBlue.String() != "blue" || Side(5).Valid() {
		t.Fatal("unexpected Side string/valid behaviour")
	}
}
