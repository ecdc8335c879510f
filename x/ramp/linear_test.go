package ramp

import "testing"

func TestLinearSteps(t *testing.T) {
	r := NewLinear(0, 100, 100, 4, 1000)

	cases := []struct {
		now  uint32
		want int
		done bool
	}{
		{1000, 0, false},
		{1024, 0, false},
		{1025, 25, false},
		{1050, 50, false},
		{1099, 75, false},
		{1100, 100, true},
		{5000, 100, true},
	}
	for _, c := range cases {
		got, _, done := r.Level(c.now)
		if got != c.want || done != c.done {
			t.Fatalf("Level(%d) = %d,%v want %d,%v", c.now, got, done, c.want, c.done)
		}
	}
}

func TestLinearDownward(t *testing.T) {
	r := NewLinear(80, 20, 30, 3, 0)
	if got, _, _ := r.Level(10); got != 60 {
		t.Fatalf("step 1 = %d, want 60", got)
	}
	if got, _, done := r.Level(30); got != 20 || !done {
		t.Fatalf("end = %d,%v", got, done)
	}
}

func TestLinearSnap(t *testing.T) {
	r := NewLinear(0, 70, 0, 10, 0)
	got, changed, done := r.Level(0)
	if got != 70 || !done {
		t.Fatalf("snap = %d,%v", got, done)
	}
	if changed {
		t.Fatal("snap ramp should report no change on first poll")
	}
}

func TestLinearChanged(t *testing.T) {
	r := NewLinear(0, 10, 20, 2, 0)
	if _, changed, _ := r.Level(0); changed {
		t.Fatal("no movement yet")
	}
	if _, changed, _ := r.Level(10); !changed {
		t.Fatal("step not reported")
	}
	if _, changed, _ := r.Level(11); changed {
		t.Fatal("same step reported twice")
	}
}
