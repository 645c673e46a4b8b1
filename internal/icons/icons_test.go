package icons

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"utensils", "utensils"},
		{"shopping-bag", "shopping-bag"},
		{"shoppingBag", "shopping-bag"},
		{"HeartPulse", "heart-pulse"},
		{" car ", "car"},
		{"", "circle"},
		{"rocket", "circle"},
	}
	for _, tc := range cases {
		if got := Lookup(tc.in); got.Name != tc.want {
			t.Errorf("Lookup(%q) = %q, want %q", tc.in, got.Name, tc.want)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known("film") {
		t.Fatalf("film should be known")
	}
	if Known("rocket") {
		t.Fatalf("rocket should not be known")
	}
}
