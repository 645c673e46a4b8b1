package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents() != tc.cents {
				t.Fatalf("%q expected %d cents, got %d (err=%v)", tc.in, tc.cents, got.Cents(), err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	sum := Zero
	for i := 0; i < 10; i++ {
		sum = sum.Add(MustMoney("0.10"))
	}
	if !sum.Equal(MustMoney("1")) {
		t.Fatalf("expected 1.00, got %s", sum)
	}
	if got := MustMoney("5").Sub(MustMoney("7.5")).String(); got != "-2.50" {
		t.Fatalf("got %s", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := MoneyFromCents(1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Zero.Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := MustMoney("12.5").MarshalJSON()
	if err != nil || string(b) != "12.50" {
		t.Fatalf("got %s (err=%v)", b, err)
	}
	var m Money
	if err := m.UnmarshalJSON([]byte(`"3.20"`)); err != nil || m.Cents() != 320 {
		t.Fatalf("got %s (err=%v)", m, err)
	}
}
