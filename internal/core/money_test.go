package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"12.3", 1230, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"-1", -100, true},
		{"-0,50", -50, true},
		{"+2.50", 250, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"12.345", 0, false}, // more than two fraction digits
		{".", 0, false},      // separator with no digits at all
		{",", 0, false},
		{"-.", 0, false},
		{"12.", 0, false}, // separator needs fraction digits
		{"12,", 0, false},
		{"+.", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1a.20", 0, false},
		{"--1", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"$5", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.cents {
				t.Fatalf("%q expected %d cents, got %d (err=%v)", tc.in, tc.cents, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error, got %d cents", tc.in, got.Cents)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{1230, "12.30"},
		{-50, "-0.50"},
		{-123456, "-1234.56"},
		{100000, "1000.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.out {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.out, got)
		}
	}
}

func TestParseAmountRoundTrip(t *testing.T) {
	cases := map[string]string{
		"12.3":   "12.30",
		"12.30":  "12.30",
		"-5":     "-5.00",
		"0,7":    "0.70",
		"+19.99": "19.99",
	}
	for in, canonical := range cases {
		m, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got := m.String(); got != canonical {
			t.Fatalf("round-trip %q expected %q, got %q", in, canonical, got)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1050}
	b := Money{Cents: -300}

	if got := a.Add(b); got.Cents != 750 {
		t.Fatalf("Add expected 750, got %d", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 1350 {
		t.Fatalf("Sub expected 1350, got %d", got.Cents)
	}
	if got := b.Neg(); got.Cents != 300 {
		t.Fatalf("Neg expected 300, got %d", got.Cents)
	}
	if got := b.Abs(); got.Cents != 300 {
		t.Fatalf("Abs expected 300, got %d", got.Cents)
	}
	if !b.IsNegative() || b.IsPositive() {
		t.Fatalf("sign predicates wrong for %d", b.Cents)
	}
	if !(Money{}).IsZero() {
		t.Fatal("zero value should be zero")
	}
}
