package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
)

func money(s string) Money { return NewMoneyFromDecimal(stddec.RequireFromString(s)) }

func TestNewMoneyFromDecimal(t *testing.T) {
	d := stddec.NewFromFloat(10.125)
	m := NewMoneyFromDecimal(d)
	if !m.Decimal.Equal(d) {
		t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m.Decimal, d)
	}
	if m.String() != "10.13" {
		t.Fatalf("display mismatch: got %s", m.String())
	}
}

func TestStringRounding(t *testing.T) {
	cases := []struct{ in, out string }{
		{"2.344", "2.34"},
		{"2.345", "2.35"},
		{"2.355", "2.36"},
	}
	for _, c := range cases {
		if got := money(c.in).String(); got != c.out {
			t.Fatalf("String(%s) got %s want %s", c.in, got, c.out)
		}
	}
}

func TestAnnual(t *testing.T) {
	if got := money("100").Annual().String(); got != "1200.00" {
		t.Fatalf("Annual got %s", got)
	}
}

func TestArithmetic(t *testing.T) {
	a := money("10.10")
	b := money("5.05")
	if got := a.Sub(b).String(); got != "5.05" {
		t.Fatalf("Sub got %s", got)
	}
	if got := Sum(a, b, money("0.85")).String(); got != "16.00" {
		t.Fatalf("Sum got %s", got)
	}
	if got := Sum().String(); got != "0.00" {
		t.Fatalf("empty Sum got %s", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"999.5", "$999.50"},
		{"1234.5", "$1,234.50"},
		{"200000", "$200,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-65000", "-$65,000.00"},
		{"-0.001", "$0.00"},
		{"-0.005", "-$0.01"},
		{"987654321.5", "$987,654,321.50"},
	}
	for _, c := range cases {
		if got := money(c.in).Format(); got != c.want {
			t.Errorf("Format(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}
