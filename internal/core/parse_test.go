package core

import (
	"testing"
)

func TestParseDate_FourAndTwoDigitYears(t *testing.T) {
	a, err := ParseDate("1/5/2024")
	if err != nil {
		t.Fatalf("parse 1/5/2024: %v", err)
	}
	b, err := ParseDate("1/5/24")
	if err != nil {
		t.Fatalf("parse 1/5/24: %v", err)
	}
	if !a.Equal(b.Time) {
		t.Fatalf("expected same date, got %s and %s", a, b)
	}
	if a.String() != "2024-01-05" {
		t.Fatalf("got %s", a)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := ParseDate("not a date"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ParseDate("2024-01-05"); err == nil {
		t.Fatal("expected error for ISO format")
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"$1,234.56", "1234.56"},
		{"-$5.67", "-5.67"},
		{"$0.99", "0.99"},
		{"12.34", "12.34"},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", c.in, err)
		}
		if got.String() != c.want {
			t.Fatalf("ParseAmount(%q) = %s, want %s", c.in, got, c.want)
		}
	}
	if _, err := ParseAmount("twelve"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParsePercentage(t *testing.T) {
	got, err := ParsePercentage("168%")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.String() != "1.68" {
		t.Fatalf("got %s, want 1.68", got)
	}
	got, err = ParsePercentage("75%")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.String() != "0.75" {
		t.Fatalf("got %s, want 0.75", got)
	}
}

func TestIsDateRange(t *testing.T) {
	if !IsDateRange("6/1/24-6/5/24") {
		t.Fatal("range string not detected")
	}
	if IsDateRange("6/1/24") {
		t.Fatal("plain date detected as range")
	}
}

func TestMonthAnchor(t *testing.T) {
	cases := []struct {
		sheet string
		want  string
	}{
		{"Spending 1/24", "2024-01-01"},
		{"Spending 12/24", "2024-12-01"},
		{"Spending 6/2024", "2024-06-01"},
	}
	for _, c := range cases {
		got, err := MonthAnchor(c.sheet)
		if err != nil {
			t.Fatalf("MonthAnchor(%q): %v", c.sheet, err)
		}
		if got.String() != c.want {
			t.Fatalf("MonthAnchor(%q) = %s, want %s", c.sheet, got, c.want)
		}
	}
	if _, err := MonthAnchor("Dashboard"); err == nil {
		t.Fatal("expected error for non-spending sheet")
	}
}
