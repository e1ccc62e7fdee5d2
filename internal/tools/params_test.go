package tools

import "testing"

func TestParseFloat(t *testing.T) {
	if v, err := parseFloat("strike_price", " 150.5 "); err != nil || v != 150.5 {
		t.Fatalf("expected 150.5, got %v (err %v)", v, err)
	}
	if _, err := parseFloat("strike_price", ""); err == nil {
		t.Fatal("expected error for empty value")
	}
	if _, err := parseFloat("strike_price", "abc"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestParsePositiveInt(t *testing.T) {
	if v, err := parsePositiveInt("qty", "3"); err != nil || v != 3 {
		t.Fatalf("expected 3, got %v (err %v)", v, err)
	}
	for _, raw := range []string{"", "0", "-1", "two", "1.5"} {
		if _, err := parsePositiveInt("qty", raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseIntDefault(t *testing.T) {
	if v, err := parseIntDefault("limit", "", 10); err != nil || v != 10 {
		t.Fatalf("expected fallback 10, got %v (err %v)", v, err)
	}
	if v, err := parseIntDefault("limit", "25", 10); err != nil || v != 25 {
		t.Fatalf("expected 25, got %v (err %v)", v, err)
	}
	// A garbled value is an error, never the fallback.
	if _, err := parseIntDefault("limit", "lots", 10); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestParseOptionalFloat(t *testing.T) {
	if v, err := parseOptionalFloat("strike_price", ""); err != nil || v != nil {
		t.Fatalf("expected nil for empty value, got %v (err %v)", v, err)
	}
	v, err := parseOptionalFloat("strike_price", "99.5")
	if err != nil || v == nil || *v != 99.5 {
		t.Fatalf("expected 99.5, got %v (err %v)", v, err)
	}
	if _, err := parseOptionalFloat("strike_price", "high"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestRequireSymbol(t *testing.T) {
	if s, err := requireSymbol("symbol", " aapl "); err != nil || s != "AAPL" {
		t.Fatalf("expected AAPL, got %q (err %v)", s, err)
	}
	if _, err := requireSymbol("symbol", "  "); err == nil {
		t.Fatal("expected error for blank symbol")
	}
}
