package tools

import (
	"context"
	"testing"
)

func toolNames(t *testing.T, deps Deps) []string {
	t.Helper()
	ctx := context.Background()
	var names []string
	for _, bt := range All(deps) {
		info, err := bt.Info(ctx)
		if err != nil {
			t.Fatalf("tool info: %v", err)
		}
		names = append(names, info.Name)
	}
	return names
}

func TestRegistryOrder(t *testing.T) {
	want := []string{
		"get_option_contract",
		"buy_option_by_market_price",
		"sell_option_by_market_price_with_option_ticker",
		"sell_option_by_market_price",
		"sell_option_by_limit_price",
		"get_stock_quote",
		"buy_stock_by_market_price",
		"sell_stock_by_market_price",
		"get_account_info",
		"list_open_positions",
		"is_market_open",
		"get_company_news",
	}

	got := toolNames(t, Deps{Broker: &fakeBroker{}})
	if len(got) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tool %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRegistryAssemblyIsRepeatable(t *testing.T) {
	deps := Deps{Broker: &fakeBroker{}}
	first := toolNames(t, deps)
	second := toolNames(t, deps)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("tool %d changed between assemblies: %q vs %q", i, first[i], second[i])
		}
	}
}
