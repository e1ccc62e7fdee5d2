package tools

import (
	"encoding/json"
	"fmt"
	"testing"

	finance "github.com/piquette/finance-go"

	"github.com/osokin/tradegram/internal/broker"
)

func TestGetStockQuote(t *testing.T) {
	fetch := func(symbol string) (*finance.Quote, error) {
		if symbol != "AAPL" {
			return nil, fmt.Errorf("unexpected symbol %q", symbol)
		}
		return &finance.Quote{
			Symbol:                     "AAPL",
			ShortName:                  "Apple Inc.",
			RegularMarketPrice:         187.5,
			RegularMarketChangePercent: 1.2,
			Bid:                        187.4,
			Ask:                        187.6,
			RegularMarketPreviousClose: 185.3,
		}, nil
	}

	out := mustInvoke(t, NewGetStockQuoteTool(fetch), `{"symbol":"aapl"}`)

	var got QuoteOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if got.Symbol != "AAPL" || got.Last != 187.5 {
		t.Fatalf("unexpected quote: %+v", got)
	}
}

func TestBuyAndSellStockByMarketPrice(t *testing.T) {
	fb := &fakeBroker{}

	mustInvoke(t, NewBuyStockByMarketPriceTool(fb), `{"symbol":"msft","qty":"5"}`)
	mustInvoke(t, NewSellStockByMarketPriceTool(fb), `{"symbol":"MSFT","qty":"5"}`)

	if len(fb.orders) != 2 {
		t.Fatalf("expected two orders, got %d", len(fb.orders))
	}
	buy, sell := fb.orders[0], fb.orders[1]
	if buy.Symbol != "MSFT" || buy.Side != broker.Buy || buy.Kind != broker.Market || buy.Qty != 5 {
		t.Fatalf("unexpected buy order: %+v", buy)
	}
	if sell.Side != broker.Sell || sell.Kind != broker.Market {
		t.Fatalf("unexpected sell order: %+v", sell)
	}
}

func TestBuyStockRejectsBadQty(t *testing.T) {
	fb := &fakeBroker{}
	if _, err := invoke(t, NewBuyStockByMarketPriceTool(fb), `{"symbol":"MSFT","qty":"a few"}`); err == nil {
		t.Fatal("expected error for non-numeric quantity")
	}
	if len(fb.orders) != 0 {
		t.Fatal("no order may be placed when parsing fails")
	}
}
