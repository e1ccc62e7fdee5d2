package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/tool"

	"github.com/osokin/tradegram/internal/broker"
)

// fakeBroker records the requests the tools build and returns canned data.
type fakeBroker struct {
	contracts []broker.OptionContract
	orders    []broker.OrderRequest
	account   broker.Account
	positions []broker.Position
	clock     broker.Clock

	contractQueries []broker.ContractQuery
}

func (f *fakeBroker) GetOptionContracts(_ context.Context, q broker.ContractQuery) ([]broker.OptionContract, error) {
	f.contractQueries = append(f.contractQueries, q)
	return f.contracts, nil
}

func (f *fakeBroker) PlaceOrder(_ context.Context, req broker.OrderRequest) (string, error) {
	f.orders = append(f.orders, req)
	return "order-1", nil
}

func (f *fakeBroker) GetAccount(_ context.Context) (*broker.Account, error) {
	return &f.account, nil
}

func (f *fakeBroker) ListPositions(_ context.Context) ([]broker.Position, error) {
	return f.positions, nil
}

func (f *fakeBroker) GetClock(_ context.Context) (*broker.Clock, error) {
	return &f.clock, nil
}

func invoke(t *testing.T, bt tool.BaseTool, args string) (string, error) {
	t.Helper()
	inv, ok := bt.(tool.InvokableTool)
	if !ok {
		t.Fatal("tool is not invokable")
	}
	return inv.InvokableRun(context.Background(), args)
}

func mustInvoke(t *testing.T, bt tool.BaseTool, args string) string {
	t.Helper()
	out, err := invoke(t, bt, args)
	if err != nil {
		t.Fatalf("tool call failed: %v", err)
	}
	return out
}

func TestGetOptionContractPicksClosestStrike(t *testing.T) {
	fb := &fakeBroker{contracts: []broker.OptionContract{
		{Symbol: "AAPL250620C00095000", ExpirationDate: "2025-06-20", StrikePrice: 95, OpenInterest: 500},
		{Symbol: "AAPL250620C00100000", ExpirationDate: "2025-06-20", StrikePrice: 100, OpenInterest: 500},
		{Symbol: "AAPL250620C00105000", ExpirationDate: "2025-06-20", StrikePrice: 105, OpenInterest: 500},
	}}

	out := mustInvoke(t, NewGetOptionContractTool(fb),
		`{"underlying_symbol":"aapl","option_type":"C","expiration_date":"2025-06-20","strike_price":"102"}`)

	var got ContractOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if !got.Found {
		t.Fatal("expected a contract to be found")
	}
	if got.Contract.StrikePrice != 100 {
		t.Fatalf("expected strike 100 (closest to 102), got %v", got.Contract.StrikePrice)
	}
}

func TestGetOptionContractStableTieBreak(t *testing.T) {
	// 100 and 104 are both 2 away from 102; the earlier one in the
	// broker's order must win.
	fb := &fakeBroker{contracts: []broker.OptionContract{
		{Symbol: "AAPL250620C00100000", ExpirationDate: "2025-06-20", StrikePrice: 100, OpenInterest: 10},
		{Symbol: "AAPL250620C00104000", ExpirationDate: "2025-06-20", StrikePrice: 104, OpenInterest: 10},
	}}

	out := mustInvoke(t, NewGetOptionContractTool(fb),
		`{"underlying_symbol":"AAPL","option_type":"call","expiration_date":"2025-06-20","strike_price":"102"}`)

	var got ContractOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if got.Contract == nil || got.Contract.Symbol != "AAPL250620C00100000" {
		t.Fatalf("expected the first equidistant contract, got %+v", got.Contract)
	}
}

func TestGetOptionContractFiltersOpenInterest(t *testing.T) {
	fb := &fakeBroker{contracts: []broker.OptionContract{
		{Symbol: "THIN", ExpirationDate: "2025-06-20", StrikePrice: 100, OpenInterest: 5},
		{Symbol: "LIQUID", ExpirationDate: "2025-06-20", StrikePrice: 110, OpenInterest: 5000},
	}}

	out := mustInvoke(t, NewGetOptionContractTool(fb),
		`{"underlying_symbol":"AAPL","option_type":"C","expiration_date":"2025-06-20","strike_price":"100","min_open_interest":"100"}`)

	var got ContractOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if got.Contract == nil || got.Contract.Symbol != "LIQUID" {
		t.Fatalf("expected the liquid contract despite farther strike, got %+v", got.Contract)
	}
}

func TestGetOptionContractNoMatchIsNotError(t *testing.T) {
	fb := &fakeBroker{}

	out := mustInvoke(t, NewGetOptionContractTool(fb),
		`{"underlying_symbol":"AAPL","option_type":"C"}`)

	var got ContractOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if got.Found || got.Contract != nil {
		t.Fatalf("expected found=false with no contract, got %+v", got)
	}
}

func TestGetOptionContractDefaultsExpirationToToday(t *testing.T) {
	fb := &fakeBroker{}
	mustInvoke(t, NewGetOptionContractTool(fb), `{"underlying_symbol":"AAPL","option_type":"P"}`)

	if len(fb.contractQueries) != 1 {
		t.Fatalf("expected one broker query, got %d", len(fb.contractQueries))
	}
	want := time.Now().Format("2006-01-02")
	if got := fb.contractQueries[0].ExpirationDateGTE; got != want {
		t.Fatalf("expected gte %q, got %q", want, got)
	}
	if fb.contractQueries[0].Type != broker.OptionPut {
		t.Fatalf("expected put query, got %q", fb.contractQueries[0].Type)
	}
}

func TestBuyOptionByMarketPrice(t *testing.T) {
	fb := &fakeBroker{}
	mustInvoke(t, NewBuyOptionByMarketPriceTool(fb),
		`{"underlying_symbol":"AAPL","expiration_date":"2025-06-20","option_type":"C","strike_price":"150","qty":"2"}`)

	if len(fb.orders) != 1 {
		t.Fatalf("expected one order, got %d", len(fb.orders))
	}
	order := fb.orders[0]
	if order.Symbol != "AAPL250620C00150000" {
		t.Fatalf("expected derived ticker, got %q", order.Symbol)
	}
	if order.Side != broker.Buy || order.Kind != broker.Market || order.Qty != 2 {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestBuyOptionRejectsNonNumericArgs(t *testing.T) {
	fb := &fakeBroker{}
	_, err := invoke(t, NewBuyOptionByMarketPriceTool(fb),
		`{"underlying_symbol":"AAPL","expiration_date":"2025-06-20","option_type":"C","strike_price":"one fifty","qty":"2"}`)
	if err == nil {
		t.Fatal("expected error for non-numeric strike price")
	}
	if !strings.Contains(err.Error(), "strike_price") {
		t.Fatalf("error should name the bad param, got %v", err)
	}
	if len(fb.orders) != 0 {
		t.Fatal("no order may be placed when parsing fails")
	}
}

func TestSellOptionByTicker(t *testing.T) {
	fb := &fakeBroker{}
	mustInvoke(t, NewSellOptionByTickerTool(fb),
		`{"option_ticker":"AAPL250620C00150000","qty":"1"}`)

	if len(fb.orders) != 1 {
		t.Fatalf("expected one order, got %d", len(fb.orders))
	}
	order := fb.orders[0]
	if order.Symbol != "AAPL250620C00150000" || order.Side != broker.Sell || order.Kind != broker.Market {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestSellOptionByLimitPrice(t *testing.T) {
	fb := &fakeBroker{}
	mustInvoke(t, NewSellOptionByLimitPriceTool(fb),
		`{"option_ticker":"AAPL250620C00150000","qty":"3","limit_price":"4.25"}`)

	if len(fb.orders) != 1 {
		t.Fatalf("expected one order, got %d", len(fb.orders))
	}
	order := fb.orders[0]
	if order.Kind != broker.Limit || order.LimitPrice == nil || *order.LimitPrice != 4.25 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.Qty != 3 || order.Side != broker.Sell {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestSellOptionByLimitPriceRejectsZeroQty(t *testing.T) {
	fb := &fakeBroker{}
	_, err := invoke(t, NewSellOptionByLimitPriceTool(fb),
		`{"option_ticker":"AAPL250620C00150000","qty":"0","limit_price":"4.25"}`)
	if err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if len(fb.orders) != 0 {
		t.Fatal("no order may be placed for zero quantity")
	}
}
