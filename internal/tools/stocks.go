package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"

	"github.com/osokin/tradegram/internal/broker"
)

// QuoteFetcher looks up a delayed market quote for one symbol. The
// production fetcher is finance-go's quote.Get; tests substitute fakes.
type QuoteFetcher func(symbol string) (*finance.Quote, error)

// FetchQuote is the production QuoteFetcher.
func FetchQuote(symbol string) (*finance.Quote, error) {
	return quote.Get(symbol)
}

// QuoteOutput is the subset of the market quote the agent needs.
type QuoteOutput struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Last          float64 `json:"last"`
	ChangePercent float64 `json:"change_percent"`
	Bid           float64 `json:"bid"`
	Ask           float64 `json:"ask"`
	PreviousClose float64 `json:"previous_close"`
}

type stockSymbolInput struct {
	Symbol string `json:"symbol"`
}

// NewGetStockQuoteTool fetches the current market quote for a stock.
func NewGetStockQuoteTool(fetch QuoteFetcher) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_stock_quote",
			Desc: "Gets the current market quote for a stock: last price, day change, bid/ask and previous close.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock symbol (e.g. AAPL)",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input stockSymbolInput) (*QuoteOutput, error) {
			sym, err := requireSymbol("symbol", input.Symbol)
			if err != nil {
				return nil, err
			}
			q, err := fetch(sym)
			if err != nil {
				return nil, err
			}
			return &QuoteOutput{
				Symbol:        q.Symbol,
				Name:          q.ShortName,
				Last:          q.RegularMarketPrice,
				ChangePercent: q.RegularMarketChangePercent,
				Bid:           q.Bid,
				Ask:           q.Ask,
				PreviousClose: q.RegularMarketPreviousClose,
			}, nil
		},
	)
}

type stockOrderInput struct {
	Symbol string `json:"symbol"`
	Qty    string `json:"qty"`
}

// NewBuyStockByMarketPriceTool buys shares at market price.
func NewBuyStockByMarketPriceTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "buy_stock_by_market_price",
			Desc: "Buys shares of a stock at the market price and returns the order id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(stockOrderParams(
				"The number of shares to buy. Must be a positive integer.")),
		},
		func(ctx context.Context, input stockOrderInput) (*OrderOutput, error) {
			return placeStockOrder(ctx, b, input, broker.Buy)
		},
	)
}

// NewSellStockByMarketPriceTool sells shares at market price.
func NewSellStockByMarketPriceTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "sell_stock_by_market_price",
			Desc: "Sells shares of a stock at the market price and returns the order id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(stockOrderParams(
				"The number of shares to sell. Must be a positive integer.")),
		},
		func(ctx context.Context, input stockOrderInput) (*OrderOutput, error) {
			return placeStockOrder(ctx, b, input, broker.Sell)
		},
	)
}

func stockOrderParams(qtyDesc string) map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"symbol": {
			Type:     "string",
			Desc:     "The stock symbol (e.g. AAPL)",
			Required: true,
		},
		"qty": {
			Type:     "string",
			Desc:     qtyDesc,
			Required: true,
		},
	}
}

func placeStockOrder(ctx context.Context, b broker.Client, input stockOrderInput, side broker.Side) (*OrderOutput, error) {
	sym, err := requireSymbol("symbol", input.Symbol)
	if err != nil {
		return nil, err
	}
	qty, err := parsePositiveInt("qty", input.Qty)
	if err != nil {
		return nil, err
	}
	orderID, err := b.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: sym,
		Qty:    qty,
		Side:   side,
		Kind:   broker.Market,
	})
	if err != nil {
		return nil, err
	}
	return &OrderOutput{OrderID: orderID}, nil
}
