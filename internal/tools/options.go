// Package tools declares the actions the agent may call. Every tool is a
// stateless request/response wrapper over the brokerage client; numeric
// arguments arrive as strings and are parsed strictly before any request
// is built.
package tools

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/osokin/tradegram/internal/broker"
)

// ContractOutput reports the best matching contract, or Found=false when
// nothing matched. "No match" is a result, not an error, so the agent can
// tell the user nothing was found.
type ContractOutput struct {
	Found    bool                   `json:"found"`
	Contract *broker.OptionContract `json:"contract,omitempty"`
}

// OrderOutput carries the identifier of a submitted order.
type OrderOutput struct {
	OrderID string `json:"order_id"`
}

type getOptionContractInput struct {
	UnderlyingSymbol string `json:"underlying_symbol"`
	OptionType       string `json:"option_type"`
	ExpirationDate   string `json:"expiration_date"`
	StrikePrice      string `json:"strike_price"`
	MinOpenInterest  string `json:"min_open_interest"`
}

// NewGetOptionContractTool finds an option contract matching the given
// criteria.
func NewGetOptionContractTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_option_contract",
			Desc: "Fetches information about the option contract matching the given criteria. " +
				"Use this to find a tradable contract before buying or selling options.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"underlying_symbol": {
					Type:     "string",
					Desc:     "The underlying stock symbol (e.g. AAPL)",
					Required: true,
				},
				"option_type": {
					Type:     "string",
					Desc:     "'C' for call, 'P' for put",
					Required: true,
				},
				"expiration_date": {
					Type:     "string",
					Desc:     "Expiration date in YYYY-MM-DD format. If omitted, the nearest expiration from today is used.",
					Required: false,
				},
				"strike_price": {
					Type:     "string",
					Desc:     "Target strike price. If given, the contract closest to it is returned.",
					Required: false,
				},
				"min_open_interest": {
					Type:     "string",
					Desc:     "Minimum open interest for the contract (default 0)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input getOptionContractInput) (*ContractOutput, error) {
			underlying, err := requireSymbol("underlying_symbol", input.UnderlyingSymbol)
			if err != nil {
				return nil, err
			}
			optType, err := broker.NormalizeOptionType(input.OptionType)
			if err != nil {
				return nil, err
			}
			minOpenInterest, err := parseIntDefault("min_open_interest", input.MinOpenInterest, 0)
			if err != nil {
				return nil, err
			}
			targetStrike, err := parseOptionalFloat("strike_price", input.StrikePrice)
			if err != nil {
				return nil, err
			}

			gte := input.ExpirationDate
			if gte == "" {
				gte = time.Now().Format("2006-01-02")
			}
			contracts, err := b.GetOptionContracts(ctx, broker.ContractQuery{
				UnderlyingSymbol:  underlying,
				Type:              optType,
				ExpirationDateGTE: gte,
				Limit:             100,
			})
			if err != nil {
				return nil, err
			}

			match := selectContract(contracts, input.ExpirationDate, targetStrike, int64(minOpenInterest))
			if match == nil {
				return &ContractOutput{Found: false}, nil
			}
			return &ContractOutput{Found: true, Contract: match}, nil
		},
	)
}

// selectContract applies the open-interest and expiration filters, then
// ranks by absolute distance to the target strike when one is given. Ties
// keep the client's return order (stable sort).
func selectContract(contracts []broker.OptionContract, expirationDate string, targetStrike *float64, minOpenInterest int64) *broker.OptionContract {
	matching := make([]broker.OptionContract, 0, len(contracts))
	for _, c := range contracts {
		if c.OpenInterest < minOpenInterest {
			continue
		}
		if expirationDate != "" && c.ExpirationDate != expirationDate {
			continue
		}
		matching = append(matching, c)
	}
	if targetStrike != nil {
		sort.SliceStable(matching, func(i, j int) bool {
			return math.Abs(matching[i].StrikePrice-*targetStrike) < math.Abs(matching[j].StrikePrice-*targetStrike)
		})
	}
	if len(matching) == 0 {
		return nil
	}
	return &matching[0]
}

type buyOptionInput struct {
	UnderlyingSymbol string `json:"underlying_symbol"`
	ExpirationDate   string `json:"expiration_date"`
	OptionType       string `json:"option_type"`
	StrikePrice      string `json:"strike_price"`
	Qty              string `json:"qty"`
}

// NewBuyOptionByMarketPriceTool buys an option contract at market price.
func NewBuyOptionByMarketPriceTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "buy_option_by_market_price",
			Desc: "Buys an option contract at the market price and returns the order id. " +
				"The contract ticker is derived from the underlying symbol, expiration date, option type and strike price.",
			ParamsOneOf: schema.NewParamsOneOfByParams(optionOrderParams(
				"The quantity of contracts to buy. Must be a positive integer; provide it even when it is 1.")),
		},
		func(ctx context.Context, input buyOptionInput) (*OrderOutput, error) {
			ticker, qty, err := optionOrderArgs(input)
			if err != nil {
				return nil, err
			}
			orderID, err := b.PlaceOrder(ctx, broker.OrderRequest{
				Symbol: ticker,
				Qty:    qty,
				Side:   broker.Buy,
				Kind:   broker.Market,
			})
			if err != nil {
				return nil, err
			}
			return &OrderOutput{OrderID: orderID}, nil
		},
	)
}

// NewSellOptionByMarketPriceTool sells an option contract at market price,
// deriving the ticker from the underlying asset fields.
func NewSellOptionByMarketPriceTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "sell_option_by_market_price",
			Desc: "Sells an option contract at the market price, using a ticker derived from the underlying symbol, " +
				"expiration date, option type and strike price. Returns the order id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(optionOrderParams(
				"The quantity of contracts to sell")),
		},
		func(ctx context.Context, input buyOptionInput) (*OrderOutput, error) {
			ticker, qty, err := optionOrderArgs(input)
			if err != nil {
				return nil, err
			}
			return sellAtMarket(ctx, b, ticker, qty)
		},
	)
}

type sellOptionByTickerInput struct {
	OptionTicker string `json:"option_ticker"`
	Qty          string `json:"qty"`
}

// NewSellOptionByTickerTool sells an option contract at market price by its
// contract ticker.
func NewSellOptionByTickerTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "sell_option_by_market_price_with_option_ticker",
			Desc: "Sells an option contract at the market price, using the option contract ticker directly. Returns the order id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"option_ticker": {
					Type:     "string",
					Desc:     "The option contract ticker (e.g. AAPL250620C00150000)",
					Required: true,
				},
				"qty": {
					Type:     "string",
					Desc:     "The quantity of contracts to sell",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input sellOptionByTickerInput) (*OrderOutput, error) {
			ticker, err := requireSymbol("option_ticker", input.OptionTicker)
			if err != nil {
				return nil, err
			}
			qty, err := parsePositiveInt("qty", input.Qty)
			if err != nil {
				return nil, err
			}
			return sellAtMarket(ctx, b, ticker, qty)
		},
	)
}

type sellOptionByLimitInput struct {
	OptionTicker string `json:"option_ticker"`
	Qty          string `json:"qty"`
	LimitPrice   string `json:"limit_price"`
}

// NewSellOptionByLimitPriceTool submits a limit sell for an option
// contract. This sets the upper profit limit of an exit strategy; it cannot
// express a stop-loss.
func NewSellOptionByLimitPriceTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "sell_option_by_limit_price",
			Desc: "Sets the upper profit limit of the exit strategy for an existing option contract by submitting a limit sell order. " +
				"Cannot be used for a stop-loss exit. Returns the order id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"option_ticker": {
					Type:     "string",
					Desc:     "The option contract ticker",
					Required: true,
				},
				"qty": {
					Type:     "string",
					Desc:     "The quantity of contracts to sell",
					Required: true,
				},
				"limit_price": {
					Type:     "string",
					Desc:     "The limit price at which to sell the contract",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input sellOptionByLimitInput) (*OrderOutput, error) {
			ticker, err := requireSymbol("option_ticker", input.OptionTicker)
			if err != nil {
				return nil, err
			}
			qty, err := parsePositiveInt("qty", input.Qty)
			if err != nil {
				return nil, err
			}
			limitPrice, err := parseFloat("limit_price", input.LimitPrice)
			if err != nil {
				return nil, err
			}
			orderID, err := b.PlaceOrder(ctx, broker.OrderRequest{
				Symbol:     ticker,
				Qty:        qty,
				Side:       broker.Sell,
				Kind:       broker.Limit,
				LimitPrice: &limitPrice,
			})
			if err != nil {
				return nil, err
			}
			return &OrderOutput{OrderID: orderID}, nil
		},
	)
}

func optionOrderParams(qtyDesc string) map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		"underlying_symbol": {
			Type:     "string",
			Desc:     "The underlying stock symbol (e.g. AAPL)",
			Required: true,
		},
		"expiration_date": {
			Type:     "string",
			Desc:     "The expiration date of the option in YYYY-MM-DD format",
			Required: true,
		},
		"option_type": {
			Type:     "string",
			Desc:     "'C' for call, 'P' for put",
			Required: true,
		},
		"strike_price": {
			Type:     "string",
			Desc:     "The strike price of the option",
			Required: true,
		},
		"qty": {
			Type:     "string",
			Desc:     qtyDesc,
			Required: true,
		},
	}
}

func optionOrderArgs(input buyOptionInput) (ticker string, qty int, err error) {
	underlying, err := requireSymbol("underlying_symbol", input.UnderlyingSymbol)
	if err != nil {
		return "", 0, err
	}
	optType, err := broker.NormalizeOptionType(input.OptionType)
	if err != nil {
		return "", 0, err
	}
	strike, err := parseFloat("strike_price", input.StrikePrice)
	if err != nil {
		return "", 0, err
	}
	qty, err = parsePositiveInt("qty", input.Qty)
	if err != nil {
		return "", 0, err
	}
	ticker, err = broker.OptionTicker(underlying, input.ExpirationDate, optType, strike)
	if err != nil {
		return "", 0, err
	}
	return ticker, qty, nil
}

func sellAtMarket(ctx context.Context, b broker.Client, ticker string, qty int) (*OrderOutput, error) {
	orderID, err := b.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: ticker,
		Qty:    qty,
		Side:   broker.Sell,
		Kind:   broker.Market,
	})
	if err != nil {
		return nil, err
	}
	return &OrderOutput{OrderID: orderID}, nil
}
