package tools

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/osokin/tradegram/internal/broker"
)

type emptyInput struct{}

// AccountOutput summarizes the trading account.
type AccountOutput struct {
	Status         string  `json:"status"`
	BuyingPower    float64 `json:"buying_power"`
	Cash           float64 `json:"cash"`
	PortfolioValue float64 `json:"portfolio_value"`
}

// NewGetAccountInfoTool reports account status, cash and buying power.
func NewGetAccountInfoTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_account_info",
			Desc:        "Gets the trading account status, cash balance, buying power and portfolio value.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, _ emptyInput) (*AccountOutput, error) {
			acct, err := b.GetAccount(ctx)
			if err != nil {
				return nil, err
			}
			return &AccountOutput{
				Status:         acct.Status,
				BuyingPower:    acct.BuyingPower,
				Cash:           acct.Cash,
				PortfolioValue: acct.PortfolioValue,
			}, nil
		},
	)
}

// PositionsOutput lists the currently open positions.
type PositionsOutput struct {
	Positions []broker.Position `json:"positions"`
}

// NewListOpenPositionsTool lists all open positions in the account.
func NewListOpenPositionsTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "list_open_positions",
			Desc:        "Lists all currently open positions with quantity, average entry price and unrealized P/L.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, _ emptyInput) (*PositionsOutput, error) {
			positions, err := b.ListPositions(ctx)
			if err != nil {
				return nil, err
			}
			return &PositionsOutput{Positions: positions}, nil
		},
	)
}

// MarketClockOutput reports whether the market is open and the next
// transition times.
type MarketClockOutput struct {
	IsOpen    bool   `json:"is_open"`
	NextOpen  string `json:"next_open"`
	NextClose string `json:"next_close"`
}

// NewIsMarketOpenTool reports the current state of the market clock.
func NewIsMarketOpenTool(b broker.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "is_market_open",
			Desc:        "Checks whether the stock market is currently open, and when it next opens and closes.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, _ emptyInput) (*MarketClockOutput, error) {
			clock, err := b.GetClock(ctx)
			if err != nil {
				return nil, err
			}
			return &MarketClockOutput{
				IsOpen:    clock.IsOpen,
				NextOpen:  clock.NextOpen.Format(time.RFC3339),
				NextClose: clock.NextClose.Format(time.RFC3339),
			}, nil
		},
	)
}
