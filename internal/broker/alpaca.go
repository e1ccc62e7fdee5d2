package broker

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"

	"github.com/osokin/tradegram/internal/config"
)

// AlpacaClient implements Client on top of the official Alpaca SDK.
type AlpacaClient struct {
	api *alpaca.Client
}

func NewAlpacaClient(cfg *config.Config) *AlpacaClient {
	return &AlpacaClient{
		api: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    cfg.AlpacaAPIKey,
			APISecret: cfg.AlpacaAPISecret,
			BaseURL:   cfg.AlpacaBaseURL,
		}),
	}
}

func (c *AlpacaClient) GetOptionContracts(_ context.Context, q ContractQuery) ([]OptionContract, error) {
	gte, err := time.Parse(expirationLayout, q.ExpirationDateGTE)
	if err != nil {
		return nil, fmt.Errorf("expiration date must be YYYY-MM-DD, got %q", q.ExpirationDateGTE)
	}

	optType := alpaca.OptionTypeCall
	if q.Type == OptionPut {
		optType = alpaca.OptionTypePut
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	contracts, err := c.api.GetOptionContracts(alpaca.GetOptionContractsRequest{
		UnderlyingSymbols: q.UnderlyingSymbol,
		Status:            alpaca.OptionStatusActive,
		Type:              optType,
		ExpirationDateGTE: civil.DateOf(gte),
		TotalLimit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("get option contracts: %w", err)
	}

	out := make([]OptionContract, 0, len(contracts))
	for _, oc := range contracts {
		openInterest := int64(0)
		if oc.OpenInterest != nil {
			openInterest = oc.OpenInterest.IntPart()
		}
		strike, _ := oc.StrikePrice.Float64()
		out = append(out, OptionContract{
			Symbol:           oc.Symbol,
			Name:             oc.Name,
			UnderlyingSymbol: oc.UnderlyingSymbol,
			Type:             string(oc.Type),
			ExpirationDate:   oc.ExpirationDate.String(),
			StrikePrice:      strike,
			OpenInterest:     openInterest,
		})
	}
	return out, nil
}

func (c *AlpacaClient) PlaceOrder(_ context.Context, req OrderRequest) (string, error) {
	if req.Qty <= 0 {
		return "", fmt.Errorf("order quantity must be positive, got %d", req.Qty)
	}

	side := alpaca.Buy
	if req.Side == Sell {
		side = alpaca.Sell
	}
	orderType := alpaca.Market
	var limitPrice *decimal.Decimal
	if req.Kind == Limit {
		if req.LimitPrice == nil {
			return "", fmt.Errorf("limit order requires a limit price")
		}
		orderType = alpaca.Limit
		p := decimal.NewFromFloat(*req.LimitPrice)
		limitPrice = &p
	}

	qty := decimal.NewFromInt(int64(req.Qty))
	order, err := c.api.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:      req.Symbol,
		Qty:         &qty,
		Side:        side,
		Type:        orderType,
		TimeInForce: alpaca.Day,
		LimitPrice:  limitPrice,
	})
	if err != nil {
		return "", fmt.Errorf("place order: %w", err)
	}
	return order.ID, nil
}

func (c *AlpacaClient) GetAccount(_ context.Context) (*Account, error) {
	acct, err := c.api.GetAccount()
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	buyingPower, _ := acct.BuyingPower.Float64()
	cash, _ := acct.Cash.Float64()
	portfolioValue, _ := acct.PortfolioValue.Float64()
	return &Account{
		Status:         string(acct.Status),
		BuyingPower:    buyingPower,
		Cash:           cash,
		PortfolioValue: portfolioValue,
	}, nil
}

func (c *AlpacaClient) ListPositions(_ context.Context) ([]Position, error) {
	positions, err := c.api.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	out := make([]Position, 0, len(positions))
	for _, p := range positions {
		qty, _ := p.Qty.Float64()
		entry, _ := p.AvgEntryPrice.Float64()
		unrealized := 0.0
		if p.UnrealizedPL != nil {
			unrealized, _ = p.UnrealizedPL.Float64()
		}
		out = append(out, Position{
			Symbol:        p.Symbol,
			Qty:           qty,
			AvgEntryPrice: entry,
			UnrealizedPL:  unrealized,
		})
	}
	return out, nil
}

func (c *AlpacaClient) GetClock(_ context.Context) (*Clock, error) {
	clock, err := c.api.GetClock()
	if err != nil {
		return nil, fmt.Errorf("get clock: %w", err)
	}
	return &Clock{
		IsOpen:    clock.IsOpen,
		NextOpen:  clock.NextOpen,
		NextClose: clock.NextClose,
	}, nil
}
