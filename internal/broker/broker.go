// Package broker wraps the Alpaca trading API behind a small client
// interface so the trading tools stay testable without network access.
package broker

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// NormalizeOptionType accepts the single-letter form used by callers
// ("C"/"P", case-insensitive) as well as the full word.
func NormalizeOptionType(raw string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "c", "call":
		return OptionCall, nil
	case "p", "put":
		return OptionPut, nil
	}
	return "", fmt.Errorf("option type must be 'C' (call) or 'P' (put), got %q", raw)
}

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

type OrderKind string

const (
	Market OrderKind = "market"
	Limit  OrderKind = "limit"
)

// OptionContract is the subset of the contract entity the tools read.
type OptionContract struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	UnderlyingSymbol string  `json:"underlying_symbol"`
	Type             string  `json:"type"`
	ExpirationDate   string  `json:"expiration_date"`
	StrikePrice      float64 `json:"strike_price"`
	OpenInterest     int64   `json:"open_interest"`
}

// ContractQuery asks for active contracts of one underlying and type with
// expiration on or after ExpirationDateGTE (YYYY-MM-DD).
type ContractQuery struct {
	UnderlyingSymbol  string
	Type              OptionType
	ExpirationDateGTE string
	Limit             int
}

// OrderRequest describes one day-duration order. All orders this bot
// submits are good for the day only.
type OrderRequest struct {
	Symbol     string
	Qty        int
	Side       Side
	Kind       OrderKind
	LimitPrice *float64
}

type Account struct {
	Status         string  `json:"status"`
	BuyingPower    float64 `json:"buying_power"`
	Cash           float64 `json:"cash"`
	PortfolioValue float64 `json:"portfolio_value"`
}

type Position struct {
	Symbol        string  `json:"symbol"`
	Qty           float64 `json:"qty"`
	AvgEntryPrice float64 `json:"avg_entry_price"`
	UnrealizedPL  float64 `json:"unrealized_pl"`
}

type Clock struct {
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// Client is the trading surface the tools depend on. The production
// implementation is the Alpaca SDK adapter; tests inject fakes.
type Client interface {
	GetOptionContracts(ctx context.Context, q ContractQuery) ([]OptionContract, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (string, error)
	GetAccount(ctx context.Context) (*Account, error)
	ListPositions(ctx context.Context) ([]Position, error)
	GetClock(ctx context.Context) (*Clock, error)
}
