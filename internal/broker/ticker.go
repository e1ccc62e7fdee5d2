package broker

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const expirationLayout = "2006-01-02"

// OptionTicker builds the OCC option symbol from its identifying fields,
// e.g. ("AAPL", "2025-06-20", call, 150) -> "AAPL250620C00150000".
// The strike is encoded as price*1000, zero-padded to eight digits.
func OptionTicker(underlying, expirationDate string, optType OptionType, strikePrice float64) (string, error) {
	underlying = strings.ToUpper(strings.TrimSpace(underlying))
	if underlying == "" {
		return "", fmt.Errorf("underlying symbol is required")
	}

	exp, err := time.Parse(expirationLayout, strings.TrimSpace(expirationDate))
	if err != nil {
		return "", fmt.Errorf("expiration date must be YYYY-MM-DD, got %q", expirationDate)
	}

	var letter string
	switch optType {
	case OptionCall:
		letter = "C"
	case OptionPut:
		letter = "P"
	default:
		return "", fmt.Errorf("unknown option type %q", optType)
	}

	if strikePrice <= 0 {
		return "", fmt.Errorf("strike price must be positive, got %v", strikePrice)
	}
	strike := int64(math.Round(strikePrice * 1000))

	return fmt.Sprintf("%s%s%s%08d", underlying, exp.Format("060102"), letter, strike), nil
}
