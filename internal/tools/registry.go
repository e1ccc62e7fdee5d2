package tools

import (
	"github.com/cloudwego/eino/components/tool"

	"github.com/osokin/tradegram/internal/broker"
)

// Deps carries the external clients the tools are built on.
type Deps struct {
	Broker broker.Client
	Quotes QuoteFetcher
	News   *NewsClient
}

// All assembles the full action list in a fixed order. Assembly is
// idempotent: calling it twice yields fresh tool values with identical
// names, descriptions and ordering.
func All(deps Deps) []tool.BaseTool {
	quotes := deps.Quotes
	if quotes == nil {
		quotes = FetchQuote
	}
	news := deps.News
	if news == nil {
		news = NewNewsClient("")
	}
	return []tool.BaseTool{
		NewGetOptionContractTool(deps.Broker),
		NewBuyOptionByMarketPriceTool(deps.Broker),
		NewSellOptionByTickerTool(deps.Broker),
		NewSellOptionByMarketPriceTool(deps.Broker),
		NewSellOptionByLimitPriceTool(deps.Broker),
		NewGetStockQuoteTool(quotes),
		NewBuyStockByMarketPriceTool(deps.Broker),
		NewSellStockByMarketPriceTool(deps.Broker),
		NewGetAccountInfoTool(deps.Broker),
		NewListOpenPositionsTool(deps.Broker),
		NewIsMarketOpenTool(deps.Broker),
		NewGetCompanyNewsTool(news),
	}
}
