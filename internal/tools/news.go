package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/go-resty/resty/v2"
)

const defaultNewsBaseURL = "https://news.google.com"

// NewsClient scrapes recent headlines for a company from Google News.
type NewsClient struct {
	client  *resty.Client
	baseURL string
}

// NewNewsClient builds the production news client. Tests point baseURL at
// a local httptest server.
func NewNewsClient(baseURL string) *NewsClient {
	if baseURL == "" {
		baseURL = defaultNewsBaseURL
	}
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; tradegram/1.0)")
	return &NewsClient{client: client, baseURL: baseURL}
}

// Headline is a single scraped news item.
type Headline struct {
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
	URL    string `json:"url,omitempty"`
	Time   string `json:"time,omitempty"`
}

// Headlines fetches up to max headlines mentioning the query.
func (nc *NewsClient) Headlines(ctx context.Context, query string, max int) ([]Headline, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if max <= 0 {
		max = 10
	}

	searchURL := fmt.Sprintf("%s/search?q=%s&hl=en&gl=US&ceid=US:en", nc.baseURL, url.QueryEscape(query))
	resp, err := nc.client.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP error %d when fetching news", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("parse news page: %w", err)
	}

	var headlines []Headline
	doc.Find("article").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").Text())
		}
		if title == "" {
			return true
		}
		href, _ := s.Find("a").First().Attr("href")
		headlines = append(headlines, Headline{
			Title:  title,
			Source: strings.TrimSpace(s.Find("div[data-n-tid]").Text()),
			URL:    nc.absoluteURL(href),
			Time:   strings.TrimSpace(s.Find("time").Text()),
		})
		return len(headlines) < max
	})
	return headlines, nil
}

func (nc *NewsClient) absoluteURL(href string) string {
	if strings.HasPrefix(href, "./") {
		return nc.baseURL + href[1:]
	}
	if strings.HasPrefix(href, "/") {
		return nc.baseURL + href
	}
	return href
}

type companyNewsInput struct {
	Symbol string `json:"symbol"`
	Limit  string `json:"limit"`
}

// NewsOutput is the tool-facing wrapper around the scraped headlines.
type NewsOutput struct {
	Symbol    string     `json:"symbol"`
	Headlines []Headline `json:"headlines"`
}

// NewGetCompanyNewsTool scrapes recent headlines about a company.
func NewGetCompanyNewsTool(nc *NewsClient) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_company_news",
			Desc: "Fetches recent news headlines about a company by its stock symbol.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock symbol of the company (e.g. AAPL)",
					Required: true,
				},
				"limit": {
					Type:     "string",
					Desc:     "Maximum number of headlines to return (default 10)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input companyNewsInput) (*NewsOutput, error) {
			sym, err := requireSymbol("symbol", input.Symbol)
			if err != nil {
				return nil, err
			}
			limit, err := parseIntDefault("limit", input.Limit, 10)
			if err != nil {
				return nil, err
			}
			headlines, err := nc.Headlines(ctx, sym+" stock", limit)
			if err != nil {
				return nil, err
			}
			return &NewsOutput{Symbol: sym, Headlines: headlines}, nil
		},
	)
}
