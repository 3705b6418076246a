package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MixinNetwork/amm.one/config"
	"github.com/go-resty/resty/v2"
)

var ErrTokenNotFound = errors.New("one or both tokens not found")

type Quote struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	USD       float64   `json:"usd"`
	Change24h float64   `json:"change_24h"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Client struct {
	http *resty.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().SetBaseURL(endpoint).SetTimeout(timeout).SetHeader("Accept", "application/json"),
	}
}

// Quotes fetches the USD price and 24 hour change of every id. Ids unknown
// to the provider are absent from the result.
func (client *Client) Quotes(ctx context.Context, ids ...string) (map[string]*Quote, error) {
	if len(ids) == 0 {
		return map[string]*Quote{}, nil
	}
	resp, err := client.http.R().SetContext(ctx).SetQueryParams(map[string]string{
		"ids":                 strings.Join(ids, ","),
		"vs_currencies":       "usd",
		"include_24hr_change": "true",
	}).Get("/simple/price")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("coingecko %d %s", resp.StatusCode(), resp.String())
	}

	var body map[string]struct {
		USD       float64 `json:"usd"`
		Change24h float64 `json:"usd_24h_change"`
	}
	err = json.Unmarshal(resp.Body(), &body)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	quotes := make(map[string]*Quote, len(body))
	for _, id := range ids {
		data, found := body[id]
		if !found {
			continue
		}
		quotes[id] = &Quote{
			Id:        id,
			Name:      config.TokenName(id),
			USD:       data.USD,
			Change24h: data.Change24h,
			UpdatedAt: now,
		}
	}
	return quotes, nil
}

func (client *Client) Pair(ctx context.Context, base, quote string) (*Quote, *Quote, error) {
	quotes, err := client.Quotes(ctx, base, quote)
	if err != nil {
		return nil, nil, err
	}
	a, b := quotes[base], quotes[quote]
	if a == nil || b == nil {
		return nil, nil, ErrTokenNotFound
	}
	return a, b, nil
}
