package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

const defaultGuideURL = "https://services.runescape.com/m=itemdb_oldschool/api/catalogue/detail.json"

// GuidePriceClient looks up the official item database's guide price.
// It implements market.GuidePriceProvider.
type GuidePriceClient struct {
	client  *resty.Client
	baseURL string
}

// NewGuidePriceClient creates a client from the guide configuration section
func NewGuidePriceClient(cfg config.GuideConfig) *GuidePriceClient {
	return NewGuidePriceClientWithURL(cfg.BaseURL, cfg.Timeout)
}

// NewGuidePriceClientWithURL creates a client for an explicit detail endpoint
func NewGuidePriceClientWithURL(baseURL string, timeout time.Duration) *GuidePriceClient {
	if baseURL == "" {
		baseURL = defaultGuideURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond)
	return &GuidePriceClient{client: client, baseURL: baseURL}
}

type guideDetail struct {
	Item struct {
		Current struct {
			Price any `json:"price"`
		} `json:"current"`
	} `json:"item"`
}

// GuidePrice returns the current guide price, or nil when the item is unknown
// to the database or the price is published as "unknown"
func (c *GuidePriceClient) GuidePrice(ctx context.Context, itemID int) (*int64, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("item", strconv.Itoa(itemID)).
		Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("guide price request for item %d failed: %w", itemID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, &StatusError{
			Endpoint:   "guide detail",
			StatusCode: resp.StatusCode(),
			Body:       truncate(resp.String(), 200),
		}
	}

	var detail guideDetail
	if err := json.Unmarshal(resp.Body(), &detail); err != nil {
		// the endpoint answers unknown ids with an empty or HTML body
		return nil, nil
	}
	return utils.ParseGuidePrice(detail.Item.Current.Price), nil
}
