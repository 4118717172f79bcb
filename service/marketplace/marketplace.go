// Package marketplace consumes the external nft marketplace:
// price(asset) -> amount and buy(asset, amount) -> success.
package marketplace

import (
	"context"
	"fmt"
	"time"

	"collectordao/core"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Config marketplace client config
type Config struct {
	Endpoint string `valid:"required"`
}

// New new marketplace client
func New(cfg Config) core.Marketplace {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &marketplace{client: client}
}

type marketplace struct {
	client *resty.Client
}

func (m *marketplace) Price(ctx context.Context, collection, tokenID string) (decimal.Decimal, error) {
	var result struct {
		Price decimal.Decimal `json:"price"`
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/collections/%s/tokens/%s/price", collection, tokenID))
	if err != nil {
		return decimal.Zero, err
	}

	if !resp.IsSuccess() {
		return decimal.Zero, fmt.Errorf("marketplace: price of %s/%s: status %s", collection, tokenID, resp.Status())
	}

	return result.Price, nil
}

func (m *marketplace) Buy(ctx context.Context, collection, tokenID string, amount decimal.Decimal) error {
	var failure struct {
		Msg string `json:"msg"`
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"amount": amount}).
		SetError(&failure).
		Post(fmt.Sprintf("/collections/%s/tokens/%s/buy", collection, tokenID))
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		if failure.Msg == "" {
			return core.ErrBuyingNFT
		}

		return fmt.Errorf("marketplace: buy %s/%s failed: %s", collection, tokenID, failure.Msg)
	}

	return nil
}
