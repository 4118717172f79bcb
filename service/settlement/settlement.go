// Package settlement talks to the value-transfer layer: an opaque
// ledger that moves value between accounts and forwards calls to
// arbitrary external endpoints.
package settlement

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"collectordao/core"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Config settlement client config
type Config struct {
	Endpoint string `valid:"required"`
}

// New new settlement ledger client
func New(cfg Config) core.Ledger {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &ledger{client: client}
}

type ledger struct {
	client *resty.Client
}

type errorResponse struct {
	Msg string `json:"msg"`
}

func (l *ledger) Transfer(ctx context.Context, opponent string, amount decimal.Decimal, memo string) error {
	body := map[string]interface{}{
		"opponent": opponent,
		"amount":   amount,
		"memo":     memo,
	}

	var failure errorResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&failure).
		Post("/transfers")
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("settlement: transfer failed: %s", failure.Msg)
	}

	return nil
}

func (l *ledger) Call(ctx context.Context, target string, value decimal.Decimal, payload []byte) ([]byte, error) {
	body := map[string]interface{}{
		"target":  target,
		"value":   value,
		"payload": base64.StdEncoding.EncodeToString(payload),
	}

	var result struct {
		Data string `json:"data"`
	}
	var failure errorResponse

	resp, err := l.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		Post("/calls")
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("settlement: call to %s failed: %s", target, failure.Msg)
	}

	data, err := base64.StdEncoding.DecodeString(result.Data)
	if err != nil {
		return nil, err
	}

	return data, nil
}
