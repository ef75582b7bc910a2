// Package gateway talks to the external order backend. The backend is
// authoritative; this client only reads.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/astrasoul/records-api/internal/config"
	"github.com/astrasoul/records-api/internal/model"
	apperrors "github.com/astrasoul/records-api/pkg/errors"
)

// OrderFetcher retrieves the full order list for one funnel.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, funnel string) ([]model.OrderRecord, error)
}

// ordersEnvelope is the backend's list-orders response shape.
type ordersEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    []model.OrderRecord `json:"data"`
}

type Client struct {
	http *resty.Client
}

func NewClient(cfg config.BackendConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount)
	return &Client{http: client}
}

// FetchOrders issues GET /api/<funnel>/get-orders. Transport failures, bad
// statuses and success:false responses all surface as retryable upstream
// errors; the caller decides whether to keep showing the previous batch.
func (c *Client) FetchOrders(ctx context.Context, funnel string) ([]model.OrderRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/api/%s/get-orders", funnel))
	if err != nil {
		return nil, apperrors.Upstream("order backend unreachable", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apperrors.Upstream(fmt.Sprintf("order backend returned status %d", resp.StatusCode()), nil)
	}

	var envelope ordersEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, apperrors.Upstream("decode order backend response", err)
	}
	if !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = "order backend reported failure"
		}
		return nil, apperrors.Upstream(msg, nil)
	}
	return envelope.Data, nil
}
