package api

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/siops/insights-cli/internal/config"
	"github.com/siops/insights-cli/internal/models"
)

// TokenService exchanges a tenant API key for a short-lived bearer
// token. One exchange per invocation; the token is never cached.
type TokenService struct {
	client    *Client
	endpoints config.Endpoints
}

// NewTokenService creates a token service on top of an API client.
func NewTokenService(client *Client, endpoints config.Endpoints) *TokenService {
	return &TokenService{client: client, endpoints: endpoints}
}

// ObtainToken POSTs the token exchange and returns the token value plus
// its expiration in epoch milliseconds. The response must be shaped
// {result: {token: string, expiration: integer-like}}; anything else is
// a MalformedResponseError — missing pieces are never defaulted.
func (s *TokenService) ObtainToken(ctx context.Context, creds *config.Credentials) (*models.Token, error) {
	url := s.endpoints.TokenURL(creds.TenantID)

	raw, err := s.client.RequestJSON(ctx, nethttp.MethodPost, url, map[string]string{
		"x-api-key":    creds.APIKey,
		"Content-Type": "application/json",
	}, "{}")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result *struct {
			Token      *string         `json:"token"`
			Expiration json.RawMessage `json:"expiration"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil ||
		resp.Result == nil || resp.Result.Token == nil || len(resp.Result.Expiration) == 0 {
		return nil, &MalformedResponseError{Context: "token", Raw: string(raw)}
	}

	expiration, err := coerceInt64(resp.Result.Expiration)
	if err != nil {
		return nil, &MalformedResponseError{Context: "token", Raw: string(raw)}
	}

	return &models.Token{
		Value:        *resp.Result.Token,
		ExpirationMS: expiration,
	}, nil
}

// coerceInt64 converts an integer-like JSON value (number, integral
// float, or numeric string) to int64, failing loudly on anything else.
func coerceInt64(raw json.RawMessage) (int64, error) {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if i, err := num.Int64(); err == nil {
			return i, nil
		}
		if f, err := num.Float64(); err == nil {
			return int64(f), nil
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}

	return 0, fmt.Errorf("value %s is not integer-like", string(raw))
}
