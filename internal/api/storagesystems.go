package api

import (
	"context"
	"encoding/json"
	nethttp "net/http"

	"github.com/siops/insights-cli/internal/config"
	"github.com/siops/insights-cli/internal/models"
)

// StorageSystemsService fetches the tenant's storage systems listing.
type StorageSystemsService struct {
	client    *Client
	endpoints config.Endpoints
}

// NewStorageSystemsService creates a listing service on top of an API client.
func NewStorageSystemsService(client *Client, endpoints config.Endpoints) *StorageSystemsService {
	return &StorageSystemsService{client: client, endpoints: endpoints}
}

// FetchStorageSystems GETs the listing for the tenant, authorized with
// the bearer token. A non-empty storageType is forwarded as the
// storage-type query parameter, unvalidated. A payload without a "data"
// field decodes to an empty listing; record order is preserved as
// returned by the API.
func (s *StorageSystemsService) FetchStorageSystems(ctx context.Context, tenantID string, token *models.Token, storageType string) (*models.StorageSystemsPayload, error) {
	url := s.endpoints.StorageSystemsURL(tenantID, storageType)

	raw, err := s.client.RequestJSON(ctx, nethttp.MethodGet, url, map[string]string{
		"x-api-token": token.Value,
	}, "")
	if err != nil {
		return nil, err
	}

	payload := &models.StorageSystemsPayload{Raw: raw}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, &MalformedResponseError{Context: "storage-systems", Raw: string(raw)}
	}

	return payload, nil
}
