package farmapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/paladisupraja/dairy-portal/internal/config"
	"github.com/paladisupraja/dairy-portal/internal/domain/models"
)

// Client exposes the herd-management backend operations the milking core
// consumes. All data is read-only reference data.
type Client interface {
	ListGroups(ctx context.Context, farmID string) ([]models.Group, error)
	GetGroupMembers(ctx context.Context, groupID string) (*models.GroupMembers, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a backend API client using the provided configuration values.
func NewClient(cfg config.BackendConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// apiError represents the backend's error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type listGroupsResponse struct {
	Groups []models.Group `json:"groups"`
}

// ListGroups fetches the groups of one farm. farmID is always explicit; the
// client never falls back to an ambient session scope.
func (c *APIClient) ListGroups(ctx context.Context, farmID string) ([]models.Group, error) {
	result := new(listGroupsResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("farmId", farmID).
		SetResult(result).
		SetError(apiErr).
		Get("/groups")
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, responseError("list groups", resp.StatusCode(), apiErr)
	}

	return result.Groups, nil
}

// GetGroupMembers fetches the membership snapshot for one group: the
// responsible employee and the member animals.
func (c *APIClient) GetGroupMembers(ctx context.Context, groupID string) (*models.GroupMembers, error) {
	result := new(models.GroupMembers)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(fmt.Sprintf("/groups/%s/members", groupID))
	if err != nil {
		return nil, fmt.Errorf("get group members: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, responseError("get group members", resp.StatusCode(), apiErr)
	}

	result.GroupID = groupID
	return result, nil
}

func responseError(op string, status int, apiErr *apiError) error {
	message := ""
	code := status
	if apiErr != nil {
		message = apiErr.Error.Message
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
	}
	return fmt.Errorf("%s: backend api error: code=%d, message=%s", op, code, message)
}
