package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"checkout-service/models"
)

const getResponseBaseURL = "https://api.getresponse.com/v3"

// GetResponseProvider implements MailingListProvider using the GetResponse v3 API.
type GetResponseProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGetResponseProvider creates a provider. An empty baseURL selects the
// public API.
func NewGetResponseProvider(apiKey, baseURL string) *GetResponseProvider {
	if baseURL == "" {
		baseURL = getResponseBaseURL
	}
	return &GetResponseProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type getResponseCampaign struct {
	CampaignID string `json:"campaignId"`
}

type getResponseContactRequest struct {
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Campaign getResponseCampaign `json:"campaign"`
}

type getResponseError struct {
	HTTPStatus int    `json:"httpStatus"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

// UpsertContact posts the contact to /contacts. GetResponse answers 409 when
// the address is already on the list; that counts as success.
func (g *GetResponseProvider) UpsertContact(ctx context.Context, contact models.Contact) error {
	reqBody := getResponseContactRequest{
		Name:     contact.Name,
		Email:    contact.Email,
		Campaign: getResponseCampaign{CampaignID: contact.ListID},
	}

	err := g.doRequest(ctx, http.MethodPost, "/contacts", reqBody, nil)
	if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusConflict {
		return nil
	}
	if err != nil {
		return fmt.Errorf("getresponse UpsertContact: %w", err)
	}
	return nil
}

func (g *GetResponseProvider) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", "api-key "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Provider: "getresponse", StatusCode: resp.StatusCode}
		var grErr getResponseError
		if json.Unmarshal(respBytes, &grErr) == nil && grErr.Message != "" {
			apiErr.Message = grErr.Message
		}
		return apiErr
	}

	if out != nil && len(respBytes) > 0 {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
