package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the idgate HTTP API. It holds no credentials; calls
// that need one take the access token as an argument.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for baseURL with a 10 second timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
