package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/edtech-scanner/app-auth/internal/logging"
	"github.com/edtech-scanner/app-auth/internal/models"
	"github.com/edtech-scanner/app-auth/internal/utils/httpclient"
	"go.uber.org/zap"
)

// ExternalIdentity is the profile extracted from a verified identity
// assertion
type ExternalIdentity struct {
	ExternalID string
	Email      *string
	Name       *string
	Picture    *string
}

// AssertionVerifier validates an externally issued identity assertion
type AssertionVerifier interface {
	VerifyAssertion(ctx context.Context, assertion string) (*ExternalIdentity, error)
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

type googleTokenInfo struct {
	Sub     string `json:"sub"`
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleVerifier validates Google ID tokens against the tokeninfo
// endpoint and checks the audience against the configured client ID
type GoogleVerifier struct {
	clientID string
	endpoint string
	logger   *logging.SafeLogger
}

// NewGoogleVerifier creates a Google ID token verifier
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: clientID,
		endpoint: googleTokenInfoURL,
		logger:   logging.Logger,
	}
}

// VerifyAssertion checks the ID token with Google and returns the
// verified identity. Any rejection, including an audience mismatch,
// surfaces as models.ErrInvalidAssertion.
func (g *GoogleVerifier) VerifyAssertion(ctx context.Context, assertion string) (*ExternalIdentity, error) {
	reqURL := fmt.Sprintf("%s?id_token=%s", g.endpoint, url.QueryEscape(assertion))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	client := httpclient.GetGlobalPool().Get()
	defer httpclient.GetGlobalPool().Put(client)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call tokeninfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("identity assertion rejected",
			zap.Int("status_code", resp.StatusCode))
		return nil, models.ErrInvalidAssertion
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if g.clientID != "" && info.Aud != g.clientID {
		g.logger.Warn("identity assertion audience mismatch")
		return nil, models.ErrInvalidAssertion
	}
	if info.Sub == "" {
		return nil, models.ErrInvalidAssertion
	}

	identity := &ExternalIdentity{ExternalID: info.Sub}
	if info.Email != "" {
		identity.Email = &info.Email
	}
	if info.Name != "" {
		identity.Name = &info.Name
	}
	if info.Picture != "" {
		identity.Picture = &info.Picture
	}
	return identity, nil
}
