package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/edtech-scanner/app-auth/internal/logging"
	"github.com/edtech-scanner/app-auth/internal/observability"
	"github.com/edtech-scanner/app-auth/internal/utils/httpclient"
	"go.uber.org/zap"
)

// Sender delivers a verification code to a phone number
type Sender interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type smsErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// GatewaySender delivers codes through an HTTP SMS gateway
type GatewaySender struct {
	baseURL string
	token   string
	logger  *logging.SafeLogger
}

// NewGatewaySender creates an SMS gateway sender
func NewGatewaySender(baseURL, token string) *GatewaySender {
	return &GatewaySender{
		baseURL: baseURL,
		token:   token,
		logger:  logging.Logger,
	}
}

// SendVerificationCode sends the code as an SMS through the gateway
func (s *GatewaySender) SendVerificationCode(ctx context.Context, phone, code string) error {
	logger := s.logger.With(zap.String("phone", observability.MaskPhone(phone)))

	body := smsRequest{
		To:      FormatForDelivery(phone),
		Message: fmt.Sprintf("Your EdTech Scanner verification code is: %s", code),
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal SMS request: %w", err)
	}

	url := fmt.Sprintf("%s/messages", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.token))
	req.Header.Set("Content-Type", "application/json")

	client := httpclient.GetGlobalPool().Get()
	defer httpclient.GetGlobalPool().Put(client)

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("failed to send SMS request", zap.Error(err))
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read SMS response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp smsErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			logger.Error("SMS request failed",
				zap.Int("status_code", resp.StatusCode),
				zap.String("error_message", errResp.Message))
			return fmt.Errorf("SMS request failed: %s", errResp.Message)
		}
		logger.Error("SMS request failed", zap.Int("status_code", resp.StatusCode))
		return fmt.Errorf("SMS request failed with status: %d", resp.StatusCode)
	}

	logger.Debug("verification SMS sent")
	return nil
}

// LogSender logs codes instead of delivering them. Development only.
type LogSender struct {
	logger *logging.SafeLogger
}

// NewLogSender creates a sender that logs verification codes
func NewLogSender() *LogSender {
	return &LogSender{logger: logging.Logger}
}

// SendVerificationCode logs the code for local development
func (s *LogSender) SendVerificationCode(ctx context.Context, phone, code string) error {
	s.logger.Info("verification code issued (SMS delivery disabled)",
		zap.String("phone", observability.MaskPhone(phone)),
		zap.String("code", code))
	return nil
}
