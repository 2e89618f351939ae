package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
)

// Ensure TelegramSink implements the interface.
var _ driven.ReportSink = (*TelegramSink)(nil)

// Default Telegram values.
const (
	DefaultTelegramBaseURL = "https://api.telegram.org"
	DefaultTelegramTimeout = 15 * time.Second
)

// TelegramConfig holds configuration for the Telegram sink.
type TelegramConfig struct {
	// BotToken authenticates the bot (required).
	BotToken string

	// ChatID is the chat that receives reports (required).
	ChatID string

	// BaseURL is the Bot API base URL (default: https://api.telegram.org).
	BaseURL string

	// Region is shown in the report header.
	Region string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// TelegramSink delivers reports to a Telegram chat.
type TelegramSink struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
	region  string
}

// sendMessageRequest is the Bot API sendMessage request format.
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

// apiResponse is the Bot API response envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// NewTelegramSink creates a Telegram sink.
func NewTelegramSink(cfg TelegramConfig) (*TelegramSink, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, fmt.Errorf("telegram: %w: bot token and chat id are required", domain.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTelegramBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTelegramTimeout
	}

	return &TelegramSink{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.BotToken,
		chatID:  cfg.ChatID,
		region:  cfg.Region,
	}, nil
}

// DeliverReport sends a report to the chat.
func (s *TelegramSink) DeliverReport(ctx context.Context, report *domain.DomainReport) error {
	return s.send(ctx, FormatReportMarkdown(report, s.region))
}

// DeliverFailure sends a failure notice to the chat.
func (s *TelegramSink) DeliverFailure(ctx context.Context, failure *domain.CheckFailure) error {
	return s.send(ctx, FormatFailureMarkdown(failure))
}

func (s *TelegramSink) send(ctx context.Context, text string) error {
	jsonBody, err := json.Marshal(sendMessageRequest{
		ChatID:                s.chatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// The URL carries the bot token; keep it out of logs.
		return fmt.Errorf("telegram: send message failed: %s", strings.ReplaceAll(err.Error(), s.token, "***"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var apiResp apiResponse
	_ = json.Unmarshal(body, &apiResp)
	if resp.StatusCode != http.StatusOK || !apiResp.OK {
		if apiResp.Description != "" {
			return fmt.Errorf("telegram error (status %d): %s", resp.StatusCode, apiResp.Description)
		}
		return fmt.Errorf("telegram error (status %d)", resp.StatusCode)
	}
	return nil
}
