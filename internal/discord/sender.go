// Package discord posts messages to Discord incoming webhooks. Payloads are
// modeled with discordgo's webhook types; transport is a plain HTTP client so
// the destination URL stays configurable.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"linecord/internal/metrics"
)

// FallbackNotice is the fixed message posted when a forward fails. Channel
// members see this instead of a raw error payload.
const FallbackNotice = "Unable to forward a message from Line."

// Sender delivers webhook payloads with a single best-effort fallback notice
// on failure.
type Sender struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// SenderConfig configures the webhook sender.
type SenderConfig struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewSender(cfg SenderConfig) *Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Sender{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
	}
}

// Send submits params to the webhook URL. On transport failure or a non-2xx
// response it posts the fixed fallback notice to the same URL exactly once
// and logs the failure with payload context. The returned error is
// informational: the triggering event counts as handled either way, and the
// fallback's own failure is logged but never retried.
func (s *Sender) Send(ctx context.Context, webhookURL string, params *discordgo.WebhookParams) error {
	err := s.post(ctx, webhookURL, params)
	if err == nil {
		return nil
	}
	metrics.DeliveryFailures.Inc()
	s.logger.Error("discord webhook delivery failed",
		"err", err,
		"username", params.Username,
		"content_len", len(params.Content),
		"embeds", len(params.Embeds),
		"files", len(params.Files),
	)
	if fbErr := s.post(ctx, webhookURL, &discordgo.WebhookParams{Content: FallbackNotice}); fbErr != nil {
		s.logger.Error("discord fallback notice failed", "err", fbErr)
	}
	return err
}

func (s *Sender) post(ctx context.Context, webhookURL string, params *discordgo.WebhookParams) error {
	var body bytes.Buffer
	contentType := "application/json"
	if len(params.Files) > 0 {
		ct, err := writeMultipart(&body, params)
		if err != nil {
			return fmt.Errorf("encode multipart payload: %w", err)
		}
		contentType = ct
	} else if err := json.NewEncoder(&body).Encode(params); err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, &body)
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

// writeMultipart encodes params as a payload_json field plus one form file
// per attachment, the layout Discord expects for webhook uploads.
func writeMultipart(w io.Writer, params *discordgo.WebhookParams) (string, error) {
	mw := multipart.NewWriter(w)
	payload, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	if err := mw.WriteField("payload_json", string(payload)); err != nil {
		return "", err
	}
	for i, f := range params.Files {
		part, err := mw.CreateFormFile(fmt.Sprintf("files[%d]", i), f.Name)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	return mw.FormDataContentType(), nil
}
