package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPProviderConfig holds configuration for the HTTP synthesis provider.
type HTTPProviderConfig struct {
	ServiceURL string `json:"service_url"` // e.g. "http://localhost:8899"
	Timeout    int    `json:"timeout_sec"`
}

func DefaultHTTPProviderConfig() *HTTPProviderConfig {
	return &HTTPProviderConfig{
		ServiceURL: "http://localhost:8899",
		Timeout:    30,
	}
}

// HTTPProvider synthesizes speech through a local voice microservice.
type HTTPProvider struct {
	config     *HTTPProviderConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewHTTPProvider(config *HTTPProviderConfig, logger zerolog.Logger) *HTTPProvider {
	if config == nil {
		config = DefaultHTTPProviderConfig()
	}
	return &HTTPProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
		logger: logger.With().Str("provider", "http").Logger(),
	}
}

func (p *HTTPProvider) Name() string {
	return "http"
}

func (p *HTTPProvider) Synthesize(ctx context.Context, text string, opts Options) (*Result, error) {
	startTime := time.Now()

	payload := map[string]interface{}{
		"text":   text,
		"rate":   opts.Rate,
		"pitch":  opts.Pitch,
		"volume": opts.Volume,
		"lang":   opts.Lang,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/synthesize", p.config.ServiceURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	p.logger.Debug().
		Str("url", url).
		Float64("rate", opts.Rate).
		Msg("Sending synthesis request")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrSynthesisFailed, resp.StatusCode, string(bodyBytes))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	processingTime := time.Since(startTime)
	p.logger.Info().
		Int("audio_bytes", len(audioData)).
		Dur("processing_time", processingTime).
		Msg("Synthesis complete")

	return &Result{
		Audio:          audioData,
		Format:         "wav",
		ProcessingTime: processingTime,
		Provider:       "http",
	}, nil
}

func (p *HTTPProvider) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", p.config.ServiceURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}
	return nil
}
