// Package analyzer talks to the skin analysis inference service.
package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Result mirrors the inference service response. Missing metrics stay nil.
type Result struct {
	SkinType              string   `json:"skin_type"`
	HydrationLevel        *float64 `json:"hydration_level"`
	SebumLevel            *float64 `json:"sebum_level"`
	Pigmentation          *float64 `json:"pigmentation"`
	Wrinkles              *float64 `json:"wrinkles"`
	Pores                 *float64 `json:"pores"`
	Sensitivity           *float64 `json:"sensitivity"`
	Recommendations       string   `json:"ai_recommendations"`
	RecommendedProductIDs []uint   `json:"recommended_product_ids"`
}

type Analyzer interface {
	Analyze(ctx context.Context, image []byte, contentType string) (*Result, error)
}

// Noop is used when no inference service is configured.
type Noop struct{}

func (Noop) Analyze(context.Context, []byte, string) (*Result, error) {
	return &Result{}, nil
}

type HTTPAnalyzer struct {
	client *resty.Client
	logger *zap.Logger
}

func NewHTTPAnalyzer(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPAnalyzer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetRetryResetReaders(true).
		SetHeader("Accept", "application/json")

	return &HTTPAnalyzer{client: client, logger: logger}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, image []byte, contentType string) (*Result, error) {
	var result Result

	resp, err := a.client.R().
		SetContext(ctx).
		SetMultipartField("image", "face.webp", contentType, bytes.NewReader(image)).
		SetResult(&result).
		Post("/analyze")
	if err != nil {
		a.logger.Error("analyzer call failed", zap.Error(err))
		return nil, fmt.Errorf("call analyzer: %w", err)
	}

	if resp.IsError() {
		a.logger.Error("analyzer returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 256)),
		)
		return nil, fmt.Errorf("analyzer status %d", resp.StatusCode())
	}

	a.logger.Debug("analysis received",
		zap.String("skin_type", result.SkinType),
		zap.Int("recommended_products", len(result.RecommendedProductIDs)),
	)

	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
