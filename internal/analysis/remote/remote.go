package remote

import (
	"context"
	"fmt"
	"net/http"

	"trading-report/internal/api"
	"trading-report/internal/credentials"
	"trading-report/internal/trace"
	"trading-report/internal/types"
)

// Analyzer calls a framework served over HTTP
type Analyzer struct {
	client *api.Client
	creds  credentials.Credentials
}

// New creates a remote analyzer for endpoint (the /propagate path is appended)
func New(endpoint string, creds credentials.Credentials, client *http.Client) *Analyzer {
	if client == nil {
		client = &http.Client{}
	}
	return &Analyzer{
		client: api.NewClient(
			api.WithBaseURL(endpoint),
			api.WithHTTPClient(client),
			api.WithLogging(true),
		),
		creds: creds,
	}
}

func (a *Analyzer) Propagate(ctx context.Context, symbol, date string, cfg types.AnalysisConfig) (*types.FinalState, types.Decision, error) {
	ctx, span := trace.StartSpan(ctx, "remote-propagate")
	defer span.End()

	resp, err := a.client.POST(ctx, "/propagate",
		types.AnalysisRequest{Symbol: symbol, Date: date, Config: cfg},
		map[string]string{
			"X-Finnhub-Api-Key": a.creds.FinnhubAPIKey,
			"X-Openai-Api-Key":  a.creds.OpenAIAPIKey,
		})
	if err != nil {
		if api.StatusCode(err) == http.StatusTooManyRequests {
			return nil, "", fmt.Errorf("%w: %v", types.ErrQuotaExceeded, err)
		}
		return nil, "", fmt.Errorf("analysis request failed: %w", err)
	}

	var envelope types.AnalysisResponse
	if err := resp.ParseJSON(&envelope); err != nil {
		return nil, "", fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return envelope.Result()
}
