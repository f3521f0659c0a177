package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/edgecast/internal/models"
	"github.com/yourusername/edgecast/internal/upstream"
)

// HTTPMarketProvider fetches GET {base}/markets
type HTTPMarketProvider struct {
	client *upstream.Client
	logger *logrus.Entry
}

// NewHTTPMarketProvider creates a market provider over client
func NewHTTPMarketProvider(client *upstream.Client, logger *logrus.Logger) *HTTPMarketProvider {
	return &HTTPMarketProvider{
		client: client,
		logger: componentLogger(logger, client.Provider()),
	}
}

type marketsResponse struct {
	Markets []models.MarketQuote `json:"markets"`
}

// ActiveMarkets implements MarketProvider
func (p *HTTPMarketProvider) ActiveMarkets(ctx context.Context) ([]models.MarketQuote, error) {
	var resp marketsResponse
	if err := p.client.GetJSON(ctx, "/markets", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch markets: %w", err)
	}

	quotes := make([]models.MarketQuote, 0, len(resp.Markets))
	for _, q := range resp.Markets {
		if err := q.Validate(); err != nil {
			p.logger.WithFields(logrus.Fields{
				"market_id": q.MarketID,
				"price":     q.PriceOfOutcomeA,
			}).Warn("Skipping malformed market quote")
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// HTTPPredictor calls POST {base}/predict
type HTTPPredictor struct {
	client *upstream.Client
}

// NewHTTPPredictor creates a predictor over client
func NewHTTPPredictor(client *upstream.Client) *HTTPPredictor {
	return &HTTPPredictor{client: client}
}

type predictRequest struct {
	MarketID        string          `json:"market_id"`
	Title           string          `json:"title"`
	Outcomes        models.Outcomes `json:"outcomes"`
	PriceOfOutcomeA float64         `json:"price_of_outcome_a"`
	Volume          float64         `json:"volume"`
}

// predictResponse keeps the probability raw so a non-numeric value maps to
// ErrInvalidEstimate instead of a transport error.
type predictResponse struct {
	ProbabilityOfOutcomeA json.RawMessage `json:"probability_of_outcome_a"`
	PredictedOutcome      string          `json:"predicted_outcome"`
	Confidence            int             `json:"confidence"`
}

// Predict implements Predictor
func (p *HTTPPredictor) Predict(ctx context.Context, quote models.MarketQuote) (models.ModelEstimate, error) {
	req := predictRequest{
		MarketID:        quote.MarketID,
		Title:           quote.Title,
		Outcomes:        quote.Outcomes,
		PriceOfOutcomeA: quote.PriceOfOutcomeA,
		Volume:          quote.Volume,
	}

	var resp predictResponse
	if err := p.client.PostJSON(ctx, "/predict", req, &resp); err != nil {
		return models.ModelEstimate{}, fmt.Errorf("failed to predict market %s: %w", quote.MarketID, err)
	}
	return resp.estimate()
}

func (r predictResponse) estimate() (models.ModelEstimate, error) {
	var prob float64
	if len(r.ProbabilityOfOutcomeA) == 0 || string(r.ProbabilityOfOutcomeA) == "null" {
		return models.ModelEstimate{}, fmt.Errorf("%w: missing probability", models.ErrInvalidEstimate)
	}
	if err := json.Unmarshal(r.ProbabilityOfOutcomeA, &prob); err != nil {
		return models.ModelEstimate{}, fmt.Errorf("%w: probability %s", models.ErrInvalidEstimate, r.ProbabilityOfOutcomeA)
	}
	if math.IsNaN(prob) {
		return models.ModelEstimate{}, models.ErrInvalidEstimate
	}

	estimate := models.ModelEstimate{
		ProbabilityOfOutcomeA: prob,
		PredictedOutcome:      r.PredictedOutcome,
		Confidence:            r.Confidence,
	}
	if err := estimate.Validate(); err != nil {
		return models.ModelEstimate{}, fmt.Errorf("%w: probability %v", err, prob)
	}
	return estimate, nil
}

// HTTPSettlementProvider fetches GET {base}/settlements/{id}
type HTTPSettlementProvider struct {
	client *upstream.Client
}

// NewHTTPSettlementProvider creates a settlement provider over client
func NewHTTPSettlementProvider(client *upstream.Client) *HTTPSettlementProvider {
	return &HTTPSettlementProvider{client: client}
}

// Settlement implements SettlementProvider. A 404 or an empty winner means unresolved.
func (p *HTTPSettlementProvider) Settlement(ctx context.Context, marketID string) (*models.SettlementRecord, error) {
	var record models.SettlementRecord
	err := p.client.GetJSON(ctx, "/settlements/"+url.PathEscape(marketID), &record)
	if upstream.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settlement for %s: %w", marketID, err)
	}
	if record.WinningOutcomeLabel == "" {
		return nil, nil
	}
	if record.MarketID == "" {
		record.MarketID = marketID
	}
	return &record, nil
}

func componentLogger(logger *logrus.Logger, provider string) *logrus.Entry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithFields(logrus.Fields{"component": "provider", "provider": provider})
}
