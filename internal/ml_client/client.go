package ml_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dashboard/internal/models"
)

// ErrInvalidResponse is returned when the service answers 2xx with a body
// that does not match the expected schema.
var ErrInvalidResponse = errors.New("invalid response from model service")

// Endpoints are the prediction service URLs.
type Endpoints struct {
	Predict       string
	DomainPredict string
	Models        string
	Compare       string
}

// Client is a client for the sentiment model-serving API.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	logger     *zap.Logger
}

// predictionResponse mirrors the service's prediction body. Pointer fields
// tell a missing value apart from a zero value.
type predictionResponse struct {
	Sentiment      *string  `json:"sentiment"`
	SentimentValue *float64 `json:"sentiment_value"`
	Confidence     *float64 `json:"confidence"`
	Text           *string  `json:"text"`
	ModelType      *string  `json:"model_type"`
}

type modelsResponse struct {
	Models *[]string `json:"models"`
}

type compareRequest struct {
	Text string `json:"text"`
}

type compareResponse struct {
	Text   string                        `json:"text"`
	Models *map[string]predictionResponse `json:"models"`
}

// NewClient creates a new model service client.
func NewClient(endpoints Endpoints, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Predict requests a prediction from the primary endpoint.
func (c *Client) Predict(ctx context.Context, req models.PredictRequest) (*models.Prediction, error) {
	return c.predict(ctx, c.endpoints.Predict, req)
}

// DomainPredict requests a prediction from the dedicated domain-aware endpoint.
func (c *Client) DomainPredict(ctx context.Context, req models.PredictRequest) (*models.Prediction, error) {
	return c.predict(ctx, c.endpoints.DomainPredict, req)
}

func (c *Client) predict(ctx context.Context, endpoint string, req models.PredictRequest) (*models.Prediction, error) {
	c.logger.Debug("Calling prediction endpoint",
		zap.String("endpoint", endpoint),
		zap.String("model_type", req.ModelType),
		zap.Bool("store_for_feedback", req.StoreForFeedback))

	var resp predictionResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return nil, err
	}

	prediction, err := resp.toPrediction(req.Text, req.ModelType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return prediction, nil
}

// ListModels returns the model identifiers advertised by the service.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	if err := c.doJSON(ctx, http.MethodGet, c.endpoints.Models, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Models == nil {
		return nil, fmt.Errorf("%s: %w: missing models", c.endpoints.Models, ErrInvalidResponse)
	}
	return *resp.Models, nil
}

// Compare asks the service to run every model on text.
func (c *Client) Compare(ctx context.Context, text string) (*models.ModelComparison, error) {
	var resp compareResponse
	if err := c.doJSON(ctx, http.MethodPost, c.endpoints.Compare, compareRequest{Text: text}, &resp); err != nil {
		return nil, err
	}
	if resp.Models == nil {
		return nil, fmt.Errorf("%s: %w: missing models", c.endpoints.Compare, ErrInvalidResponse)
	}

	result := &models.ModelComparison{
		Text:   resp.Text,
		Models: make(map[string]models.Prediction, len(*resp.Models)),
	}
	if result.Text == "" {
		result.Text = text
	}

	for name, raw := range *resp.Models {
		prediction, err := raw.toPrediction(text, name)
		if err != nil {
			c.logger.Warn("Dropping invalid model result from comparison",
				zap.String("model", name),
				zap.Error(err))
			continue
		}
		result.Models[name] = *prediction
	}

	// the service's own count would include dropped entries
	result.Count = len(result.Models)
	return result, nil
}

// doJSON sends an optional JSON body and decodes a JSON answer into out.
// Any non-2xx status is an error.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("model service %s returned status %d: %s", endpoint, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", endpoint, ErrInvalidResponse, err)
	}
	return nil
}

// toPrediction validates the decoded body. sentiment and confidence are
// required; text, model_type and sentiment_value fall back to the request.
func (p predictionResponse) toPrediction(text, modelType string) (*models.Prediction, error) {
	if p.Sentiment == nil || *p.Sentiment == "" {
		return nil, fmt.Errorf("%w: missing sentiment", ErrInvalidResponse)
	}
	if p.Confidence == nil {
		return nil, fmt.Errorf("%w: missing confidence", ErrInvalidResponse)
	}
	if *p.Confidence < 0 || *p.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v out of range", ErrInvalidResponse, *p.Confidence)
	}

	prediction := &models.Prediction{
		Sentiment:      *p.Sentiment,
		SentimentValue: models.SentimentValue(*p.Sentiment),
		Confidence:     *p.Confidence,
		Text:           text,
		ModelType:      modelType,
	}
	if p.SentimentValue != nil {
		prediction.SentimentValue = int(*p.SentimentValue)
	}
	if p.Text != nil {
		prediction.Text = *p.Text
	}
	if p.ModelType != nil && *p.ModelType != "" {
		prediction.ModelType = *p.ModelType
	}
	return prediction, nil
}
