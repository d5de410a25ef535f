// Package backend is the HTTP client for the loan-processing backend. It owns
// the two documented endpoints and the local fallbacks for their failures.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"loanflow/internal/common/config"
	stderrors "loanflow/internal/common/errors"
	httpclient "loanflow/internal/common/http"
	"loanflow/internal/common/logger"
	"loanflow/internal/common/metrics"
	"loanflow/internal/loan"
	"loanflow/internal/models"
)

// fallbackReply is the canned assistant reply synthesized when the backend is
// unreachable or returns a non-2xx status. Transport errors never propagate to
// the caller of Chat.
const fallbackReply = "Sorry, I'm having trouble connecting to the backend. Please try again."

// chatResponseSchema is checked before the response is trusted. A mismatch is
// diagnostic only; decoding still proceeds best effort.
const chatResponseSchema = `{
	"type": "object",
	"properties": {
		"success": {"type": "boolean"},
		"response": {"type": "string"},
		"result": {"type": "object"},
		"customer_id": {"type": "string"},
		"error": {"type": "string"}
	},
	"required": ["success"]
}`

// ChatRequest is the documented POST /api/chat body.
type ChatRequest struct {
	Message      string                 `json:"message"`
	CustomerID   *string                `json:"customer_id"`
	CustomerData map[string]interface{} `json:"customer_data"`
	Documents    []string               `json:"documents"`
}

// ChatResponse is the documented POST /api/chat reply.
type ChatResponse struct {
	Success    bool                   `json:"success"`
	Response   string                 `json:"response"`
	Result     map[string]interface{} `json:"result,omitempty"`
	CustomerID string                 `json:"customer_id,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

type Client struct {
	baseURL string
	http    *httpclient.Client
	logger  logger.Logger
	schema  *gojsonschema.Schema
}

func NewClient(cfg config.BackendConfig, log logger.Logger) *Client {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(chatResponseSchema))
	if err != nil {
		// The schema is a compile-time constant; a parse failure means a bad
		// edit, so surface it loudly but keep the client usable.
		log.Error("chat response schema invalid", map[string]interface{}{"error": err.Error()})
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpclient.NewClient(time.Duration(cfg.RequestTimeout) * time.Millisecond),
		logger:  log.WithFields(map[string]interface{}{"component": "backend-client"}),
		schema:  schema,
	}
}

// Chat sends one conversational turn. It never returns an error: transport and
// payload failures synthesize a failed ChatResponse with an apology text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) ChatResponse {
	if req.Documents == nil {
		req.Documents = []string{}
	}
	if req.CustomerData == nil {
		req.CustomerData = map[string]interface{}{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		c.logger.Error("chat request marshal failed", map[string]interface{}{"error": err.Error()})
		return ChatResponse{Success: false, Response: fallbackReply}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		c.logger.Error("chat request build failed", map[string]interface{}{"error": err.Error()})
		return ChatResponse{Success: false, Response: fallbackReply}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.recordFailure("/api/chat", stderrors.NewTransportError("/api/chat", err))
		return ChatResponse{Success: false, Response: fallbackReply}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.recordFailure("/api/chat", stderrors.NewTransportError("/api/chat", fmt.Errorf("status %d", resp.StatusCode)))
		return ChatResponse{Success: false, Response: fallbackReply}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure("/api/chat", stderrors.NewTransportError("/api/chat", err))
		return ChatResponse{Success: false, Response: fallbackReply}
	}

	c.checkShape(payload)

	var chatResp ChatResponse
	if err := json.Unmarshal(payload, &chatResp); err != nil {
		c.logger.Warn("chat response decode failed", map[string]interface{}{
			"error": stderrors.NewMalformedPayloadError(err.Error()).Error(),
		})
		return ChatResponse{Success: false, Response: fallbackReply}
	}

	if chatResp.Response == "" {
		if chatResp.Success {
			chatResp.Response = "Processing completed."
		} else {
			chatResp.Response = fallbackReply
		}
	}
	return chatResp
}

// checkShape validates the raw payload against the documented schema. Schema
// violations are logged as malformed payloads and otherwise ignored.
func (c *Client) checkShape(payload []byte) {
	if c.schema == nil {
		return
	}
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil || result.Valid() {
		return
	}
	descs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		descs[i] = desc.String()
	}
	c.logger.Warn("chat response shape mismatch", map[string]interface{}{
		"violations": descs,
	})
}

// wireApplication is the Application shape the backend list endpoint returns.
// Amounts arrive pre-formatted; parsing them back is deliberately forgiving.
type wireApplication struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Status   string `json:"status"`
	Date     string `json:"date"`
	Progress int    `json:"progress"`
	Type     string `json:"type"`
	Email    string `json:"email"`
}

// ListApplications fetches the server-side application list. Failures return
// an error so the caller can fall back to its local ledger.
func (c *Client) ListApplications(ctx context.Context) ([]models.Application, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/applications", nil)
	if err != nil {
		return nil, stderrors.NewTransportError("/api/applications", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.recordFailure("/api/applications", err)
		return nil, stderrors.NewTransportError("/api/applications", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("status %d", resp.StatusCode)
		c.recordFailure("/api/applications", statusErr)
		return nil, stderrors.NewTransportError("/api/applications", statusErr)
	}

	var body struct {
		Applications []wireApplication `json:"applications"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, stderrors.NewMalformedPayloadError(err.Error())
	}

	apps := make([]models.Application, 0, len(body.Applications))
	for _, w := range body.Applications {
		apps = append(apps, c.fromWire(w))
	}
	return apps, nil
}

// fromWire normalizes one backend record, defaulting whatever is missing or
// inconsistent rather than rejecting the entry.
func (c *Client) fromWire(w wireApplication) models.Application {
	amount, err := loan.ParseINR(w.Amount)
	if err != nil {
		c.logger.Debug("unparseable amount on wire record", map[string]interface{}{
			"applicationId": w.ID,
			"amount":        w.Amount,
		})
		amount = 0
	}

	progress := w.Progress
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	status := models.Status(w.Status)
	if !status.Valid() {
		status = loan.StatusForProgress(progress)
	}

	loanType := w.Type
	if loanType != "" && !hasLoanSuffix(loanType) {
		loanType = loan.NormalizeType(loanType)
	}

	return models.Application{
		ID:          w.ID,
		Name:        w.Name,
		AmountMinor: amount,
		Currency:    "INR",
		Type:        loanType,
		Status:      status,
		Progress:    progress,
		Date:        w.Date,
		Email:       w.Email,
	}
}

func hasLoanSuffix(t string) bool {
	return len(t) >= 5 && t[len(t)-5:] == " Loan"
}

func (c *Client) recordFailure(endpoint string, err error) {
	metrics.BackendFailuresTotal.WithLabelValues(endpoint).Inc()
	c.logger.Warn("backend call failed, falling back locally", map[string]interface{}{
		"endpoint": endpoint,
		"error":    err.Error(),
	})
}
