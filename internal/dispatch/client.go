package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/gridware/internal/compile"
	"github.com/vk/gridware/internal/ctxlog"
	"resty.dev/v3"
)

var (
	// ErrBlockingDiagnostics is returned when the result carries errors.
	ErrBlockingDiagnostics = errors.New("dispatch: request has blocking errors")

	// ErrUnconfirmedWarnings is returned when the result carries warnings
	// and the client was not built with WithAcknowledgedWarnings.
	ErrUnconfirmedWarnings = errors.New("dispatch: request has unacknowledged warnings")
)

// Client submits compiled requests to one backend.
type Client struct {
	rc          *resty.Client
	clientID    string
	ackWarnings bool
}

// Option configures a Client.
type Option func(*Client)

// WithAcknowledgedWarnings marks advisory warnings as confirmed by the
// caller, allowing submission despite them.
func WithAcknowledgedWarnings() Option {
	return func(c *Client) { c.ackWarnings = true }
}

// WithClientID overrides the generated client id sent with every request.
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// WithTimeout bounds each submission round-trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.rc.SetTimeout(d) }
}

// New returns a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		rc:       resty.New().SetBaseURL(baseURL),
		clientID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.rc.Close()
}

// submission is the wire form of one request.
type submission struct {
	ClientID string              `json:"client_id"`
	Prompt   map[string]wireNode `json:"prompt"`
}

type wireNode struct {
	ClassType string         `json:"class_type"`
	Inputs    map[string]any `json:"inputs"`
}

// acceptance is the backend's reply to an accepted submission.
type acceptance struct {
	PromptID string `json:"prompt_id"`
}

// Submit posts the compiled request graph to the backend and returns the
// backend-assigned prompt id.
func (c *Client) Submit(ctx context.Context, result *compile.Result) (string, error) {
	logger := ctxlog.FromContext(ctx)

	if !result.OK() {
		return "", fmt.Errorf("%w: %d error(s), first: %s", ErrBlockingDiagnostics, len(result.Errors), result.Errors[0])
	}
	if len(result.Warnings) > 0 && !c.ackWarnings {
		return "", fmt.Errorf("%w: %d warning(s), first: %s", ErrUnconfirmedWarnings, len(result.Warnings), result.Warnings[0].Message)
	}

	body := submission{ClientID: c.clientID, Prompt: wirePrompt(result)}
	var accepted acceptance

	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&accepted).
		Post("/prompt")
	if err != nil {
		return "", fmt.Errorf("failed to submit request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("backend rejected request: %s: %s", resp.Status(), resp.String())
	}

	logger.Info("Request accepted by backend.", "prompt_id", accepted.PromptID, "nodes", len(result.Graph))
	return accepted.PromptID, nil
}

// wirePrompt converts the compiled graph into its JSON shape: connection
// references become [sourceNodeId, outputIndex] pairs, connection lists an
// array of pairs, literals pass through.
func wirePrompt(result *compile.Result) map[string]wireNode {
	prompt := make(map[string]wireNode, len(result.Graph))
	for id, node := range result.Graph {
		inputs := make(map[string]any, len(node.Inputs))
		for name, value := range node.Inputs {
			switch v := value.(type) {
			case compile.ConnectionRef:
				inputs[name] = wireRef(v)
			case []compile.ConnectionRef:
				refs := make([]any, len(v))
				for i, r := range v {
					refs[i] = wireRef(r)
				}
				inputs[name] = refs
			default:
				inputs[name] = v
			}
		}
		prompt[id] = wireNode{ClassType: node.Type, Inputs: inputs}
	}
	return prompt
}

func wireRef(r compile.ConnectionRef) []any {
	return []any{r.NodeID, r.OutputIndex}
}
