package adnetwork

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"adhub/internal/domain"
)

const maxResponseBytes = 1 << 20

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// requester posts JSON and turns non-2xx responses into UpstreamErrors using
// the network's error envelope.
type requester struct {
	provider string
	http     *http.Client
	errMsg   func(body []byte) string
}

func (r *requester) postJSON(ctx context.Context, endpoint string, headers http.Header, in interface{}) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", r.provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: r.provider, Message: err.Error()}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.UpstreamError{Provider: r.provider, Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := r.errMsg(body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &domain.UpstreamError{Provider: r.provider, Status: resp.StatusCode, Message: msg}
	}
	return body, nil
}

func (r *requester) decode(body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.UpstreamError{Provider: r.provider, Message: "unexpected response: " + err.Error()}
	}
	return nil
}

// nestedErrorMessage reads {"error":{"message":...}}, used by Facebook and Google.
func nestedErrorMessage(body []byte) string {
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	return env.Error.Message
}
