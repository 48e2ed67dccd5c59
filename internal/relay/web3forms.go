package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/bytedance/sonic"

	"portfolio-contact/internal/config"
)

// Web3Forms posts submissions to a Web3Forms compatible endpoint, which
// forwards them by email.
type Web3Forms struct {
	URL       string
	AccessKey string
	Client    *http.Client
}

func NewWeb3Forms(cfg *config.Config, client *http.Client) *Web3Forms {
	if client == nil {
		client = http.DefaultClient
	}
	return &Web3Forms{
		URL:       cfg.RelayURL,
		AccessKey: cfg.RelayAccessKey,
		Client:    client,
	}
}

type web3FormsResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// Deliver sends p as a multipart form. A response body carrying a success
// flag is returned as a Result, except that an error status never counts
// as delivered; anything else is a transport error.
func (w *Web3Forms) Deliver(ctx context.Context, p Payload) (Result, error) {
	if w.AccessKey == "" {
		return Result{}, ErrMissingAccessKey
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := []struct{ key, value string }{
		{"name", p.Name},
		{"email", p.Email},
		{"message", p.Message},
		{"access_key", w.AccessKey},
	}
	for _, f := range fields {
		if err := writer.WriteField(f.key, f.value); err != nil {
			return Result{}, fmt.Errorf("write form field %s: %w", f.key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}

	var decoded web3FormsResponse
	if err := sonic.Unmarshal(respBody, &decoded); err != nil || decoded.Success == nil {
		if resp.StatusCode >= 400 {
			return Result{}, fmt.Errorf("relay error: %s - %s", resp.Status, string(respBody))
		}
		return Result{}, fmt.Errorf("relay returned an unreadable response (%s)", resp.Status)
	}
	if resp.StatusCode >= 400 && *decoded.Success {
		return Result{}, fmt.Errorf("relay error: %s - %s", resp.Status, string(respBody))
	}

	return Result{Success: *decoded.Success, Message: decoded.Message}, nil
}
