/*
 * Copyright (c) 2025 AgriTrust
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-21
 * Change License: AGPL-3.0
 */

package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/agritrust/api-core/internal/core/ports"
)

const (
	defaultAPIBase    = "https://api.pinata.cloud"
	defaultGatewayURL = "ipfs://"
)

// PinataStore pins content to IPFS through the Pinata pinning API under the
// platform's credentials. It never retries; the registration workflow
// treats every pin as a single best-effort attempt.
type PinataStore struct {
	apiBase    string
	gatewayURL string
	jwt        string
	httpClient *http.Client
}

var _ ports.ContentStore = (*PinataStore)(nil)

type Config struct {
	JWT        string
	APIBase    string // override for tests
	GatewayURL string // URL prefix CIDs resolve under, default "ipfs://"
}

func NewPinataStore(cfg Config) *PinataStore {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	gatewayURL := cfg.GatewayURL
	if gatewayURL == "" {
		gatewayURL = defaultGatewayURL
	}
	return &PinataStore{
		apiBase:    apiBase,
		gatewayURL: gatewayURL,
		jwt:        cfg.JWT,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinFile uploads raw bytes via pinFileToIPFS and returns the CID.
func (p *PinataStore) PinFile(ctx context.Context, name string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	return p.pin(ctx, "/pinning/pinFileToIPFS", writer.FormDataContentType(), &body)
}

// PinJSON uploads a JSON document via pinJSONToIPFS and returns the CID.
func (p *PinataStore) PinJSON(ctx context.Context, name string, doc any) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"pinataContent":  doc,
		"pinataMetadata": map[string]string{"name": name},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode pin request: %w", err)
	}

	return p.pin(ctx, "/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(payload))
}

func (p *PinataStore) GatewayURL(cid string) string {
	if strings.HasSuffix(p.gatewayURL, "/") || strings.HasSuffix(p.gatewayURL, "://") {
		return p.gatewayURL + cid
	}
	return p.gatewayURL + "/" + cid
}

func (p *PinataStore) pin(ctx context.Context, path string, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to build pin request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+p.jwt)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pin request returned %d: %s", resp.StatusCode, string(detail))
	}

	var pinned pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("pin response carried no content id")
	}
	return pinned.IpfsHash, nil
}
