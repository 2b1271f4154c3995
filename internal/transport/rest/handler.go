/*
 * Copyright (c) 2025 AgriTrust
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/agritrust/api-core/internal/core/domain"
	"github.com/agritrust/api-core/internal/core/ports"
	"github.com/agritrust/api-core/internal/transport/rest/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
)

const maxUploadBytes = 16 << 20

type BatchHandler struct {
	service       ports.BatchService
	log           *slog.Logger
	publicBaseURL string
}

func NewBatchHandler(s ports.BatchService, log *slog.Logger, publicBaseURL string) *BatchHandler {
	return &BatchHandler{service: s, log: log, publicBaseURL: publicBaseURL}
}

// RegisterRoutes wires up the endpoints to the router
func (h *BatchHandler) RegisterRoutes(r chi.Router) {
	r.Post("/batches", h.RegisterBatch)
	r.Get("/batches", h.ListBatches)
	r.Get("/batches/{batchId}", h.GetBatch)
	r.Get("/batches/{batchId}/qr", h.GetQRCode)
}

// errorResponse is the uniform failure body. It never carries stack traces
// or credential material.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message, Details: details})
}

// RegisterBatch handles POST /batches.
// Accepts multipart/form-data (productName, quantity, unit, optional image)
// or a plain JSON body without an image.
func (h *BatchHandler) RegisterBatch(w http.ResponseWriter, r *http.Request) {
	// 1. Farmer identity from context (set by AuthMiddleware)
	accountID, ok := middleware.GetFarmerAccountID(r.Context())
	if !ok {
		// Should be caught by middleware, but safe guard here
		writeError(w, http.StatusUnauthorized, "Unauthorized", "missing farmer identity")
		return
	}
	farmer := domain.Identity{AccountID: accountID}

	// 2. Read the submission
	payload, image, err := readSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	// 3. Run the registration workflow
	batch, err := h.service.RegisterBatch(r.Context(), farmer, payload, image)
	if err != nil {
		h.writeServiceError(w, err, "Batch registration failed.")
		return
	}

	// 4. Respond
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(batch)
}

// ListBatches handles GET /batches
func (h *BatchHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetFarmerAccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "missing farmer identity")
		return
	}

	batches, err := h.service.ListBatches(r.Context(), domain.Identity{AccountID: accountID})
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch batches")
		return
	}
	if batches == nil {
		batches = []*domain.Batch{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(batches)
}

// GetBatch handles GET /batches/{batchId}
func (h *BatchHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetFarmerAccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "missing farmer identity")
		return
	}

	batchID := chi.URLParam(r, "batchId")
	batch, err := h.service.GetBatch(r.Context(), domain.Identity{AccountID: accountID}, batchID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch batch details")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(batch)
}

// GetQRCode handles GET /batches/{batchId}/qr and returns a PNG linking to
// the public trace page for the batch.
func (h *BatchHandler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchId")
	targetURL := fmt.Sprintf("%s/trace/%s", h.publicBaseURL, batchID)

	// Recovery Level M is standard for industrial labels
	png, err := qrcode.Encode(targetURL, qrcode.Medium, 256)
	if err != nil {
		h.log.Error("failed to generate qr", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate QR", "")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// readSubmission normalizes both intake formats into the JSON payload the
// service validates, plus the optional image.
func readSubmission(r *http.Request) ([]byte, *domain.ImageUpload, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read request body: %w", err)
		}
		defer r.Body.Close()
		return body, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("failed to parse form: %w", err)
	}

	doc := map[string]any{}
	if v := r.FormValue("productName"); v != "" {
		doc["productName"] = v
	}
	if v := r.FormValue("unit"); v != "" {
		doc["unit"] = v
	}
	if v := r.FormValue("productId"); v != "" {
		doc["productId"] = v
	}
	if v := r.FormValue("quantity"); v != "" {
		// Pass unparseable quantities through as-is so validation reports
		// them as an invalid quantity rather than a malformed body.
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			doc["quantity"] = n
		} else {
			doc["quantity"] = v
		}
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode form: %w", err)
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return payload, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}

	return payload, &domain.ImageUpload{Filename: header.Filename, Content: content}, nil
}

func (h *BatchHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, userMessage(err, domain.ErrInvalidInput), err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Batch not found or access denied", "")
	case errors.Is(err, domain.ErrConflict):
		h.log.Error("token identifier conflict", "error", err)
		writeError(w, http.StatusConflict, "Batch NFT already registered", err.Error())
	default:
		h.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}

// userMessage strips the sentinel prefix so the client sees the
// field-level message ("Invalid quantity"), not the taxonomy tag.
func userMessage(err error, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}
