// Package aivalidate talks to the external slot validation service: a
// generative-AI endpoint that judges a requested slot against a doctor's
// existing bookings and proposes alternatives. It is a redundant, advisory
// path beside the deterministic availability filter; bookings never depend
// on it.
package aivalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrServiceUnavailable = errors.New("slot validation service unavailable")

type Request struct {
	DoctorID             string   `json:"doctorId"`
	PatientID            string   `json:"patientId"`
	RequestedSlot        string   `json:"requestedSlot"`
	ExistingAppointments []string `json:"existingAppointments"`
}

type Result struct {
	IsValid          bool     `json:"isValid"`
	AlternativeSlots []string `json:"alternativeSlots"`
	Reason           string   `json:"reason,omitempty"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Validate performs one stateless call. Every failure mode collapses into
// ErrServiceUnavailable: the caller surfaces a generic error and does not retry.
func (c *Client) Validate(ctx context.Context, req Request) (*Result, error) {
	if c.BaseURL == "" {
		return nil, ErrServiceUnavailable
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal validation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build validation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrServiceUnavailable, err)
	}

	return &result, nil
}
