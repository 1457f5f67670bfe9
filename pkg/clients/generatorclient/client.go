// Package generatorclient talks to the external schedule-generation service.
// The service is an opaque producer of candidate shifts; its output is fed
// back into the compliance core for validation.
package generatorclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an HTTP client for the generator service
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a generator client for the given base URL and API key
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GenerateEmployee is the employee payload the generator expects
type GenerateEmployee struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	EmploymentType string  `json:"employment_type"`
	RequiredHours  float64 `json:"required_hours"`
	TemplateIDs    []string `json:"template_ids,omitempty"`
}

// GenerateTemplate is the shift-template payload the generator expects
type GenerateTemplate struct {
	ID           string `json:"id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
	MinEmployees int    `json:"min_employees"`
	MaxEmployees *int   `json:"max_employees,omitempty"`
	Weekdays     []int  `json:"weekdays,omitempty"`
}

// GenerateSettings carries generation tuning options through unchanged
type GenerateSettings map[string]any

// GenerateRequest is the body of POST /api/generate
type GenerateRequest struct {
	Employees      []GenerateEmployee `json:"employees"`
	Templates      []GenerateTemplate `json:"templates"`
	Settings       GenerateSettings   `json:"settings"`
	Holidays       []string           `json:"holidays"`
	WorkDays       []string           `json:"work_days"`
	SaturdayDays   []string           `json:"saturday_days"`
	TradingSundays []string           `json:"trading_sundays"`
	Year           int                `json:"year"`
	Month          int                `json:"month"`
}

// GeneratedShift is one shift proposed by the generator
type GeneratedShift struct {
	EmployeeID   string `json:"employee_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
	TemplateID   string `json:"template_id,omitempty"`
}

// GenerateDetails reports the hour balance of a generation attempt
type GenerateDetails struct {
	RequiredHours  float64 `json:"required_hours"`
	AvailableHours float64 `json:"available_hours"`
	Shortage       float64 `json:"shortage"`
}

// GenerateResponse is the body returned by POST /api/generate
type GenerateResponse struct {
	Success  bool             `json:"success"`
	Schedule []GeneratedShift `json:"schedule,omitempty"`
	Error    string           `json:"error,omitempty"`
	Details  *GenerateDetails `json:"details,omitempty"`
}

// Generate calls POST /api/generate and returns the proposed schedule.
// A transport failure, non-2xx status or success=false response is an error;
// the hour-balance details are wrapped into the error message when present.
func (c *Client) Generate(ctx context.Context, request GenerateRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generator request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generator response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d: %s", resp.StatusCode, string(data))
	}

	var result GenerateResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode generator response: %w", err)
	}

	if !result.Success {
		if result.Details != nil {
			return nil, fmt.Errorf("generation failed: %s (required %.1fh, available %.1fh, shortage %.1fh)",
				result.Error, result.Details.RequiredHours, result.Details.AvailableHours, result.Details.Shortage)
		}
		return nil, fmt.Errorf("generation failed: %s", result.Error)
	}

	return &result, nil
}
