package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"talentmatch/internal/entity"
)

// IPAPILocationResolver looks an address up on ip-api.com. The call is
// bounded by a short timeout and every failure collapses to the
// "unavailable" sentinel, so a slow or dead geo service cannot slow a login.
type IPAPILocationResolver struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewIPAPILocationResolver() *IPAPILocationResolver {
	return &IPAPILocationResolver{
		HTTPClient: &http.Client{Timeout: 3 * time.Second},
		BaseURL:    "http://ip-api.com/json",
	}
}

type ipAPIResponse struct {
	Status  string `json:"status"`
	City    string `json:"city"`
	Region  string `json:"regionName"`
	Country string `json:"country"`
}

func (r *IPAPILocationResolver) Resolve(ctx context.Context, ip string) string {
	if strings.TrimSpace(ip) == "" {
		return entity.LocationUnavailable
	}
	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(r.BaseURL, "/")+"/"+ip, nil)
	if err != nil {
		return entity.LocationUnavailable
	}
	response, err := client.Do(request)
	if err != nil {
		return entity.LocationUnavailable
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return entity.LocationUnavailable
	}
	var parsed ipAPIResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return entity.LocationUnavailable
	}
	if parsed.Status != "success" {
		return entity.LocationUnavailable
	}
	parts := make([]string, 0, 3)
	for _, part := range []string{parsed.City, parsed.Region, parsed.Country} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return entity.LocationUnavailable
	}
	return strings.Join(parts, ", ")
}

// NullLocationResolver always reports the sentinel. Used in tests and when
// geo lookup is disabled.
type NullLocationResolver struct{}

func (NullLocationResolver) Resolve(ctx context.Context, ip string) string {
	return entity.LocationUnavailable
}
