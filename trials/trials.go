// Package trials looks up clinical-trial records from the
// ClinicalTrials.gov registry.
//
// The lookup is best-effort by design: a 20 second deadline bounds the
// call, and any failure (network, timeout, malformed payload) surfaces as
// an error the caller degrades to an empty result. Individual missing
// fields inside a study never fail the fetch; they default to empty
// strings or lists.
package trials

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/randalmurphal/medflow/httpx"
)

// Registry defaults.
const (
	DefaultBaseURL = "https://clinicaltrials.gov/api/query"
	DefaultTimeout = 20 * time.Second

	// MaxRecords is the fixed page window requested from the registry
	// (ranks 1 through MaxRecords).
	MaxRecords = 5

	// DefaultCacheTTL is how long successful lookups are reused.
	DefaultCacheTTL = 10 * time.Minute
)

// Record is a summarized clinical-trial entry.
type Record struct {
	Title          string   `json:"title"`
	Status         string   `json:"status"`
	Phase          []string `json:"phase"`
	StartDate      string   `json:"start_date"`
	CompletionDate string   `json:"completion_date"`
}

// Config configures the registry client.
type Config struct {
	BaseURL  string        // Default: DefaultBaseURL
	Timeout  time.Duration // Default: DefaultTimeout
	CacheTTL time.Duration // Default: DefaultCacheTTL; < 0 disables caching
}

// Client fetches trial records over the full_studies endpoint.
type Client struct {
	http  *httpx.Client
	cache *gocache.Cache
}

// NewClient creates a registry client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var cache *gocache.Cache
	if cfg.CacheTTL >= 0 {
		ttl := cfg.CacheTTL
		if ttl == 0 {
			ttl = DefaultCacheTTL
		}
		cache = gocache.New(ttl, 2*ttl)
	}

	return &Client{
		http: httpx.NewClient(httpx.ClientConfig{
			Client:      &http.Client{Timeout: timeout},
			BaseURL:     baseURL,
			ServiceName: "clinicaltrials",
			MaxRetries:  1, // transport-level retries off; callers degrade instead
		}),
		cache: cache,
	}
}

// Wire shape of the full_studies response, navigated at fixed nested
// paths. Every field is optional; absent levels decode to zero values.
type fullStudiesResponse struct {
	FullStudiesResponse struct {
		FullStudies []struct {
			Study struct {
				ProtocolSection struct {
					IdentificationModule struct {
						OfficialTitle string `json:"OfficialTitle"`
					} `json:"IdentificationModule"`
					StatusModule struct {
						OverallStatus   string `json:"OverallStatus"`
						StartDateStruct struct {
							StartDate string `json:"StartDate"`
						} `json:"StartDateStruct"`
						CompletionDateStruct struct {
							CompletionDate string `json:"CompletionDate"`
						} `json:"CompletionDateStruct"`
					} `json:"StatusModule"`
					DesignModule struct {
						PhaseList struct {
							Phase []string `json:"Phase"`
						} `json:"PhaseList"`
					} `json:"DesignModule"`
				} `json:"ProtocolSection"`
			} `json:"Study"`
		} `json:"FullStudies"`
	} `json:"FullStudiesResponse"`
}

// Search fetches up to MaxRecords trial records matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]Record, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(query); ok {
			return cached.([]Record), nil
		}
	}

	path := fmt.Sprintf("/full_studies?expr=%s&min_rnk=1&max_rnk=%d&fmt=json",
		url.QueryEscape(query), MaxRecords)

	var decoded fullStudiesResponse
	if err := c.http.Get(ctx, path, &decoded); err != nil {
		return nil, fmt.Errorf("trials search: %w", err)
	}

	studies := decoded.FullStudiesResponse.FullStudies
	records := make([]Record, 0, len(studies))
	for i, study := range studies {
		if i >= MaxRecords {
			break
		}
		proto := study.Study.ProtocolSection
		records = append(records, Record{
			Title:          proto.IdentificationModule.OfficialTitle,
			Status:         proto.StatusModule.OverallStatus,
			Phase:          proto.DesignModule.PhaseList.Phase,
			StartDate:      proto.StatusModule.StartDateStruct.StartDate,
			CompletionDate: proto.StatusModule.CompletionDateStruct.CompletionDate,
		})
	}

	if c.cache != nil {
		c.cache.Set(query, records, gocache.DefaultExpiration)
	}
	return records, nil
}
