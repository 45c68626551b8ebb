// Package pubmed retrieves PubMed abstracts through the NCBI E-utilities
// API (esearch for IDs, efetch for abstract XML).
//
// Unlike the trials lookup, this retriever may fail hard: errors
// propagate to the caller, which handles emptiness (not failure) through
// its refinement loop.
package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/randalmurphal/medflow"
	"github.com/randalmurphal/medflow/httpx"
)

// E-utilities defaults.
const (
	DefaultBaseURL    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultMaxResults = 20
)

// Config configures the PubMed client.
type Config struct {
	BaseURL    string // Default: DefaultBaseURL
	MaxResults int    // Default: DefaultMaxResults
	APIKey     string // Optional NCBI API key (raises rate limits)
}

// Client implements medflow.Retriever against PubMed.
type Client struct {
	http       *httpx.Client
	maxResults int
	apiKey     string
}

// NewClient creates a PubMed retriever.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	return &Client{
		http: httpx.NewClient(httpx.ClientConfig{
			BaseURL:     baseURL,
			ServiceName: "pubmed",
		}),
		maxResults: maxResults,
		apiKey:     cfg.APIKey,
	}
}

// esearch response shape (JSON).
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// efetch response shape (XML). Only the fields the ranker and
// summarizer need.
type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			ArticleTitle string `xml:"ArticleTitle"`
			Abstract     struct {
				Texts []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Journal struct {
				JournalIssue struct {
					PubDate struct {
						Year        string `xml:"Year"`
						MedlineDate string `xml:"MedlineDate"`
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			PublicationTypeList struct {
				Types []string `xml:"PublicationType"`
			} `xml:"PublicationTypeList"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

// Search implements medflow.Retriever. It returns documents in retrieval
// order with a positional score; callers re-rank with their own
// heuristic.
func (c *Client) Search(ctx context.Context, query string) ([]medflow.Document, error) {
	ids, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []medflow.Document{}, nil
	}
	return c.fetch(ctx, ids)
}

// search runs esearch and returns matching PMIDs.
func (c *Client) search(ctx context.Context, query string) ([]string, error) {
	path := fmt.Sprintf("/esearch.fcgi?db=pubmed&term=%s&retmax=%d&retmode=json%s",
		url.QueryEscape(query), c.maxResults, c.keyParam())

	var decoded esearchResponse
	if err := c.http.Get(ctx, path, &decoded); err != nil {
		return nil, fmt.Errorf("pubmed search: %w", err)
	}
	return decoded.ESearchResult.IDList, nil
}

// fetch runs efetch for the given PMIDs and parses abstracts.
func (c *Client) fetch(ctx context.Context, ids []string) ([]medflow.Document, error) {
	path := fmt.Sprintf("/efetch.fcgi?db=pubmed&id=%s&rettype=abstract&retmode=xml%s",
		strings.Join(ids, ","), c.keyParam())

	raw, err := c.http.GetRaw(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("pubmed fetch: %w", err)
	}

	var set articleSet
	if err := xml.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("pubmed fetch: parse: %w", err)
	}

	docs := make([]medflow.Document, 0, len(set.Articles))
	total := len(set.Articles)
	for i, article := range set.Articles {
		docs = append(docs, medflow.Document{
			PMID:            article.MedlineCitation.PMID,
			Content:         articleContent(article),
			IsClinicalTrial: isClinicalTrial(article),
			Year:            articleYear(article),
			// Positional retriever score, best match first.
			Score: float64(total-i) / float64(total),
		})
	}
	return docs, nil
}

func (c *Client) keyParam() string {
	if c.apiKey == "" {
		return ""
	}
	return "&api_key=" + url.QueryEscape(c.apiKey)
}

// articleContent joins title and abstract paragraphs.
func articleContent(a pubmedArticle) string {
	parts := []string{a.MedlineCitation.Article.ArticleTitle}
	parts = append(parts, a.MedlineCitation.Article.Abstract.Texts...)

	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// isClinicalTrial checks the publication type list.
func isClinicalTrial(a pubmedArticle) bool {
	for _, t := range a.MedlineCitation.Article.PublicationTypeList.Types {
		if strings.Contains(strings.ToLower(t), "clinical trial") {
			return true
		}
	}
	return false
}

// articleYear extracts the publication year, tolerating MedlineDate
// ranges like "2023 Jan-Feb". Unparseable dates yield 0.
func articleYear(a pubmedArticle) int {
	date := a.MedlineCitation.Article.Journal.JournalIssue.PubDate
	if date.Year != "" {
		if y, err := strconv.Atoi(date.Year); err == nil {
			return y
		}
	}
	if len(date.MedlineDate) >= 4 {
		if y, err := strconv.Atoi(date.MedlineDate[:4]); err == nil {
			return y
		}
	}
	return 0
}
