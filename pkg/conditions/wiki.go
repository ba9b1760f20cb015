// Package conditions looks up plain-language descriptions of the adverse
// conditions that appear in interaction records.
package conditions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/synaptica-ai/twosides-bridge/pkg/common/httpclient"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
)

// NoData is returned when no article describes the condition.
const NoData = "No data found"

const DefaultBaseURL = "https://en.wikipedia.org"

type Describer interface {
	Describe(ctx context.Context, name string) (string, error)
}

// WikiClient reads the introduction of the Wikipedia article for a condition.
type WikiClient struct {
	baseURL  string
	client   *http.Client
	attempts int
	log      *logrus.Entry
}

func NewWikiClient(baseURL string, timeout time.Duration) *WikiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &WikiClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   httpclient.New(timeout),
		attempts: 3,
		log:      logger.Component("conditions"),
	}
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string  `json:"title"`
			Extract string  `json:"extract"`
			Missing *string `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *WikiClient) apiURL(name string) string {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("prop", "extracts")
	q.Set("exintro", "true")
	q.Set("explaintext", "true")
	q.Set("redirects", "1")
	q.Set("titles", name)
	return c.baseURL + "/w/api.php?" + q.Encode()
}

// URL is the human-readable article link for name.
func (c *WikiClient) URL(name string) string {
	return c.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// Describe returns the first paragraph of the article introduction, or NoData
// when the article does not exist or has no text.
func (c *WikiClient) Describe(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoData, nil
	}

	var body extractResponse
	err := httpclient.Retry(ctx, c.attempts, 200*time.Millisecond, func() error {
		return c.fetch(ctx, c.apiURL(name), &body)
	})
	if err != nil {
		c.log.WithError(err).WithField("condition", name).Warn("condition lookup failed")
		return "", fmt.Errorf("describing %q: %w", name, err)
	}

	for _, page := range body.Query.Pages {
		if page.Missing != nil {
			continue
		}
		if p := firstParagraph(page.Extract); p != "" {
			return p, nil
		}
	}
	return NoData, nil
}

func (c *WikiClient) fetch(ctx context.Context, target string, into *extractResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpclient.StatusError{URL: target, Status: resp.StatusCode}
	}
	*into = extractResponse{}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decoding extract: %w", err)
	}
	return nil
}

func firstParagraph(extract string) string {
	for _, line := range strings.Split(extract, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
