// ABOUTME: OpenLibrary client with rate-limit backoff and title normalization
// ABOUTME: "No match" and non-429 HTTP failures are results, not errors
package enrich

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stacksapp/stacks/internal/models"
)

const (
	defaultBaseURL = "https://openlibrary.org"
	userAgent      = "Stacks/1.0 (https://github.com/stacksapp/stacks)"

	// CourtesyDelay is the minimum delay between independent catalog
	// requests, observed regardless of backoff state.
	CourtesyDelay = 250 * time.Millisecond

	maxRetries     = 5
	maxSubjects    = 20
	defaultTimeout = 10 * time.Second
)

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	subtitleRe      = regexp.MustCompile(`:.*$`)
)

// Client queries the OpenLibrary catalog by title and author.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

// NewClient creates an OpenLibrary client. A non-positive timeout falls
// back to defaultTimeout.
func NewClient(timeout time.Duration) *Client {
	c := NewClientWithBaseURL(defaultBaseURL)
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// NewClientWithBaseURL creates a client against a custom catalog endpoint
// (for testing).
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		sleep:      time.Sleep,
	}
}

// Search looks up a book by normalized title and primary author, falling
// back to a title-only search. Returns (nil, nil) when the catalog has no
// match; a gap in bibliographic data is expected, not exceptional.
func (c *Client) Search(title string, authors []string) (*models.Enrichment, error) {
	cleanTitle := normalizeTitle(title)

	if len(authors) > 0 {
		author := normalizeAuthor(authors[0])
		result, err := c.searchAPI(cleanTitle, author)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	return c.searchAPI(cleanTitle, "")
}

// searchDoc is one result from the OpenLibrary search endpoint.
type searchDoc struct {
	Key              string   `json:"key"`
	Subject          []string `json:"subject"`
	ISBN             []string `json:"isbn"`
	FirstPublishYear *int     `json:"first_publish_year"`
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

func (c *Client) searchAPI(title, author string) (*models.Enrichment, error) {
	query := url.Values{}
	query.Set("title", title)
	query.Set("limit", "5")
	query.Set("fields", "key,title,author_name,subject,isbn,first_publish_year")
	if author != "" {
		query.Set("author", author)
	}

	resp, err := c.requestWithBackoff(c.baseURL + "/search.json?" + query.Encode())
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	defer func() { _ = resp.Body.Close() }()

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if len(data.Docs) == 0 {
		return nil, nil
	}

	doc := data.Docs[0]

	subjects := doc.Subject
	if len(subjects) > maxSubjects {
		subjects = subjects[:maxSubjects]
	}
	if subjects == nil {
		subjects = []string{}
	}

	isbn := ""
	if len(doc.ISBN) > 0 {
		isbn = doc.ISBN[0]
	}

	// The description lives on the work record, fetched second. A failure
	// here still returns the match with an empty description rather than
	// discarding it.
	description := ""
	if doc.Key != "" {
		c.sleep(CourtesyDelay)
		description = c.workDescription(doc.Key)
	}

	return &models.Enrichment{
		OpenLibraryKey: doc.Key,
		Description:    description,
		Subjects:       subjects,
		ISBN:           isbn,
		PublishYear:    doc.FirstPublishYear,
	}, nil
}

// workDescription fetches the free-text description for a work key. Any
// failure degrades to an empty string.
func (c *Client) workDescription(workKey string) string {
	resp, err := c.requestWithBackoff(c.baseURL + workKey + ".json")
	if err != nil || resp == nil {
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	// description is either a plain string or {"type": ..., "value": ...}
	var data struct {
		Description json.RawMessage `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return ""
	}
	if len(data.Description) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(data.Description, &asString); err == nil {
		return asString
	}
	var asObject struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data.Description, &asObject); err == nil {
		return asObject.Value
	}
	return ""
}

// requestWithBackoff performs a GET with exponential backoff on 429 and
// transient transport errors, up to maxRetries attempts. 429 honors a
// Retry-After header when present, else starts at one second, doubling
// each subsequent attempt. Returns (nil, nil) when the catalog answered
// with a non-success status or all retries were exhausted.
func (c *Client) requestWithBackoff(rawURL string) (*http.Response, error) {
	delay := time.Second

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequest(http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("catalog request failed: %w", err)
			}
			c.sleep(delay)
			delay *= 2

		case resp.StatusCode == http.StatusTooManyRequests:
			if retry := resp.Header.Get("Retry-After"); retry != "" {
				if secs, err := strconv.Atoi(retry); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			c.sleep(delay)
			delay *= 2

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		default:
			_ = resp.Body.Close()
			return nil, nil
		}
	}

	return nil, nil
}

// normalizeTitle strips trailing parenthetical series annotations and
// colon subtitles for API search.
func normalizeTitle(title string) string {
	cleaned := parentheticalRe.ReplaceAllString(title, "")
	return strings.TrimSpace(subtitleRe.ReplaceAllString(cleaned, ""))
}

// normalizeAuthor converts "Last, First" to "First Last".
func normalizeAuthor(author string) string {
	if last, first, found := strings.Cut(author, ","); found {
		return strings.TrimSpace(first) + " " + strings.TrimSpace(last)
	}
	return strings.TrimSpace(author)
}
