package plugnotas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.plugnotas.com.br"

// pageSize is the quantidade parameter sent on period queries.
const pageSize = 50

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the PlugNotas NFSe API. Construct once and inject; it is
// safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchPeriod returns one page of notes issued to the given recipient CNPJ
// within [from, to]. Pass the token from the previous page to continue;
// traversal is complete when the returned token is empty.
func (c *Client) FetchPeriod(ctx context.Context, cnpj string, from, to time.Time, pageToken string) (Page, error) {
	digits := digitsOnly(cnpj)

	params := url.Values{}
	params.Set("dataInicial", from.Format(time.DateOnly))
	params.Set("dataFinal", to.Format(time.DateOnly))
	params.Set("ator", "2")
	params.Set("quantidade", fmt.Sprintf("%d", pageSize))

	if pageToken != "" {
		params.Set("hashProximaPagina", pageToken)
	}

	endpoint := fmt.Sprintf("%s/nfse/nacional/%s/consultar/periodo?%s", c.baseURL, digits, params.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return Page{}, err
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return Page{}, fmt.Errorf("decoding period page: %w", err)
	}

	return page, nil
}

// FetchByID looks up a single note by its source id.
func (c *Client) FetchByID(ctx context.Context, id string) (*RawNote, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/nfse/%s", c.baseURL, url.PathEscape(id)))
	if err != nil {
		return nil, err
	}

	var note RawNote
	if err := json.Unmarshal(body, &note); err != nil {
		return nil, fmt.Errorf("decoding note %s: %w", id, err)
	}

	return &note, nil
}

// Search finds a note by document number and issuer when the source id is
// unknown. Returns the first hit, or ErrDocumentNotFound.
func (c *Client) Search(ctx context.Context, number, issuerCNPJ, recipientCNPJ string) (*RawNote, error) {
	params := url.Values{}
	params.Set("numero", number)
	params.Set("cnpjPrestador", digitsOnly(issuerCNPJ))

	if recipientCNPJ != "" {
		params.Set("cnpjTomador", digitsOnly(recipientCNPJ))
	}

	body, err := c.get(ctx, fmt.Sprintf("%s/nfse?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	var notes []RawNote
	if err := json.Unmarshal(body, &notes); err != nil {
		return nil, fmt.Errorf("decoding search result: %w", err)
	}

	if len(notes) == 0 {
		return nil, fmt.Errorf("searching note %s/%s: %w", number, issuerCNPJ, ErrDocumentNotFound)
	}

	return &notes[0], nil
}

// DocumentURL returns the download URL for a note attachment, preferring the
// URL embedded in the payload over the generated API endpoint.
func (c *Client) DocumentURL(note *RawNote, kind DocumentKind) string {
	raw := note.PDF
	if kind == DocumentXML {
		raw = note.XML
	}

	if u := documentURL(raw); u != "" {
		return u
	}

	return fmt.Sprintf("%s/nfse/%s/%s", c.baseURL, kind, note.ID)
}

// FetchBinary downloads a PDF or XML document. A timeout or non-200 response
// is a recoverable per-document failure.
func (c *Client) FetchBinary(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, ErrSourceUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, ErrSourceUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetching %s: %w", endpoint, ErrDocumentNotFound)
	default:
		return nil, fmt.Errorf("fetching %s: status %d: %w", endpoint, resp.StatusCode, ErrSourceUnavailable)
	}
}

func digitsOnly(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
