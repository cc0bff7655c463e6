package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/kilianp07/agvfleet/auth"
	corecatalog "github.com/kilianp07/agvfleet/core/catalog"
	"github.com/kilianp07/agvfleet/core/factory"
	"github.com/kilianp07/agvfleet/core/model"
)

// HTTPSource fetches a catalog document from a URL, optionally with an
// OAuth2 client-credentials token.
type HTTPSource struct {
	url    string
	format corecatalog.Format
	client *http.Client
	cred   *auth.ClientCred
}

type httpConf struct {
	URL            string    `json:"url"`
	Format         string    `json:"format"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	Auth           auth.Conf `json:"auth"`
}

// NewHTTPSource returns a source reading url. An empty format is taken from
// the response Content-Type, defaulting to JSON. cred may be nil.
func NewHTTPSource(url string, format corecatalog.Format, client *http.Client, cred *auth.ClientCred) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{url: url, format: format, client: client, cred: cred}
}

func newHTTPFromConf(conf map[string]any) (corecatalog.Source, error) {
	var c httpConf
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	if c.URL == "" {
		return nil, errors.New("http catalog: url is required")
	}
	format := corecatalog.Format(c.Format)
	if format != "" && format != corecatalog.FormatJSON && format != corecatalog.FormatYAML {
		return nil, fmt.Errorf("http catalog: unsupported format %q", c.Format)
	}
	timeout := 10 * time.Second
	if c.TimeoutSeconds > 0 {
		timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	var cred *auth.ClientCred
	if c.Auth.Enabled() {
		cred = auth.NewClientCred(c.Auth)
	}
	return NewHTTPSource(c.URL, format, &http.Client{Timeout: timeout}, cred), nil
}

// Load fetches and decodes the catalog.
func (s *HTTPSource) Load(ctx context.Context) (model.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml")
	if s.cred != nil {
		if err := s.cred.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("http catalog: %w", err)
		}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("http catalog: %s returned %s", s.url, resp.Status)
	}
	format := s.format
	if format == "" {
		format = formatFromContentType(resp.Header.Get("Content-Type"))
	}
	return corecatalog.Decode(resp.Body, format)
}

func formatFromContentType(ct string) corecatalog.Format {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return corecatalog.FormatJSON
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return corecatalog.FormatYAML
	default:
		return corecatalog.FormatJSON
	}
}
