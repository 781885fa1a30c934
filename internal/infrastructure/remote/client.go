package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/flowcraft/backend/internal/domain/shared"
	"github.com/flowcraft/backend/internal/infrastructure/logger"
)

// Collection ids in the remote document database.
const (
	CollectionIssues   = "issue"
	CollectionSprints  = "sprint"
	CollectionProjects = "project"
)

// uniqueID asks the backend to mint the document id on create.
const uniqueID = "unique()"

// HTTPClient is the subset of http.Client the gateway needs. It exists
// so tests can substitute a recording transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config identifies the remote backend project.
type Config struct {
	Endpoint   string
	ProjectID  string
	APIKey     string
	DatabaseID string
	Timeout    time.Duration
}

// Client talks to the remote backend's document and team APIs. All
// methods translate transport and protocol failures into the shared
// error taxonomy so callers never see raw HTTP details.
type Client struct {
	cfg        Config
	httpClient HTTPClient
	logger     *zap.Logger
}

// NewClient builds a gateway client. A nil httpClient falls back to a
// default client honoring cfg.Timeout.
func NewClient(cfg Config, httpClient HTTPClient, logger *zap.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, httpClient: httpClient, logger: logger}
}

// DocumentList is the envelope of a list response. Total counts matches
// across all pages, not just the returned slice.
type DocumentList struct {
	Total     int               `json:"total"`
	Documents []json.RawMessage `json:"documents"`
}

func (c *Client) collectionURL(collectionID string) string {
	return fmt.Sprintf("%s/v1/databases/%s/collections/%s/documents",
		c.cfg.Endpoint, c.cfg.DatabaseID, collectionID)
}

func (c *Client) documentURL(collectionID, documentID string) string {
	return c.collectionURL(collectionID) + "/" + url.PathEscape(documentID)
}

// ListDocuments fetches all documents matching the queries.
func (c *Client) ListDocuments(ctx context.Context, collectionID string, queries []Query) (DocumentList, error) {
	endpoint := c.collectionURL(collectionID)
	if len(queries) > 0 {
		params := url.Values{}
		for _, q := range queries {
			params.Add("queries[]", q.String())
		}
		endpoint += "?" + params.Encode()
	}

	var list DocumentList
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		c.logger.Error("document list failed",
			zap.String("collection", collectionID),
			zap.Error(err))
		return DocumentList{}, asRemoteError(err, shared.ErrRemoteFetch)
	}
	return list, nil
}

// GetDocument fetches one document by id into out.
func (c *Client) GetDocument(ctx context.Context, collectionID, documentID string, out any) error {
	err := c.do(ctx, http.MethodGet, c.documentURL(collectionID, documentID), nil, out)
	if err != nil {
		c.logger.Error("document get failed",
			zap.String("collection", collectionID),
			zap.String("document", documentID),
			zap.Error(err))
		return asRemoteError(err, shared.ErrRemoteFetch)
	}
	return nil
}

// CreateDocument stores data as a new document with a server-minted id
// and decodes the stored document into out.
func (c *Client) CreateDocument(ctx context.Context, collectionID string, data map[string]any, out any) error {
	body := map[string]any{
		"documentId": uniqueID,
		"data":       data,
	}
	if err := c.do(ctx, http.MethodPost, c.collectionURL(collectionID), body, out); err != nil {
		c.logger.Error("document create failed",
			zap.String("collection", collectionID),
			zap.Error(err))
		return asRemoteError(err, shared.ErrRemoteWrite)
	}
	return nil
}

// UpdateDocument applies a partial update. Attributes absent from data
// keep their stored values.
func (c *Client) UpdateDocument(ctx context.Context, collectionID, documentID string, data map[string]any, out any) error {
	body := map[string]any{"data": data}
	err := c.do(ctx, http.MethodPatch, c.documentURL(collectionID, documentID), body, out)
	if err != nil {
		c.logger.Error("document update failed",
			zap.String("collection", collectionID),
			zap.String("document", documentID),
			zap.Error(err))
		return asRemoteError(err, shared.ErrRemoteWrite)
	}
	return nil
}

// DeleteDocument removes a document by id.
func (c *Client) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	err := c.do(ctx, http.MethodDelete, c.documentURL(collectionID, documentID), nil, nil)
	if err != nil {
		c.logger.Error("document delete failed",
			zap.String("collection", collectionID),
			zap.String("document", documentID),
			zap.Error(err))
		return asRemoteError(err, shared.ErrRemoteWrite)
	}
	return nil
}

// statusError carries an HTTP status through to the error mapping.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.status, e.body)
}

// asRemoteError maps a transport failure to the domain error taxonomy.
// Missing documents keep their identity; everything else collapses into
// the fetch or write sentinel for the operation class.
func asRemoteError(err error, fallback *shared.DomainError) error {
	if se, ok := err.(*statusError); ok && se.status == http.StatusNotFound {
		return shared.ErrRemoteNotFound
	}
	return fallback
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Appwrite-Project", c.cfg.ProjectID)
	req.Header.Set("X-Appwrite-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if reqID := logger.GetRequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{status: resp.StatusCode, body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
