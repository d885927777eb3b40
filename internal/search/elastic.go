package search

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the package logger with the application log level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// maxResultWindow is the largest page Elasticsearch serves without scrolling
const maxResultWindow = 10000

// ElasticConfig holds the connection settings of an Elasticsearch cluster
type ElasticConfig struct {
	// Elastic Cloud deployment, authenticated with an API key pair
	CloudID  string
	APIKeyID string
	APIKey   string

	// Addresses of a self-managed cluster, used instead of CloudID
	Addresses []string
}

// String returns a string representation with the API key masked
func (c ElasticConfig) String() string {
	return fmt.Sprintf("ElasticConfig{CloudID: %s, APIKeyID: %s, APIKey: [REDACTED], Addresses: %v}",
		c.CloudID, c.APIKeyID, c.Addresses)
}

// encodedAPIKey builds the credential Elasticsearch expects in the ApiKey authorization header
func (c ElasticConfig) encodedAPIKey() string {
	if c.APIKeyID == "" && c.APIKey == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(c.APIKeyID + ":" + c.APIKey))
}

// ElasticStore is a DocumentStore backed by an Elasticsearch cluster.
// A single ElasticStore is safe for concurrent use by multiple goroutines.
type ElasticStore struct {
	client    *elasticsearch.Client
	transport *http.Transport
}

// NewElasticStore creates the Elasticsearch client. A malformed cloud id is reported here,
// connectivity is not checked until the first request.
func NewElasticStore(cfg ElasticConfig) (*ElasticStore, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		CloudID:      cfg.CloudID,
		Addresses:    cfg.Addresses,
		APIKey:       cfg.encodedAPIKey(),
		Transport:    transport,
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}

	log.WithFields(logrus.Fields{
		"cloud_id":  cfg.CloudID,
		"addresses": cfg.Addresses,
	}).Info("Elasticsearch client initialized")

	return &ElasticStore{client: client, transport: transport}, nil
}

// Insert indexes the document and waits until it is visible to searches
func (s *ElasticStore) Insert(ctx context.Context, index string, document []byte) (*IndexResponse, error) {
	res, err := s.client.Index(
		index,
		bytes.NewReader(document),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: indexing into %s: %w", ErrUnavailable, index, err)
	}
	defer res.Body.Close()

	var body struct {
		ID     string          `json:"_id"`
		Result string          `json:"result"`
		Error  json.RawMessage `json:"error"`
	}
	data, err := readBody(res)
	if err != nil {
		return nil, fmt.Errorf("indexing into %s: %w", index, err)
	}
	if err := json.Unmarshal(data, &body); err != nil {
		// proxies in front of the cluster answer failures with text or html
		if res.StatusCode != http.StatusCreated {
			return &IndexResponse{
				StatusCode:  res.StatusCode,
				ErrorReason: strings.TrimSpace(string(data)),
			}, nil
		}
		return nil, fmt.Errorf("indexing into %s: %w: status %d: %w", index, ErrMalformedResponse, res.StatusCode, err)
	}

	errType, errReason := decodeErrorCause(body.Error)
	response := &IndexResponse{
		StatusCode:  res.StatusCode,
		ID:          body.ID,
		Result:      body.Result,
		ErrorType:   errType,
		ErrorReason: errReason,
	}
	log.WithFields(logrus.Fields{
		"index":  index,
		"status": res.StatusCode,
		"id":     body.ID,
		"result": body.Result,
	}).Debug("Document indexed")
	return response, nil
}

// QueryAll runs a match_all query against the index
func (s *ElasticStore) QueryAll(ctx context.Context, index string) (*SearchResponse, error) {
	query, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding match_all query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(bytes.NewReader(query)),
		s.client.Search.WithSize(maxResultWindow),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: searching %s: %w", ErrUnavailable, index, err)
	}
	defer res.Body.Close()

	var body struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
		Error json.RawMessage `json:"error"`
	}
	if err := decodeBody(res, &body); err != nil {
		return nil, fmt.Errorf("searching %s: %w", index, err)
	}

	errType, errReason := decodeErrorCause(body.Error)
	response := &SearchResponse{
		StatusCode:  res.StatusCode,
		Hits:        make([]Hit, 0, len(body.Hits.Hits)),
		ErrorType:   errType,
		ErrorReason: errReason,
	}
	for _, h := range body.Hits.Hits {
		response.Hits = append(response.Hits, Hit{ID: h.ID, Source: h.Source})
	}
	return response, nil
}

// Ping checks that the cluster answers
func (s *ElasticStore) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: ping returned %s", ErrUnavailable, res.Status())
	}
	return nil
}

// Close drops the idle connections of the shared transport
func (s *ElasticStore) Close() error {
	s.transport.CloseIdleConnections()
	return nil
}

func readBody(res *esapi.Response) ([]byte, error) {
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrUnavailable, err)
	}
	return data, nil
}

func decodeBody(res *esapi.Response, v interface{}) error {
	data, err := readBody(res)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: status %d: %w", ErrMalformedResponse, res.StatusCode, err)
	}
	return nil
}

// decodeErrorCause reads the error member of an Elasticsearch response, which is either an object or a plain string
func decodeErrorCause(raw json.RawMessage) (string, string) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", ""
	}
	var cause struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(raw, &cause); err == nil {
		return cause.Type, cause.Reason
	}
	var reason string
	if err := json.Unmarshal(raw, &reason); err == nil {
		return "", reason
	}
	return "", string(raw)
}
