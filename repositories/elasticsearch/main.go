package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Jeffail/gabs"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/elastic/go-elasticsearch/v7/esutil"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"variantstore/api/models"
	"variantstore/api/models/indexes"
)

// WriteError is returned when the store answered a request with an error status.
// Transport failures (unreachable node, cancelled context) are returned as-is.
type WriteError struct {
	Index  string
	Id     string
	Status int
	Type   string
	Reason string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("[%d] %s: %s (index %s, id %s)", e.Status, e.Type, e.Reason, e.Index, e.Id)
}

type Store struct {
	Client *es7.Client
	Config *models.Config
}

func NewStore(client *es7.Client, cfg *models.Config) *Store {
	return &Store{Client: client, Config: cfg}
}

// IndexDocument writes one document with an explicit id. It is attempted once.
func (s *Store) IndexDocument(ctx context.Context, index string, id string, doc interface{}) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return &WriteError{
			Index:  index,
			Id:     id,
			Status: http.StatusBadRequest,
			Type:   "document_encoding_exception",
			Reason: err.Error(),
		}
	}

	res, err := s.Client.Index(
		index,
		bytes.NewReader(payload),
		s.Client.Index.WithDocumentID(id),
		s.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return errors.Wrapf(err, "indexing %s/%s", index, id)
	}
	defer res.Body.Close()

	if res.IsError() {
		return parseWriteError(res, index, id)
	}
	return nil
}

func parseWriteError(res *esapi.Response, index string, id string) *WriteError {
	we := &WriteError{
		Index:  index,
		Id:     id,
		Status: res.StatusCode,
		Type:   "unknown",
		Reason: res.Status(),
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return we
	}
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		if len(body) > 0 {
			we.Reason = string(body)
		}
		return we
	}

	// the error member is either an object or, for some proxies, a plain string
	if t, ok := parsed.Path("error.type").Data().(string); ok {
		we.Type = t
	}
	if r, ok := parsed.Path("error.reason").Data().(string); ok {
		we.Reason = r
	} else if r, ok := parsed.Path("error").Data().(string); ok {
		we.Reason = r
	}
	return we
}

// EnsureIndex creates the index with the given mapping unless it already exists.
func (s *Store) EnsureIndex(ctx context.Context, index string, mapping map[string]interface{}) (bool, error) {
	exists, err := s.Client.Indices.Exists(
		[]string{index},
		s.Client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, errors.Wrapf(err, "checking index %s", index)
	}
	exists.Body.Close()

	if exists.StatusCode == http.StatusOK {
		return false, nil
	}

	res, err := s.Client.Indices.Create(
		index,
		s.Client.Indices.Create.WithBody(esutil.NewJSONReader(map[string]interface{}{
			"mappings": mapping,
		})),
		s.Client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return false, errors.Wrapf(err, "creating index %s", index)
	}
	defer res.Body.Close()

	if res.IsError() {
		we := parseWriteError(res, index, "")
		// another process may have won the race
		if we.Type == "resource_already_exists_exception" {
			return false, nil
		}
		return false, we
	}

	log.Printf("created index %s", index)
	return true, nil
}

// IndexMappings pairs every configured collection with its mapping.
func (s *Store) IndexMappings() map[string]map[string]interface{} {
	es := s.Config.Elasticsearch
	return map[string]map[string]interface{}{
		es.RunVariantsIndex:       indexes.VARIANT_INDEX_MAPPING,
		es.CanonicalVariantsIndex: indexes.VARIANT_INDEX_MAPPING,
		es.AmpliconCoverageIndex:  indexes.COVERAGE_INDEX_MAPPING,
		es.SampleCoverageIndex:    indexes.COVERAGE_INDEX_MAPPING,
	}
}

func (s *Store) EnsureIndices(ctx context.Context) error {
	for index, mapping := range s.IndexMappings() {
		if _, err := s.EnsureIndex(ctx, index, mapping); err != nil {
			return err
		}
	}
	return nil
}

// CountDocumentsBySample counts the documents a sample has in one collection.
func (s *Store) CountDocumentsBySample(ctx context.Context, index string, sample string) (int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"sample": sample,
			},
		},
	}

	res, err := s.Client.Count(
		s.Client.Count.WithContext(ctx),
		s.Client.Count.WithIndex(index),
		s.Client.Count.WithBody(esutil.NewJSONReader(query)),
	)
	if err != nil {
		return 0, errors.Wrapf(err, "counting %s documents for %s", index, sample)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return 0, nil
	}
	if res.IsError() {
		return 0, parseWriteError(res, index, "")
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, errors.Wrap(err, "decoding count response")
	}
	return body.Count, nil
}
