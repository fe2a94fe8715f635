package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/contacts-api/internal/domain/entity"
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "owner_id":        {"type": "keyword"},
      "first_name":      {"type": "text"},
      "last_name":       {"type": "text"},
      "email":           {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "phone_number":    {"type": "keyword"},
      "birthday":        {"type": "date", "format": "yyyy-MM-dd"},
      "additional_data": {"type": "text"}
    }
  }
}`

// ContactIndex keeps contacts searchable in Elasticsearch. Every query is
// filtered on owner_id.
type ContactIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewContactIndex(es *elasticsearch.Client, index string) *ContactIndex {
	return &ContactIndex{ES: es, Index: index}
}

// EnsureIndex creates the index with its mapping if it is missing.
func (x *ContactIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(ctx, x.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = esapi.IndicesCreateRequest{Index: x.Index, Body: strings.NewReader(indexMapping)}.Do(ctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.Index, res.Status())
	}
	return nil
}

func (x *ContactIndex) Index(ctx context.Context, c *entity.Contact) error {
	doc := map[string]any{
		"owner_id":     c.OwnerID,
		"first_name":   c.FirstName,
		"last_name":    c.LastName,
		"email":        c.Email,
		"phone_number": c.PhoneNumber,
		"birthday":     c.Birthday.Format(time.DateOnly),
	}
	if c.AdditionalData != nil {
		doc["additional_data"] = *c.AdditionalData
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	res, err := req.Do(ctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index contact %s: %s", c.ID, res.Status())
	}
	return nil
}

func (x *ContactIndex) Remove(ctx context.Context, id string) error {
	res, err := esapi.DeleteRequest{Index: x.Index, DocumentID: id}.Do(ctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete contact %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over name, email and notes and returns matching ids.
func (x *ContactIndex) Search(ctx context.Context, ownerID, q string, size int) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"first_name^2", "last_name^2", "email", "additional_data"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"owner_id": ownerID},
				},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search contacts: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
