package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

const productsMapping = `{
  "mappings": {
    "properties": {
      "title":           {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "designer":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "productType":     {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "descriptionText": {"type": "text"},
      "price":           {"type": "double"}
    }
  }
}`

// ProductIndex mirrors products into an Elasticsearch index for full-text search
type ProductIndex struct {
	client *es.Client
	index  string
}

func NewProductIndex(client *es.Client, index string) *ProductIndex {
	return &ProductIndex{client: client, index: index}
}

// documentJSON encodes p for indexing. Elasticsearch reserves _id, so the
// product id is stored under id instead.
func documentJSON(p *entity.Product) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	delete(m, "_id")
	m["id"], _ = json.Marshal(p.ID.Hex())
	return json.Marshal(m)
}

// EnsureIndex creates the index with its mapping when it does not exist yet
func (x *ProductIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(c, x.client)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = esapi.IndicesCreateRequest{Index: x.index, Body: strings.NewReader(productsMapping)}.Do(c, x.client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (x *ProductIndex) Index(ctx context.Context, p *entity.Product) error {
	b, err := documentJSON(p)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{Index: x.index, DocumentID: p.ID.Hex(), Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

func (x *ProductIndex) Delete(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: x.index, DocumentID: id}.Do(c, x.client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res)
	}
	return nil
}

func (x *ProductIndex) Search(ctx context.Context, q string, size int) ([]entity.Product, error) {
	b, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.client.Search(
		x.client.Search.WithContext(c),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, responseError("search", res)
	}
	return decodeHits(res.Body)
}

func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "designer^2", "productType", "descriptionText"},
			},
		},
		"size": size,
	}
}

func decodeHits(r io.Reader) ([]entity.Product, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		var p entity.Product
		if err := json.Unmarshal(h.Source, &p); err != nil {
			return nil, err
		}
		var ref struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(h.Source, &ref)
		if ref.ID == "" {
			ref.ID = h.ID
		}
		oid, err := primitive.ObjectIDFromHex(ref.ID)
		if err != nil {
			return nil, fmt.Errorf("hit %q: %w", h.ID, err)
		}
		p.ID = oid
		out = append(out, p)
	}
	return out, nil
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
}

var _ application.ProductIndex = (*ProductIndex)(nil)
