package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/avolkov/warehouse/internal/config"
	"github.com/avolkov/warehouse/internal/logging"
	"github.com/avolkov/warehouse/internal/models"
	"github.com/avolkov/warehouse/internal/repo"
)

const productIndex = "products"

func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ES_URL},
		Username:  cfg.ES_USER,
		Password:  cfg.ES_PASSWORD,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, err
	}

	res, err := client.Info()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: %s: %s", res.Status(), body)
	}
	return client, nil
}

// ProductSearch looks products up in Elasticsearch when a client is
// configured and falls back to the store otherwise, so the service still
// answers search requests without a cluster.
type ProductSearch struct {
	ES   *elasticsearch.Client
	Repo *repo.GormRepo
}

func (s *ProductSearch) Search(ctx context.Context, sellerID uint, query string, from, size int) (int64, []models.Product, error) {
	if s.ES == nil {
		return s.Repo.SearchProducts(ctx, sellerID, query, from, size)
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"name^2", "sku"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"seller_id": sellerID},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(productIndex),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("elasticsearch: search failed: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

// IndexProduct mirrors a product into the search index, best effort.
func (s *ProductSearch) IndexProduct(ctx context.Context, product *models.Product) {
	if s.ES == nil {
		return
	}
	l := logging.FromContext(ctx)

	data, err := json.Marshal(product)
	if err != nil {
		l.Error("index_product_failed", "product_id", product.ID, "error", err)
		return
	}
	res, err := s.ES.Index(
		productIndex,
		bytes.NewReader(data),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(strconv.FormatUint(uint64(product.ID), 10)),
	)
	if err != nil {
		l.Error("index_product_failed", "product_id", product.ID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		l.Error("index_product_failed", "product_id", product.ID, "status", res.Status())
	}
}

// RemoveProduct drops a product from the search index, best effort.
func (s *ProductSearch) RemoveProduct(ctx context.Context, productID uint) {
	if s.ES == nil {
		return
	}
	l := logging.FromContext(ctx)

	res, err := s.ES.Delete(
		productIndex,
		strconv.FormatUint(uint64(productID), 10),
		s.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		l.Error("remove_product_failed", "product_id", productID, "error", err)
		return
	}
	defer res.Body.Close()
}
