package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/mkozhevin/retail_orders/internal/models"
)

// Index mirrors shop listings into elasticsearch for the text search
// endpoint. The database stays the source of truth; a reindex failure
// after an import is logged, not surfaced.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

type ListingDoc struct {
	ID         uint   `json:"id"`
	ShopID     uint   `json:"shop_id"`
	Shop       string `json:"shop"`
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
	Model      string `json:"model"`
	Price      uint   `json:"price"`
	Quantity   uint   `json:"quantity"`
}

func NewIndex(url, username, password, name string) (*Index, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{url},
		Username:  username,
		Password:  password,
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Index{ES: client, Name: name}, nil
}

// ReindexShop drops the shop's documents and writes the fresh listing
// set, matching the full-replace semantics of a price import.
func (i *Index) ReindexShop(ctx context.Context, shop *models.Shop, infos []models.ProductInfo) error {
	body := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"shop_id": shop.ID},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	res, err := i.ES.DeleteByQuery(
		[]string{i.Name},
		&buf,
		i.ES.DeleteByQuery.WithContext(ctx),
		i.ES.DeleteByQuery.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return fmt.Errorf("delete shop documents: %w", err)
	}
	res.Body.Close()

	for _, info := range infos {
		doc := ListingDoc{
			ID:         info.ID,
			ShopID:     shop.ID,
			Shop:       shop.Name,
			CategoryID: info.Product.CategoryID,
			Name:       info.Product.Name,
			Model:      info.Model,
			Price:      info.Price,
			Quantity:   info.Quantity,
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		res, err := i.ES.Index(
			i.Name,
			bytes.NewReader(data),
			i.ES.Index.WithDocumentID(fmt.Sprint(doc.ID)),
			i.ES.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("index listing %d: %w", doc.ID, err)
		}
		if res.IsError() {
			res.Body.Close()
			return fmt.Errorf("index listing %d: %s", doc.ID, res.Status())
		}
		res.Body.Close()
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []ListingDoc, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "model", "shop"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Name),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ListingDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]ListingDoc, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		docs[n] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
