package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/observability"
)

//go:embed sample_catalog.json
var sampleCatalog []byte

// catalogFile is the document accepted by the seed command
type catalogFile struct {
	Categories []*entities.Category `json:"categories"`
	Products   []*entities.Product  `json:"products"`
}

func parseCatalog(data []byte) (*catalogFile, error) {
	var doc catalogFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid catalog file: %w", err)
	}

	for i, cat := range doc.Categories {
		if cat == nil || cat.ID == "" {
			return nil, fmt.Errorf("category %d has no id", i)
		}
	}
	for i, p := range doc.Products {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("product %d has no id", i)
		}
	}
	return &doc, nil
}

// loadCatalog upserts categories before products. Items without a creation
// time get consecutive timestamps so the file order becomes the store order.
func loadCatalog(ctx context.Context, repo repositories.CatalogRepository, doc *catalogFile, now time.Time) error {
	logger := observability.GetLogger()
	tick := 0
	stamp := func(t time.Time) time.Time {
		if !t.IsZero() {
			return t
		}
		tick++
		return now.Add(time.Duration(tick) * time.Millisecond)
	}

	for _, cat := range doc.Categories {
		cat.CreatedAt = stamp(cat.CreatedAt)
		if err := repo.UpsertCategory(ctx, cat); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", cat.ID, err)
		}
		logger.Debug().Str("category_id", cat.ID).Msg("seeded category")
	}

	for _, p := range doc.Products {
		if p.Categories == nil {
			p.Categories = []string{}
		}
		p.CreatedAt = stamp(p.CreatedAt)
		if err := repo.UpsertProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
		logger.Debug().Str("product_id", p.ID).Msg("seeded product")
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	data := sampleCatalog
	if path := c.String("file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read catalog file: %w", err)
		}
		data = raw
	}

	doc, err := parseCatalog(data)
	if err != nil {
		return err
	}

	st, err := openStack()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := loadCatalog(c.Context, st.catalog, doc, time.Now().UTC()); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "seeded %d categories and %d products\n", len(doc.Categories), len(doc.Products))
	return nil
}
