package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"github.com/zatekoja/catalogsearch/internal/adapters/cache"
	"github.com/zatekoja/catalogsearch/internal/adapters/database"
	"github.com/zatekoja/catalogsearch/internal/application/ranking"
	"github.com/zatekoja/catalogsearch/internal/application/services"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/catalogsearch/pkg/config"
)

// stack is the wired service graph a command runs against
type stack struct {
	cfg     *config.Config
	client  *postgres.Client
	catalog repositories.CatalogRepository
	events  repositories.SearchEventRepository
	closers []func() error
}

func openStack() (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return nil, err
	}

	return &stack{
		cfg:     cfg,
		client:  client,
		catalog: database.NewCatalogAdapter(client),
		events:  database.NewSearchEventAdapter(client),
		closers: []func() error{client.Close},
	}, nil
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func migrateUpCommand(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := postgres.Migrate(&cfg.Database); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "migrations applied")
	return nil
}

func migrateDownCommand(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := postgres.Rollback(&cfg.Database, c.Int("steps")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "reverted %d migration(s)\n", c.Int("steps"))
	return nil
}

func searchCommand(c *cli.Context) error {
	st, err := openStack()
	if err != nil {
		return err
	}
	defer st.Close()

	provider, closeCache, err := cache.NewProvider(st.cfg)
	if err != nil {
		return err
	}
	st.closers = append(st.closers, closeCache)

	writer, err := services.NewCacheWriter(provider, 1, st.cfg.Search.CacheTTL)
	if err != nil {
		return err
	}
	// Runs before closeCache so pending writes land
	defer writer.Close()

	tokenizer := ranking.NewTokenizer(ranking.WithMinQueryLength(st.cfg.Search.MinQueryLength))
	service := services.NewSearchService(st.catalog, st.events, tokenizer, provider, writer, nil)

	resp, err := service.Search(c.Context, entities.SearchRequest{
		Query:          c.String("query"),
		CategoryFilter: c.String("category"),
		UserID:         c.String("user"),
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return printResponse(c.App.Writer, resp)
}

type visitFunc func(ctx context.Context, svc *services.VisitService, id, searchID string) (interface{}, error)

func visitProduct(ctx context.Context, svc *services.VisitService, id, searchID string) (interface{}, error) {
	return svc.ViewProduct(ctx, id, searchID)
}

func visitCategory(ctx context.Context, svc *services.VisitService, id, searchID string) (interface{}, error) {
	return svc.ViewCategory(ctx, id, searchID)
}

func visitCommand(visit visitFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		st, err := openStack()
		if err != nil {
			return err
		}
		defer st.Close()

		item, err := visit(c.Context, services.NewVisitService(st.catalog, st.events), c.String("id"), c.String("search-id"))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	}
}

// printResponse writes a search response as two aligned tables
func printResponse(w io.Writer, resp *entities.SearchResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "search id:\t%s\n\n", resp.SearchID)

	fmt.Fprintf(tw, "PRODUCT\tNAME\tMANUFACTURER\tPART NUMBER\n")
	for _, p := range resp.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Manufacturer, p.PartNumber)
	}
	if len(resp.Products) == 0 {
		fmt.Fprintln(tw, "(none)")
	}

	fmt.Fprintf(tw, "\nCATEGORY\tNAME\n")
	for _, cat := range resp.Categories {
		fmt.Fprintf(tw, "%s\t%s\n", cat.ID, cat.Name)
	}
	if len(resp.Categories) == 0 {
		fmt.Fprintln(tw, "(none)")
	}

	return tw.Flush()
}
