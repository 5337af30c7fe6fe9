package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pbaille/recipes/internal/api"
	"github.com/pbaille/recipes/internal/config"
	"github.com/pbaille/recipes/internal/domain"
	"github.com/pbaille/recipes/internal/fetcher"
	"github.com/pbaille/recipes/internal/importer"
	"github.com/pbaille/recipes/internal/keyedarchive"
	"github.com/pbaille/recipes/internal/plist"
	"github.com/pbaille/recipes/internal/store"
)

var (
	cfg    *config.Config
	dbPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg = config.Load()

	rootCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Recipe database with archive import",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "database path")
	rootCmd.PersistentFlags().IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum archive nesting depth")

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(dumpCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(ingredientsCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(dbPath)
}

func decodeOptions() []keyedarchive.Option {
	return []keyedarchive.Option{keyedarchive.WithMaxDepth(cfg.MaxDepth)}
}

// readArchive parses an archive from a file path or URL
func readArchive(ctx context.Context, ref string) (plist.Value, error) {
	if !fetcher.IsURL(ref) {
		return plist.ReadFile(ref)
	}
	data, err := fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	return plist.Parse(data)
}

func loadBoxes(ctx context.Context, ref string) ([]domain.RecipeBox, error) {
	raw, err := readArchive(ctx, ref)
	if err != nil {
		return nil, err
	}
	return importer.Decode(raw, decodeOptions()...)
}

func importCmd() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "import [file|url]",
		Short: "Import recipe boxes from an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boxes, err := loadBoxes(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			imp, err := importer.New(s, boxes, importer.WithBatchSize(batchSize))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = imp.Run(cmd.Context(), func(i *importer.RecipeImporter) {
				fmt.Fprintf(out, "imported %.0f%%\n", i.PercentDone()*100)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Imported %d recipes from %d boxes\n", imp.NumImported(), len(boxes))
			return nil
		},
	}

	cmd.Flags().IntVarP(&batchSize, "batch", "b", cfg.BatchSize, "recipes written per step")
	return cmd
}

func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [file|url]",
		Short: "Print the recipes in an archive as YAML without importing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boxes, err := loadBoxes(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(map[string][]domain.RecipeBox{"recipe_boxes": boxes})
		},
	}
}

func dumpCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "dump [file|url]",
		Short: "Print the resolved object tree of any keyed archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readArchive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !raw {
				v, err = keyedarchive.Decode(v, decodeOptions()...)
				if err != nil {
					return err
				}
			}

			dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
			dumper.Fdump(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the archive without resolving references")
	return cmd
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List recipe categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			categories, err := s.ListCategories()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(out, "No categories yet. Use 'recipes import' to add some.")
				return nil
			}

			for _, c := range categories {
				fmt.Fprintf(out, "%s  %s\n", c.ID[:8], c.Name)
			}

			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var (
		limit    int
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if category != "" {
				category, err = resolveCategory(s, category)
				if err != nil {
					return err
				}
			}

			recipes, err := s.ListRecipes(category, limit, 0)
			if err != nil {
				return err
			}

			printRecipes(cmd.OutOrStdout(), recipes, "No recipes yet. Use 'recipes import' to add some.")
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of recipes to show")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category (name or id prefix)")
	return cmd
}

// resolveCategory matches a category by exact name or id prefix
func resolveCategory(s *store.Store, ref string) (string, error) {
	categories, err := s.ListCategories()
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, ref) || strings.HasPrefix(c.ID, ref) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("category not found: %s", ref)
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show recipe details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			// Find recipe by prefix
			id, err := s.ResolveRecipeID(args[0])
			if err != nil {
				return err
			}

			recipe, err := s.GetRecipe(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", recipe.ID)
			fmt.Fprintf(out, "Name:     %s\n", recipe.Name)
			fmt.Fprintf(out, "Duration: %s\n", recipe.Duration)

			if len(recipe.Ingredients) > 0 {
				fmt.Fprintf(out, "\nIngredients:\n")
				for _, u := range recipe.Ingredients {
					if u.Unit == domain.MeasurementNone {
						fmt.Fprintf(out, "  - %g %s\n", u.Quantity, u.Name)
					} else {
						fmt.Fprintf(out, "  - %g %s %s\n", u.Quantity, u.Unit, u.Name)
					}
				}
			}

			if recipe.Description != "" {
				fmt.Fprintf(out, "\n%s\n", recipe.Description)
			}

			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search recipes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			recipes, err := s.SearchRecipes(args[0])
			if err != nil {
				return err
			}

			printRecipes(cmd.OutOrStdout(), recipes, "No matching recipes found.")
			return nil
		},
	}
}

func ingredientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingredients",
		Short: "List all ingredients",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ingredients, err := s.ListIngredients()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(ingredients) == 0 {
				fmt.Fprintln(out, "No ingredients yet.")
				return nil
			}

			// Group by category
			byCategory := make(map[string][]string)
			var order []string
			for _, i := range ingredients {
				cat := "(uncategorized)"
				if i.Category != nil {
					cat = *i.Category
				}
				if _, ok := byCategory[cat]; !ok {
					order = append(order, cat)
				}
				byCategory[cat] = append(byCategory[cat], i.Name)
			}

			for _, cat := range order {
				fmt.Fprintf(out, "%s\n", cat)
				for _, name := range byCategory[cat] {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}

			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			// Note: don't defer s.Close() as server runs indefinitely

			server := api.New(s, addr).WithImportOptions(
				decodeOptions(),
				[]importer.Option{importer.WithBatchSize(cfg.BatchSize)},
			)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", cfg.Addr, "server address")
	return cmd
}

func printRecipes(out io.Writer, recipes []domain.StoredRecipe, empty string) {
	if len(recipes) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	for _, r := range recipes {
		fmt.Fprintf(out, "%s  %-40s %s\n", r.ID[:8], truncate(r.Name, 40), r.Duration)
	}
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
