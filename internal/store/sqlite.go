package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/recipes/internal/domain"
)

//go:embed schema.sql
var schema string

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// Store handles database operations
type Store struct {
	db *sql.DB
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateCategory stores a new recipe category
func (s *Store) CreateCategory(name string) (*domain.Category, error) {
	id := uuid.New().String()
	now := time.Now()

	_, err := s.db.Exec(
		"INSERT INTO recipe_categories (id, name, created_at) VALUES (?, ?, ?)",
		id, name, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	return &domain.Category{ID: id, Name: name, CreatedAt: now}, nil
}

// ListCategories returns all categories in creation order
func (s *Store) ListCategories() ([]domain.Category, error) {
	rows, err := s.db.Query("SELECT id, name, created_at FROM recipe_categories ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// CreateRecipe stores a recipe row under a category. Ingredients are added
// separately with AddUsage.
func (s *Store) CreateRecipe(categoryID string, r domain.Recipe) (*domain.StoredRecipe, error) {
	return insertRecipe(context.Background(), s.db, categoryID, r)
}

// ImportRecipe stores a recipe and one usage per ingredient in a single
// transaction, so a failure leaves no rows behind. ingredientIDs[i] is the
// stored id of r.Ingredients[i].
func (s *Store) ImportRecipe(ctx context.Context, categoryID string, r domain.Recipe, ingredientIDs []string) (*domain.StoredRecipe, error) {
	if len(ingredientIDs) != len(r.Ingredients) {
		return nil, fmt.Errorf("import recipe: %d ingredient ids for %d ingredients", len(ingredientIDs), len(r.Ingredients))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stored, err := insertRecipe(ctx, tx, categoryID, r)
	if err != nil {
		return nil, err
	}
	for i, ing := range r.Ingredients {
		u, err := insertUsage(ctx, tx, stored.ID, ingredientIDs[i], ing.Quantity, ing.Measurement)
		if err != nil {
			return nil, err
		}
		u.Name = ing.Name
		stored.Ingredients = append(stored.Ingredients, *u)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return stored, nil
}

func insertRecipe(ctx context.Context, db execer, categoryID string, r domain.Recipe) (*domain.StoredRecipe, error) {
	id := uuid.New().String()
	now := time.Now()

	_, err := db.ExecContext(ctx,
		"INSERT INTO recipes (id, category_id, name, description, duration, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, categoryID, r.Name, r.Description, r.Duration.String(), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}

	return &domain.StoredRecipe{
		ID:          id,
		CategoryID:  categoryID,
		Name:        r.Name,
		Description: r.Description,
		Duration:    r.Duration,
		CreatedAt:   now,
	}, nil
}

// GetOrCreateIngredient finds an ingredient by name or creates it. An empty
// category is stored as NULL.
func (s *Store) GetOrCreateIngredient(name, category string) (*domain.StoredIngredient, error) {
	// Try to find existing ingredient
	var ing domain.StoredIngredient
	err := s.db.QueryRow(
		"SELECT id, name, category FROM ingredients WHERE name = ?",
		name,
	).Scan(&ing.ID, &ing.Name, &ing.Category)

	if err == nil {
		return &ing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find ingredient: %w", err)
	}

	// Create new ingredient
	var categoryPtr *string
	if category != "" {
		categoryPtr = &category
	}
	id := uuid.New().String()

	_, err = s.db.Exec(
		"INSERT INTO ingredients (id, name, category) VALUES (?, ?, ?)",
		id, name, categoryPtr,
	)
	if err != nil {
		return nil, fmt.Errorf("insert ingredient: %w", err)
	}

	return &domain.StoredIngredient{ID: id, Name: name, Category: categoryPtr}, nil
}

// ListIngredients returns all ingredients by name
func (s *Store) ListIngredients() ([]domain.StoredIngredient, error) {
	rows, err := s.db.Query("SELECT id, name, category FROM ingredients ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []domain.StoredIngredient
	for rows.Next() {
		var i domain.StoredIngredient
		if err := rows.Scan(&i.ID, &i.Name, &i.Category); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, i)
	}

	return ingredients, rows.Err()
}

// AddUsage records that a recipe uses an ingredient. MeasurementNone is
// stored as a NULL unit.
func (s *Store) AddUsage(recipeID, ingredientID string, quantity float64, unit domain.Measurement) (*domain.IngredientUsage, error) {
	return insertUsage(context.Background(), s.db, recipeID, ingredientID, quantity, unit)
}

func insertUsage(ctx context.Context, db execer, recipeID, ingredientID string, quantity float64, unit domain.Measurement) (*domain.IngredientUsage, error) {
	id := uuid.New().String()
	var units *string
	if unit != domain.MeasurementNone {
		u := unit.String()
		units = &u
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO ingredient_usages (id, recipe_id, ingredient_id, quantity, quantity_units) VALUES (?, ?, ?, ?, ?)",
		id, recipeID, ingredientID, quantity, units,
	)
	if err != nil {
		return nil, fmt.Errorf("insert usage: %w", err)
	}

	return &domain.IngredientUsage{
		ID:           id,
		RecipeID:     recipeID,
		IngredientID: ingredientID,
		Quantity:     quantity,
		Unit:         unit,
	}, nil
}

const recipeColumns = "id, category_id, name, description, duration, created_at"

func scanRecipe(sc interface{ Scan(...any) error }) (domain.StoredRecipe, error) {
	var r domain.StoredRecipe
	var duration string
	if err := sc.Scan(&r.ID, &r.CategoryID, &r.Name, &r.Description, &duration, &r.CreatedAt); err != nil {
		return r, err
	}
	d, err := domain.ParseDuration(duration)
	if err != nil {
		return r, err
	}
	r.Duration = d
	return r, nil
}

func (s *Store) queryRecipes(query string, args ...any) ([]domain.StoredRecipe, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []domain.StoredRecipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}

	return recipes, rows.Err()
}

// ListRecipes returns recipes in import order, optionally limited to one
// category
func (s *Store) ListRecipes(categoryID string, limit, offset int) ([]domain.StoredRecipe, error) {
	var (
		recipes []domain.StoredRecipe
		err     error
	)
	if categoryID == "" {
		recipes, err = s.queryRecipes(
			"SELECT "+recipeColumns+" FROM recipes ORDER BY rowid LIMIT ? OFFSET ?",
			limit, offset,
		)
	} else {
		recipes, err = s.queryRecipes(
			"SELECT "+recipeColumns+" FROM recipes WHERE category_id = ? ORDER BY rowid LIMIT ? OFFSET ?",
			categoryID, limit, offset,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// SearchRecipes performs a simple text search over names and descriptions
func (s *Store) SearchRecipes(query string) ([]domain.StoredRecipe, error) {
	pattern := "%" + query + "%"
	recipes, err := s.queryRecipes(
		"SELECT "+recipeColumns+" FROM recipes WHERE name LIKE ? OR description LIKE ? ORDER BY name",
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return recipes, nil
}

// ResolveRecipeID expands an id prefix to a full recipe id
func (s *Store) ResolveRecipeID(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("resolve recipe %q: %w", prefix, ErrNotFound)
	}

	rows, err := s.db.Query("SELECT id FROM recipes WHERE id LIKE ? LIMIT 2", prefix+"%")
	if err != nil {
		return "", fmt.Errorf("resolve recipe: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan recipe id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve recipe: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("resolve recipe %q: %w", prefix, ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("resolve recipe %q: %w", prefix, ErrAmbiguous)
	}
}

// GetRecipe retrieves a recipe by ID with its ingredient usages
func (s *Store) GetRecipe(id string) (*domain.StoredRecipe, error) {
	r, err := scanRecipe(s.db.QueryRow("SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get recipe %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	usages, err := s.GetRecipeUsages(id)
	if err != nil {
		return nil, err
	}
	r.Ingredients = usages

	return &r, nil
}

// GetRecipeUsages returns a recipe's ingredients in import order
func (s *Store) GetRecipeUsages(recipeID string) ([]domain.IngredientUsage, error) {
	rows, err := s.db.Query(`
		SELECT u.id, u.recipe_id, u.ingredient_id, i.name, u.quantity, u.quantity_units
		FROM ingredient_usages u
		JOIN ingredients i ON i.id = u.ingredient_id
		WHERE u.recipe_id = ?
		ORDER BY u.rowid
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe usages: %w", err)
	}
	defer rows.Close()

	var usages []domain.IngredientUsage
	for rows.Next() {
		var u domain.IngredientUsage
		var units sql.NullString
		if err := rows.Scan(&u.ID, &u.RecipeID, &u.IngredientID, &u.Name, &u.Quantity, &units); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		if units.Valid {
			m, err := domain.ParseMeasurement(units.String)
			if err != nil {
				return nil, fmt.Errorf("scan usage: %w", err)
			}
			u.Unit = m
		}
		usages = append(usages, u)
	}

	return usages, rows.Err()
}
