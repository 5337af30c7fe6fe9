package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pbaille/recipes/internal/importer"
	"github.com/pbaille/recipes/internal/keyedarchive"
)

type Config struct {
	DBPath    string
	Addr      string
	BatchSize int
	MaxDepth  int
}

// Load reads a .env file if present, then the RECIPES_* environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath:    firstNonEmpty(strings.TrimSpace(os.Getenv("RECIPES_DB")), defaultDBPath()),
		Addr:      firstNonEmpty(strings.TrimSpace(os.Getenv("RECIPES_ADDR")), ":8080"),
		BatchSize: positiveInt(os.Getenv("RECIPES_BATCH_SIZE"), importer.DefaultBatchSize),
		MaxDepth:  positiveInt(os.Getenv("RECIPES_MAX_DEPTH"), keyedarchive.DefaultMaxDepth),
	}
}

// defaultDBPath is where the database lives on disk, e.g.
// ~/.local/share/recipe-manager/data.sqlite on Linux.
func defaultDBPath() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); dir != "" {
		return filepath.Join(dir, "recipe-manager", "data.sqlite")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "recipe-manager", "data.sqlite")
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
