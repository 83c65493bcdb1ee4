package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config drives one benchmark run.
type Config struct {
	// DataDir is the dataset root holding train_1..train_k directories.
	DataDir string `yaml:"data_dir"`

	// NFold is the number of cross-validation folds.
	NFold int `yaml:"n_fold"`

	// BatchSize is the minibatch size for both real and generated images.
	BatchSize int `yaml:"batch_size"`

	// ImageEdge is the square edge real images are decoded to.
	ImageEdge int `yaml:"image_edge"`

	// Preload decodes each fold's real partition fully before scoring.
	Preload bool `yaml:"preload"`

	// Samples is the number of images the generator produces per fold.
	Samples int `yaml:"samples"`

	// GridPath, when non-empty, is where the first generated batch of each
	// fold is written as a PNG grid.
	GridPath string `yaml:"grid_path"`

	// Seed feeds the generator and the KID subset sampler.
	Seed int64 `yaml:"seed"`
}

func Default() Config {
	return Config{
		DataDir:   "./data",
		NFold:     3,
		BatchSize: 32,
		ImageEdge: 64,
		Preload:   true,
		Samples:   200,
		GridPath:  "generated_grid.png",
		Seed:      1,
	}
}

// Load reads a YAML config file over the defaults: absent keys keep their
// default values.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.NFold < 1 {
		return fmt.Errorf("n_fold must be at least 1, got %d", c.NFold)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.ImageEdge < 1 {
		return fmt.Errorf("image_edge must be positive, got %d", c.ImageEdge)
	}
	if c.Samples < 1 {
		return fmt.Errorf("samples must be positive, got %d", c.Samples)
	}
	return nil
}
