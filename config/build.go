package config

import (
	"fmt"
	"log/slog"

	"github.com/warp/menu-engine/factory"
	"github.com/warp/menu-engine/menu"
	"github.com/warp/menu-engine/tabular"
)

// Schemas returns the sales and cost schemas, extended by the configured
// schema files when set.
func (c *Config) Schemas() (sales, costs tabular.Schema, err error) {
	f := factory.NewSchemaFactory()

	sales, _ = f.Builtin("sales")
	if c.Schema.SalesFile != "" {
		if sales, err = f.LoadSchemaFile("sales", c.Schema.SalesFile); err != nil {
			return sales, costs, fmt.Errorf("sales schema: %w", err)
		}
	}
	costs, _ = f.Builtin("costs")
	if c.Schema.CostFile != "" {
		if costs, err = f.LoadSchemaFile("costs", c.Schema.CostFile); err != nil {
			return sales, costs, fmt.Errorf("cost schema: %w", err)
		}
	}
	return sales, costs, nil
}

// NewAnalyzer builds the pipeline described by the configuration.
func (c *Config) NewAnalyzer(logger *slog.Logger) (*menu.Analyzer, error) {
	sales, costs, err := c.Schemas()
	if err != nil {
		return nil, err
	}
	return menu.NewAnalyzer(menu.AnalyzerConfig{
		SalesSchema: sales,
		CostSchema:  costs,
		Options:     c.Options(),
		CacheSize:   c.Pipeline.CacheSize,
		Logger:      logger,
	})
}
