package catalog

import (
	"context"
	"errors"
	"time"

	corecatalog "github.com/kilianp07/agvfleet/core/catalog"
	"github.com/kilianp07/agvfleet/core/factory"
)

type sqlConf struct {
	DSN string `json:"dsn"`
	// Seed writes the built-in catalog when the tables are empty.
	Seed bool `json:"seed"`
}

// init registers the SQL and HTTP catalog sources.
func init() {
	_ = corecatalog.RegisterSource("http", newHTTPFromConf)
	_ = corecatalog.RegisterSource("sqlite", func(conf map[string]any) (corecatalog.Source, error) {
		return newSQLFromConf(SQLite, conf)
	})
	_ = corecatalog.RegisterSource("postgres", func(conf map[string]any) (corecatalog.Source, error) {
		return newSQLFromConf(Postgres, conf)
	})
}

func newSQLFromConf(d Dialect, conf map[string]any) (corecatalog.Source, error) {
	var c sqlConf
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	if c.DSN == "" {
		return nil, errors.New("sql catalog: dsn is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	src, err := OpenSQL(ctx, d, c.DSN)
	if err != nil {
		return nil, err
	}
	if c.Seed {
		if err := seed(ctx, src); err != nil {
			_ = src.Close()
			return nil, err
		}
	}
	return src, nil
}

func seed(ctx context.Context, src *SQLSource) error {
	if err := src.EnsureSchema(ctx); err != nil {
		return err
	}
	cat, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if len(cat) > 0 {
		return nil
	}
	return src.Save(ctx, corecatalog.Default())
}
