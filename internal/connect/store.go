package connect

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/nearwork/internal/config"
	"github.com/joshua-takyi/nearwork/internal/models"
)

// OpenStore connects the location store selected by cfg.StoreDriver and
// prepares its schema or indexes. The caller owns the store and must Close it.
func OpenStore(ctx context.Context, cfg *config.Config) (models.LocationStore, error) {
	switch cfg.StoreDriver {
	case config.DriverSqlite:
		db, err := OpenSqlite(ctx, cfg.SqlitePath)
		if err != nil {
			return nil, err
		}
		repo := models.SqliteNewRepo(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return repo, nil

	case config.DriverMongo:
		client, err := MongoDBConnect(ctx, cfg.MongoDBURI, cfg.MongoDBPassword)
		if err != nil {
			return nil, err
		}
		repo := models.MongodbNewRepo(client, cfg.MongoDBDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(context.Background())
			return nil, err
		}
		return repo, nil

	case config.DriverSupabase:
		client, err := InitSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, err
		}
		return models.SupabaseNewRepo(client), nil

	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}
