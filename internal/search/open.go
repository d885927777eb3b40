package search

import (
	"github.com/franciscosanchezn/pizza-search-api/internal/config"
	"github.com/franciscosanchezn/pizza-search-api/internal/database"
)

// Open connects the document store selected by the configuration
func Open(conf *config.Config) (DocumentStore, error) {
	switch conf.StoreBackend {
	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.InitDatabase(database.FromConfig(conf))
		if err != nil {
			return nil, err
		}
		store, err := NewGormStore(db)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := NewElasticStore(ElasticConfig{
			CloudID:  conf.CloudID,
			APIKeyID: conf.APIKeyID,
			APIKey:   conf.APIKey,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
