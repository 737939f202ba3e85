package redisx

import "time"

const (
	// Catalog read caches, invalidated by catalog mutations.
	KeyFeaturedProducts = "cache:producto:destacados"
	KeyProductTypes     = "cache:tipo_producto"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCatalogCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
