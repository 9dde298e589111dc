package types

// JSONMap is an open key/value bag persisted as JSONB.
type JSONMap map[string]any
