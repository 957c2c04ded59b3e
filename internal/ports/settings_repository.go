package ports

import "context"

// Port: per-category minimum-order configuration supplied by the admin
// collaborator. Absence of a category key implies the default minimum.
type SettingsRepository interface {
	// MinOrderSettings returns the category id -> minimum order amount map.
	MinOrderSettings(ctx context.Context) (map[string]int64, error)
}
