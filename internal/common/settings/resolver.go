package settings

import (
	"context"
	"os"

	"research-workers/internal/common/logger"
)

// KeyResolver yields a provider credential for the current request, or
// reports that it has none.
type KeyResolver interface {
	Resolve(ctx context.Context) (string, bool)
}

// UserSettingsResolver reads the credential from the user's stored
// settings. Lookup failures count as "no key"; the next resolver in the
// chain gets a chance.
type UserSettingsResolver struct {
	Store    Store
	UserID   string
	Category string
	Key      string
	Logger   logger.Logger
}

func (r *UserSettingsResolver) Resolve(ctx context.Context) (string, bool) {
	if r.Store == nil || r.UserID == "" {
		return "", false
	}
	val, err := r.Store.Get(ctx, r.UserID, r.Category, r.Key)
	if err != nil {
		if err != ErrNotFound && r.Logger != nil {
			r.Logger.Warn("Failed to read user setting, falling through", map[string]interface{}{
				"user_id":  r.UserID,
				"category": r.Category,
				"key":      r.Key,
				"error":    err.Error(),
			})
		}
		return "", false
	}
	return val, val != ""
}

// EnvResolver reads the credential from an environment variable.
type EnvResolver struct {
	Var string
}

func (r *EnvResolver) Resolve(ctx context.Context) (string, bool) {
	val := os.Getenv(r.Var)
	return val, val != ""
}

// ResolveFirst walks the chain and returns the first credential found.
func ResolveFirst(ctx context.Context, resolvers ...KeyResolver) (string, bool) {
	for _, r := range resolvers {
		if key, ok := r.Resolve(ctx); ok {
			return key, true
		}
	}
	return "", false
}
