package advisor

import (
	"context"
	"fmt"
)

// DeviceSummary is a catalog search hit.
type DeviceSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DeviceSpecification is the full attribute mapping of one catalog product.
// Values are scalars (string, json.Number, bool), nested maps or lists.
type DeviceSpecification map[string]any

// ID returns the product identifier, or "" when absent.
func (s DeviceSpecification) ID() string {
	return s.String("id", "")
}

// Name returns the product name, or "" when absent.
func (s DeviceSpecification) Name() string {
	return s.String("name", "")
}

// String returns the value at key formatted as text, with a default for absent or nil values.
func (s DeviceSpecification) String(key, defaultValue string) string {
	if s == nil {
		return defaultValue
	}
	v, ok := s[key]
	if !ok || v == nil {
		return defaultValue
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// ExtractedQuery holds the search filters a language model extracted from free text.
// Empty Category or Brand means the filter is not applied.
type ExtractedQuery struct {
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Keywords string `json:"keywords"`
}

// UserProfile is a stored per-user preference record.
// Preferences and History are JSON documents kept as opaque text.
type UserProfile struct {
	UserID      string `json:"userId"`
	Preferences string `json:"preferences"`
	History     string `json:"history"`
}

// SearchParams are the filters of a catalog search.
type SearchParams struct {
	Query      string
	Category   string
	Brand      string
	Limit      int
	Page       int
	KeepCasing bool
}

// FetchParams identify one catalog product and the language of its attributes.
type FetchParams struct {
	ID         string
	Language   string
	KeepCasing bool
}

// LLMClient sends a single prompt to a language model.
// Implementations never fail: provider errors are reported as a localized apology text.
type LLMClient interface {
	Complete(ctx context.Context, prompt, model string) string
}

// Catalog is the product-specification source.
// Transport failures are absorbed and reported as empty results.
type Catalog interface {
	Search(ctx context.Context, params SearchParams) []DeviceSummary
	FetchByID(ctx context.Context, params FetchParams) DeviceSpecification
}

// ProfileStore persists user profiles keyed by user id.
type ProfileStore interface {
	// SaveProfile inserts the profile or replaces the stored one with the same user id.
	SaveProfile(ctx context.Context, profile UserProfile) error

	// GetProfile returns ErrProfileNotFound when no profile exists for userID.
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
}
