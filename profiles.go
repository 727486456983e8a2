package advisor

import (
	"context"
	"encoding/json"
	"strings"
)

// SaveProfile stores the preferences and history documents for userID.
// Empty documents are stored as "{}" and "[]".
func (a *Advisor) SaveProfile(ctx context.Context, userID, preferences, history string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrMissingUserID
	}
	if strings.TrimSpace(preferences) == "" {
		preferences = "{}"
	}
	if strings.TrimSpace(history) == "" {
		history = "[]"
	}

	return a.profiles.SaveProfile(ctx, UserProfile{
		UserID:      userID,
		Preferences: preferences,
		History:     history,
	})
}

// LoadProfile returns the stored profile for userID.
func (a *Advisor) LoadProfile(ctx context.Context, userID string) (*UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}
	return a.profiles.GetProfile(ctx, userID)
}

// ProfileSummary returns the saved requirements text of a profile, used to weight
// comparisons. It is empty when the profile has none or its preferences are not JSON.
func ProfileSummary(profile *UserProfile) string {
	if profile == nil {
		return ""
	}
	var prefs struct {
		RequirementsInput string `json:"requirements_input"`
	}
	if err := json.Unmarshal([]byte(profile.Preferences), &prefs); err != nil {
		return ""
	}
	return strings.TrimSpace(prefs.RequirementsInput)
}

// ParseDeviceNames splits comma-separated device names, dropping blanks.
func ParseDeviceNames(input string) []string {
	var names []string
	for _, part := range strings.Split(input, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
