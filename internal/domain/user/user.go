// Package user holds user summaries and follow suggestions.
package user

import "strings"

// Summary is a user as listed by the backend.
type Summary struct {
	UserID          string `json:"user_id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Role            string `json:"role,omitempty"`
	Active          bool   `json:"active"`
}

// DisplayName joins first and last name.
func (s Summary) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Suggestion is a user the viewer may want to follow.
type Suggestion struct {
	UserID          string `json:"user_id"`
	Username        string `json:"username"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// Suggest returns up to limit users that are neither the viewer nor already
// followed, in the order the backend listed them.
func Suggest(all, following []Summary, selfID string, limit int) []Suggestion {
	exclude := make(map[string]struct{}, len(following)+1)
	exclude[selfID] = struct{}{}
	for _, f := range following {
		exclude[f.UserID] = struct{}{}
	}
	out := make([]Suggestion, 0, min(limit, len(all)))
	for _, u := range all {
		if len(out) >= limit {
			break
		}
		if u.UserID == "" {
			continue
		}
		if _, skip := exclude[u.UserID]; skip {
			continue
		}
		out = append(out, Suggestion{
			UserID:          u.UserID,
			Username:        u.Username,
			Name:            u.DisplayName(),
			ProfileImageURL: u.ProfileImageURL,
		})
	}
	return out
}
