package types

import "time"

// Alias is a named shortcut to a session file
type Alias struct {
	Name        string    `json:"name" yaml:"name"`
	SessionPath string    `json:"session_path" yaml:"session_path"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// RecencyTime returns the creation time used for ordering
func (a Alias) RecencyTime() time.Time { return a.CreatedAt }

// RecencyKey returns the alias name, used to break timestamp ties
func (a Alias) RecencyKey() string { return a.Name }
