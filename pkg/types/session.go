package types

import "time"

// SessionFile represents one persisted session artifact on disk
type SessionFile struct {
	Path       string    `json:"path" yaml:"path"`
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
}

// RecencyTime returns the modification time used for ordering
func (s SessionFile) RecencyTime() time.Time { return s.ModifiedAt }

// RecencyKey returns the path, used to break timestamp ties
func (s SessionFile) RecencyKey() string { return s.Path }

// LearnedSkill is a markdown artifact under the learned-skills directory
type LearnedSkill struct {
	Path string `json:"path" yaml:"path"`
}
