package model

import "time"

type StatusSnapshot struct {
	ConfigPath    string     `json:"config_path"`
	ConfigVersion uint64     `json:"config_version"`
	LoadedAt      time.Time  `json:"loaded_at"`
	Accounts      int        `json:"accounts"`
	Scripts       int        `json:"scripts"`
	StartedAt     time.Time  `json:"started_at"`
	Uploaded      int        `json:"uploaded"`
	Failed        int        `json:"failed"`
	NotFound      int        `json:"not_found"`
	LastUpload    *time.Time `json:"last_upload"`
}
