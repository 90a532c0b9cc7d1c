package model

import (
	"time"

	"gorm.io/gorm"
)

type UploadStatus string

const (
	StatusSuccess UploadStatus = "SUCCESS"
	StatusFailed  UploadStatus = "FAILED"
)

type History struct {
	gorm.Model
	EventID    string       `gorm:"index"`
	Status     UploadStatus `gorm:"not null"`
	Kind       string       `gorm:"not null"`
	Account    string       `gorm:"not null"`
	ScriptName string       `gorm:"not null"`
	LocalPath  string       `gorm:"not null"`
	Message    string       `gorm:"not null"`
	ErrMsg     string
	UploadedAt time.Time `gorm:"not null"`
}
