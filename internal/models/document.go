package models

import (
	"time"
)

// Document is a JSON document kept by the local development store
type Document struct {
	Seq        uint64 `gorm:"primaryKey;autoIncrement"`
	DocumentID string `gorm:"uniqueIndex;size:36;not null"`
	IndexName  string `gorm:"index;not null"`
	Source     string `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}
