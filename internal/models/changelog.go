package models

import "time"

// Changelog is one generated report, the aggregate root owning its Changes.
type Changelog struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	RepoURL   string    `gorm:"size:512;not null;index" json:"repoUrl"`
	Version   string    `gorm:"size:64;not null" json:"version"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Summary   string    `gorm:"type:text" json:"summary"`
	WhatsNew  string    `gorm:"type:text" json:"whatsNew"`
	Impact    string    `gorm:"type:text" json:"impact"`
	Upgrade   string    `gorm:"type:text" json:"upgrade"`
	Changes   []Change  `gorm:"foreignKey:ChangelogID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"changes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Change is one classified commit inside a Changelog.
type Change struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	ChangelogID string    `gorm:"type:text;not null;index" json:"changelogId"`
	Description string    `gorm:"type:text" json:"description"`
	Type        Category  `gorm:"size:32;index" json:"type"`
	Impact      string    `gorm:"type:text" json:"impact"`
	WhatsNew    string    `gorm:"type:text" json:"whatsNew"`
	Details     string    `gorm:"type:text" json:"details"`
	Author      string    `gorm:"size:255" json:"author"`
	Date        string    `gorm:"size:64" json:"date"`
	SHA         string    `gorm:"size:40;index" json:"sha"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
