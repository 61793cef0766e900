package model

import (
	"time"

	"gorm.io/gorm"
)

// Chat is a message posted in a classroom chat.
type Chat struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string      `gorm:"not null;index" json:"userId"`
	UserName    string      `gorm:"not null" json:"userName"`
	UserImage   string      `gorm:"not null" json:"userImage"`
	ClassID     string      `gorm:"not null;type:uuid;index" json:"classId"`
	Message     *string     `json:"message"`
	Attachments StringSlice `gorm:"not null" json:"attachments"`
	CreatedAt   time.Time   `gorm:"not null" json:"createdAt"`
}

func (Chat) TableName() string { return "chat" }

func (c *Chat) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type Note struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string      `gorm:"not null;index" json:"userId"`
	Title       *string     `json:"title"`
	Content     *string     `json:"content"`
	Attachments StringSlice `gorm:"not null" json:"attachments"`
	IsPinned    bool        `gorm:"not null;default:false" json:"isPinned"`
	CreatedAt   time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt   *time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Note) TableName() string { return "note" }

func (n *Note) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
