package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationStream     NotificationType = "stream"
	NotificationAssignment NotificationType = "assignment"
	NotificationQuiz       NotificationType = "quiz"
	NotificationQuestion   NotificationType = "question"
	NotificationMaterial   NotificationType = "material"
	NotificationComment    NotificationType = "comment"
	NotificationJoin       NotificationType = "join"
	NotificationAddToClass NotificationType = "addToClass"
	NotificationSubmit     NotificationType = "submit"
	NotificationGrade      NotificationType = "grade"
)

type Notification struct {
	ID              string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID          string           `gorm:"not null;index" json:"userId"` // Recipient
	Type            NotificationType `gorm:"not null" json:"type"`
	FromUserName    string           `gorm:"not null" json:"fromUserName"`
	FromUserImage   string           `gorm:"not null" json:"fromUserImage"`
	ResourceID      string           `gorm:"not null;type:uuid;index" json:"resourceId"`
	ResourceContent string           `gorm:"not null" json:"resourceContent"`
	ResourceURL     string           `gorm:"not null" json:"resourceUrl"`
	IsRead          bool             `gorm:"not null;default:false" json:"isRead"`
	CreatedAt       time.Time        `gorm:"not null" json:"createdAt"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
