package model

import (
	"time"

	"gorm.io/gorm"
)

type StreamType string

const (
	StreamTypeStream     StreamType = "stream"
	StreamTypeAssignment StreamType = "assignment"
	StreamTypeQuiz       StreamType = "quiz"
	StreamTypeQuestion   StreamType = "question"
	StreamTypeMaterial   StreamType = "material"
)

// Stream is a post in a classroom: an announcement or a piece of classwork.
type Stream struct {
	ID                           string      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID                       string      `gorm:"not null;index" json:"userId"`
	UserName                     string      `gorm:"not null" json:"userName"`
	UserImage                    string      `gorm:"not null" json:"userImage"`
	ClassID                      string      `gorm:"not null;type:uuid;index" json:"classId"`
	ClassName                    string      `gorm:"not null" json:"className"`
	Title                        *string     `json:"title"`
	Content                      *string     `json:"content"`
	Type                         StreamType  `gorm:"not null;default:stream" json:"type"`
	Attachments                  StringSlice `gorm:"not null" json:"attachments"`
	Links                        StringSlice `gorm:"not null" json:"links"`
	Points                       *int        `json:"points"`
	IsPinned                     bool        `gorm:"not null;default:false" json:"isPinned"`
	AcceptingSubmissions         bool        `gorm:"not null;default:true" json:"acceptingSubmissions"`
	CloseSubmissionsAfterDueDate bool        `gorm:"not null;default:false" json:"closeSubmissionsAfterDueDate"`
	AnnounceTo                   StringSlice `gorm:"not null" json:"announceTo"`
	AnnounceToAll                bool        `gorm:"not null;default:true" json:"announceToAll"`
	TopicID                      *string     `gorm:"type:uuid" json:"topicId"`
	TopicName                    *string     `json:"topicName"`
	DueDate                      *time.Time  `json:"dueDate"`
	CreatedAt                    time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt                    *time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt"`
	ScheduledAt                  *time.Time  `json:"scheduledAt"`
}

func (Stream) TableName() string { return "stream" }

func (s *Stream) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Classwork is a student's submission for an assignment, quiz or question.
type Classwork struct {
	ID              string      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID          string      `gorm:"not null;index" json:"userId"`
	UserName        string      `gorm:"not null" json:"userName"`
	UserImage       string      `gorm:"not null" json:"userImage"`
	ClassID         string      `gorm:"not null;type:uuid;index" json:"classId"`
	ClassName       string      `gorm:"not null" json:"className"`
	StreamID        string      `gorm:"not null;type:uuid;index" json:"streamId"`
	Title           *string     `json:"title"`
	Attachments     StringSlice `gorm:"not null" json:"attachments"`
	Links           StringSlice `gorm:"not null" json:"links"`
	Points          *int        `json:"points"`
	IsGraded        bool        `gorm:"not null;default:false" json:"isGraded"`
	IsReturned      bool        `gorm:"not null;default:false" json:"isReturned"`
	StreamCreatedAt time.Time   `gorm:"not null" json:"streamCreatedAt"`
	IsTurnedIn      bool        `gorm:"not null;default:false" json:"isTurnedIn"`
	TurnedInDate    *time.Time  `json:"turnedInDate"`
	CreatedAt       time.Time   `gorm:"not null" json:"createdAt"`
}

func (Classwork) TableName() string { return "classwork" }

func (c *Classwork) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type StreamComment struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	StreamID   string     `gorm:"not null;type:uuid;index" json:"streamId"`
	ClassID    string     `gorm:"not null;type:uuid" json:"classId"`
	UserID     string     `gorm:"not null;index" json:"userId"`
	UserName   string     `gorm:"not null" json:"userName"`
	UserImage  string     `gorm:"not null" json:"userImage"`
	Content    *string    `json:"content"`
	Attachment *string    `json:"attachment"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (StreamComment) TableName() string { return "stream_comment" }

func (c *StreamComment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type StreamPrivateComment struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	StreamID   string     `gorm:"not null;type:uuid;index" json:"streamId"`
	ClassID    string     `gorm:"not null;type:uuid" json:"classId"`
	UserID     string     `gorm:"not null;index" json:"userId"`
	UserName   string     `gorm:"not null" json:"userName"`
	UserImage  string     `gorm:"not null" json:"userImage"`
	Content    *string    `json:"content"`
	Attachment *string    `json:"attachment"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
	ToUserID   string     `gorm:"not null" json:"toUserId"`
}

func (StreamPrivateComment) TableName() string { return "stream_private_comment" }

func (c *StreamPrivateComment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
