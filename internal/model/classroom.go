package model

import (
	"time"

	"gorm.io/gorm"
)

type Classroom struct {
	ID                  string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name                string    `gorm:"not null" json:"name"`
	Subject             *string   `json:"subject"`
	Section             string    `gorm:"not null" json:"section"`
	Description         *string   `json:"description"`
	Room                *string   `json:"room"`
	Code                string    `gorm:"not null" json:"code"`
	CardBackground      string    `gorm:"not null;default:#a7adcb" json:"cardBackground"`
	TeacherID           string    `gorm:"not null;index" json:"teacherId"`
	TeacherName         string    `gorm:"not null" json:"teacherName"`
	TeacherImage        string    `gorm:"not null" json:"teacherImage"`
	IllustrationIndex   int       `gorm:"not null" json:"illustrationIndex"`
	AllowUsersToComment bool      `gorm:"not null;default:false" json:"allowUsersToComment"`
	AllowUsersToPost    bool      `gorm:"not null;default:false" json:"allowUsersToPost"`
	CreatedAt           time.Time `gorm:"not null;index" json:"createdAt"`
}

func (Classroom) TableName() string { return "class" }

func (c *Classroom) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type EnrolledClass struct {
	ID                string    `gorm:"primaryKey;type:uuid" json:"id"`
	ClassID           string    `gorm:"not null;type:uuid;index" json:"classId"`
	UserID            string    `gorm:"not null;index" json:"userId"`
	UserName          string    `gorm:"not null" json:"userName"`
	UserImage         string    `gorm:"not null" json:"userImage"`
	Name              string    `gorm:"not null" json:"name"`
	Subject           *string   `json:"subject"`
	Section           string    `gorm:"not null" json:"section"`
	TeacherName       string    `gorm:"not null" json:"teacherName"`
	TeacherImage      string    `gorm:"not null" json:"teacherImage"`
	CardBackground    string    `gorm:"not null" json:"cardBackground"`
	IllustrationIndex int       `gorm:"not null" json:"illustrationIndex"`
	CreatedAt         time.Time `gorm:"not null" json:"createdAt"`
}

func (EnrolledClass) TableName() string { return "enrolled_class" }

func (e *EnrolledClass) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

type ClassTopic struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	ClassID   string    `gorm:"not null;type:uuid;index" json:"classId"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (ClassTopic) TableName() string { return "class_topic" }

func (t *ClassTopic) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
