package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	EmailVerified bool      `gorm:"not null;default:false" json:"emailVerified"`
	Image         string    `gorm:"not null" json:"image"` // Avatar URL, either our bucket or the OAuth provider
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
	Role          Role      `gorm:"not null;default:user" json:"role"`
	SchoolName    *string   `json:"schoolName"`

	Sessions []Session `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Accounts []Account `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "user" }

// Session is created by the auth provider at sign in. This service only reads
// it, apart from sweeping expired rows.
type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
	IPAddress *string   `json:"ipAddress"`
	UserAgent *string   `json:"userAgent"`
	UserID    string    `gorm:"not null;index" json:"userId"`
}

func (Session) TableName() string { return "session" }

func (s *Session) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

type Account struct {
	ID                    string     `gorm:"primaryKey" json:"id"`
	AccountID             string     `gorm:"not null" json:"accountId"`
	ProviderID            string     `gorm:"not null" json:"providerId"`
	UserID                string     `gorm:"not null;index" json:"userId"`
	AccessToken           *string    `json:"-"`
	RefreshToken          *string    `json:"-"`
	IDToken               *string    `json:"-"`
	AccessTokenExpiresAt  *time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt *time.Time `json:"refreshTokenExpiresAt"`
	Scope                 *string    `json:"scope"`
	Password              *string    `json:"-"`
	CreatedAt             time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt             time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Account) TableName() string { return "account" }

func (a *Account) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

type Verification struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	Identifier string     `gorm:"not null;index" json:"identifier"`
	Value      string     `gorm:"not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expiresAt"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt"`
}

func (Verification) TableName() string { return "verification" }

func (v *Verification) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

type RoleRequestStatus string

const (
	RoleRequestPending  RoleRequestStatus = "pending"
	RoleRequestRejected RoleRequestStatus = "rejected"
)

type RoleRequest struct {
	ID        string            `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string            `gorm:"not null;index" json:"userId"`
	UserName  string            `gorm:"not null" json:"userName"`
	UserEmail string            `gorm:"not null" json:"userEmail"`
	UserImage string            `gorm:"not null" json:"userImage"`
	Status    RoleRequestStatus `gorm:"not null;default:pending" json:"status"`
	CreatedAt time.Time         `gorm:"not null" json:"createdAt"`
}

func (RoleRequest) TableName() string { return "role_request" }

func (r *RoleRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
