package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(80);not null"`
	Email        string    `json:"email" gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(200);not null"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt    time.Time `json:"created_at"`
}

// Follow is a directed edge follower -> followee. The pair is unique.
type Follow struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID uuid.UUID `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_followee"`
	FolloweeID uuid.UUID `json:"followee_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_followee;index"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `json:"-" gorm:"foreignKey:FollowerID"`
	Followee User `json:"-" gorm:"foreignKey:FolloweeID"`
}

// Block is directional: the blocker hides its posts from the blocked user and
// refuses likes from them.
type Block struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BlockerID uuid.UUID `json:"blocker_id" gorm:"type:uuid;not null;uniqueIndex:idx_blocker_blocked"`
	BlockedID uuid.UUID `json:"blocked_id" gorm:"type:uuid;not null;uniqueIndex:idx_blocker_blocked;index"`
	CreatedAt time.Time `json:"created_at"`

	Blocker User `json:"-" gorm:"foreignKey:BlockerID"`
	Blocked User `json:"-" gorm:"foreignKey:BlockedID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (b *Block) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

func (Follow) TableName() string {
	return "follows"
}

func (Block) TableName() string {
	return "blocks"
}
