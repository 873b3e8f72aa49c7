package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Author User `json:"-" gorm:"foreignKey:AuthorID"`
}

// Like is unique per (user, post).
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_post"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_post;index"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Post Post `json:"-" gorm:"foreignKey:PostID"`
}

type ActivityType string

const (
	ActivityPost       ActivityType = "post"
	ActivityLike       ActivityType = "like"
	ActivityFollow     ActivityType = "follow"
	ActivityDeleteUser ActivityType = "delete_user"
	ActivityDeletePost ActivityType = "delete_post"
)

// Activity is an append-only feed entry. Text is a snapshot of the actors'
// names at the time of the event, so there are no foreign keys here.
type Activity struct {
	ID        uint64       `json:"id" gorm:"primaryKey;autoIncrement"`
	Text      string       `json:"text" gorm:"type:varchar(255);not null"`
	Type      ActivityType `json:"type" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"index"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (Post) TableName() string {
	return "posts"
}

func (Like) TableName() string {
	return "likes"
}

func (Activity) TableName() string {
	return "activities"
}
