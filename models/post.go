package models

import "gorm.io/gorm"

type Post struct {
	gorm.Model
	AuthorID uint   `gorm:"index;not null" json:"author_id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `gorm:"column:image_url" json:"image_url"`

	Comments []Comment  `json:"-"`
	Likes    []PostLike `json:"-"`
}

type Comment struct {
	gorm.Model
	PostID   uint   `gorm:"index;not null" json:"post_id"`
	AuthorID uint   `gorm:"not null" json:"author_id"`
	Content  string `gorm:"type:text;not null" json:"content"`
}

type PostLike struct {
	gorm.Model
	PostID uint `gorm:"uniqueIndex:ux_post_user;not null" json:"post_id"`
	UserID uint `gorm:"uniqueIndex:ux_post_user;not null" json:"user_id"`
}
