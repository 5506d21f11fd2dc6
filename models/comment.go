package models

import (
  "time"
)

type Comment struct {
  ID        string    `gorm:"size:20;primaryKey"`
  TweetID   string    `gorm:"size:20;not null;index:idx_comments_tweet,priority:1"`
  UserID    string    `gorm:"size:20;not null"`
  Content   string    `gorm:"size:1120;not null"`
  CreatedAt time.Time `gorm:"not null;index:idx_comments_tweet,priority:2"`
  UpdatedAt time.Time `gorm:"not null"`
}

func (m *Comment) TableName() string {
  return "comments"
}
