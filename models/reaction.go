package models

import (
  "time"
)

type Reaction struct {
  ID        string    `gorm:"size:20;primaryKey"`
  TweetID   string    `gorm:"size:20;not null;uniqueIndex:idx_reactions_tweet_user,priority:1"`
  UserID    string    `gorm:"size:20;not null;uniqueIndex:idx_reactions_tweet_user,priority:2"`
  Kind      string    `gorm:"size:10;not null;index"`
  CreatedAt time.Time `gorm:"not null"`
  UpdatedAt time.Time `gorm:"not null"`
}

func (m *Reaction) TableName() string {
  return "reactions"
}
