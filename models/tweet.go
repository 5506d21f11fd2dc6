package models

import (
  "time"

  "gorm.io/datatypes"
)

type Tweet struct {
  ID        string            `gorm:"size:20;primaryKey"`
  UserID    string            `gorm:"size:20;not null;index:idx_tweets_user,priority:1"`
  Content   string            `gorm:"size:1120;not null"`
  ImgUrl    string            `gorm:"size:200;not null"`
  Img       string            `gorm:"size:155;not null"`
  Video     string            `gorm:"size:155;not null"`
  Media     datatypes.JSONMap `gorm:"not null"`
  Status    int               `gorm:"not null;index:idx_tweets_user,priority:2"`
  CreatedAt time.Time         `gorm:"not null;index"`
  UpdatedAt time.Time         `gorm:"not null"`
}

func (m *Tweet) TableName() string {
  return "tweets"
}
