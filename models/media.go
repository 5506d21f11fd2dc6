package models

import (
  "gorm.io/gorm"

  "tweets.local/tweet-api/models/media"
)

type Media struct{}

func NewMedia() *Media {
  return &Media{}
}

func (m *Media) AutoMigrate(db *gorm.DB) error {
  db.AutoMigrate(
    &media.Photo{},
    &media.Video{},
  )
  return nil
}
