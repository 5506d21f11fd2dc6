package media

import (
  "time"
)

type Photo struct {
  ID        string    `gorm:"size:20;primaryKey"`
  Mime      string    `gorm:"size:30;not null"`
  Width     int       `gorm:"not null"`
  Height    int       `gorm:"not null"`
  Size      int64     `gorm:"not null"`
  Node      int       `gorm:"not null"`
  Filehash  string    `gorm:"size:64;not null;index"`
  Extension string    `gorm:"size:10;not null"`
  Timestamp int64     `gorm:"not null;index:idx_media_photos,priority:1"`
  Status    int       `gorm:"not null;index:idx_media_photos,priority:2"`
  CreatedAt time.Time `gorm:"not null"`
  UpdatedAt time.Time `gorm:"not null"`
}

func (m *Photo) TableName() string {
  return "media_photos"
}
