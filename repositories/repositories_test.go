package repositories

import (
  "path/filepath"
  "testing"

  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "tweets.local/tweet-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
  if err != nil {
    t.Fatalf("open db: %v", err)
  }
  err = db.AutoMigrate(
    &models.User{},
    &models.Tweet{},
    &models.Comment{},
    &models.Reaction{},
    &models.Task{},
  )
  if err != nil {
    t.Fatalf("migrate: %v", err)
  }
  return db
}

func createTweet(t *testing.T, db *gorm.DB, userID string, content string) *models.Tweet {
  t.Helper()
  r := &TweetsRepository{Db: db}
  id, err := r.Create(userID, content, "", "", "", nil)
  if err != nil {
    t.Fatalf("create tweet: %v", err)
  }
  tweet, err := r.Find(id)
  if err != nil {
    t.Fatalf("find tweet: %v", err)
  }
  return tweet
}
