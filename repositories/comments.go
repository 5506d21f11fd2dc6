package repositories

import (
  "encoding/json"
  "strings"
  "unicode/utf8"

  "github.com/nats-io/nats.go"
  "github.com/rs/xid"
  "gorm.io/gorm"

  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/models"
)

type CommentsRepository struct {
  Db   *gorm.DB
  Nats *nats.Conn
}

func (r *CommentsRepository) Count(tweetID string) int64 {
  var total int64
  r.Db.Model(&models.Comment{}).Where("tweet_id=?", tweetID).Count(&total)
  return total
}

func (r *CommentsRepository) Listings(tweetID string, current int, pageSize int) []*models.Comment {
  var comments []*models.Comment
  query := r.Db.Select([]string{
    "id",
    "tweet_id",
    "user_id",
    "content",
    "created_at",
  })
  query.Where("tweet_id=?", tweetID)
  query.Order("created_at desc, id desc")
  query.Offset((current - 1) * pageSize).Limit(pageSize).Find(&comments)
  return comments
}

func (r *CommentsRepository) Find(id string) (entity *models.Comment, err error) {
  err = r.Db.First(&entity, "id=?", id).Error
  return
}

func (r *CommentsRepository) Validate(content string) (err error) {
  if strings.TrimSpace(content) == "" {
    return ErrContentEmpty
  }
  if utf8.RuneCountInString(content) > 280 {
    return ErrContentLength
  }
  return nil
}

func (r *CommentsRepository) Create(
  tweetID string,
  userID string,
  content string,
) (entity *models.Comment, err error) {
  if err = r.Validate(content); err != nil {
    return
  }
  entity = &models.Comment{
    ID:      xid.New().String(),
    TweetID: tweetID,
    UserID:  userID,
    Content: content,
  }
  err = r.Db.Create(&entity).Error
  if err == nil && r.Nats != nil {
    data, _ := json.Marshal(map[string]interface{}{
      "id": entity.ID,
    })
    r.Nats.Publish(config.NATS_COMMENTS_CREATE, data)
    r.Nats.Flush()
  }
  return
}
