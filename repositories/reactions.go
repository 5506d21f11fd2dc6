package repositories

import (
  "github.com/rs/xid"
  "gorm.io/gorm"

  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/models"
)

type ReactionsRepository struct {
  Db *gorm.DB
}

func (r *ReactionsRepository) Get(tweetID string, userID string) (entity *models.Reaction, err error) {
  err = r.Db.Where("tweet_id=? AND user_id=?", tweetID, userID).Take(&entity).Error
  return
}

func (r *ReactionsRepository) Count(tweetID string, kind string) int64 {
  var total int64
  r.Db.Model(&models.Reaction{}).Where("tweet_id=? AND kind=?", tweetID, kind).Count(&total)
  return total
}

func (r *ReactionsRepository) Toggle(tweetID string, userID string, kind string) (active bool, err error) {
  err = r.Db.Transaction(func(tx *gorm.DB) error {
    result := tx.Where(
      "tweet_id=? AND user_id=? AND kind=?",
      tweetID,
      userID,
      kind,
    ).Delete(&models.Reaction{})
    if result.Error != nil {
      return result.Error
    }
    if result.RowsAffected > 0 {
      active = false
      return nil
    }

    result = tx.Model(&models.Reaction{}).Where(
      "tweet_id=? AND user_id=? AND kind<>?",
      tweetID,
      userID,
      kind,
    ).Update("kind", kind)
    if result.Error != nil {
      return result.Error
    }
    if result.RowsAffected > 0 {
      active = true
      return nil
    }

    entity := models.Reaction{
      ID:      xid.New().String(),
      TweetID: tweetID,
      UserID:  userID,
      Kind:    kind,
    }
    active = true
    return tx.Create(&entity).Error
  })
  return
}

func (r *ReactionsRepository) Totals(tweetID string) (likes int64, dislikes int64) {
  likes = r.Count(tweetID, config.REACTION_KIND_LIKE)
  dislikes = r.Count(tweetID, config.REACTION_KIND_DISLIKE)
  return
}
