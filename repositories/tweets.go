package repositories

import (
  "encoding/json"
  "strings"
  "unicode/utf8"

  "github.com/nats-io/nats.go"
  "github.com/rs/xid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/models"
)

type TweetsRepository struct {
  Db   *gorm.DB
  Nats *nats.Conn
}

func (r *TweetsRepository) Count(conditions map[string]interface{}) int64 {
  var total int64
  query := r.Db.Model(&models.Tweet{})
  if _, ok := conditions["user_id"]; ok {
    query.Where("user_id", conditions["user_id"].(string))
  }
  if _, ok := conditions["account"]; ok {
    subQuery := r.Db.Model(&models.User{}).Select([]string{"id"})
    subQuery.Where("account=?", conditions["account"].(string))
    query.Where("user_id IN(?)", subQuery)
  }
  if _, ok := conditions["status"]; ok {
    query.Where("status", conditions["status"].(int))
  } else {
    query.Where("status=1")
  }
  query.Count(&total)
  return total
}

func (r *TweetsRepository) Listings(conditions map[string]interface{}, current int, pageSize int) []*models.Tweet {
  var tweets []*models.Tweet
  query := r.Db.Select([]string{
    "id",
    "user_id",
    "content",
    "img_url",
    "img",
    "video",
    "media",
    "created_at",
    "updated_at",
  })
  if _, ok := conditions["user_id"]; ok {
    query.Where("user_id", conditions["user_id"].(string))
  }
  if _, ok := conditions["account"]; ok {
    subQuery := r.Db.Model(&models.User{}).Select([]string{"id"})
    subQuery.Where("account=?", conditions["account"].(string))
    query.Where("user_id IN(?)", subQuery)
  }
  if _, ok := conditions["status"]; ok {
    query.Where("status", conditions["status"].(int))
  } else {
    query.Where("status=1")
  }
  query.Order("created_at desc, id desc")
  query.Offset((current - 1) * pageSize).Limit(pageSize).Find(&tweets)
  return tweets
}

func (r *TweetsRepository) Find(id string) (entity *models.Tweet, err error) {
  err = r.Db.First(&entity, "id=?", id).Error
  return
}

func (r *TweetsRepository) Validate(content string) (err error) {
  if strings.TrimSpace(content) == "" {
    return ErrContentEmpty
  }
  if utf8.RuneCountInString(content) > 280 {
    return ErrContentLength
  }
  return nil
}

func (r *TweetsRepository) Create(
  userID string,
  content string,
  imgUrl string,
  img string,
  video string,
  media datatypes.JSONMap,
) (id string, err error) {
  if err = r.Validate(content); err != nil {
    return
  }
  if img != "" {
    imgUrl = ""
  }
  if media == nil {
    media = datatypes.JSONMap{}
  }
  id = xid.New().String()
  entity := &models.Tweet{
    ID:      id,
    UserID:  userID,
    Content: content,
    ImgUrl:  imgUrl,
    Img:     img,
    Video:   video,
    Media:   media,
    Status:  1,
  }
  err = r.Db.Create(&entity).Error
  if err == nil {
    r.publish(config.NATS_TWEETS_CREATE, map[string]interface{}{
      "id": id,
    })
  }
  return
}

func (r *TweetsRepository) Update(
  tweet *models.Tweet,
  editor string,
  values map[string]interface{},
) (err error) {
  if tweet.UserID != editor {
    return nil
  }

  if content, ok := values["content"]; ok {
    if err = r.Validate(content.(string)); err != nil {
      return
    }
  }

  var released [][]string

  if img, ok := values["img"]; ok && img.(string) != tweet.Img {
    if tweet.Img != "" {
      released = append(released, []string{config.MEDIA_KIND_PHOTO, tweet.Img})
    }
    values["img_url"] = ""
  } else if imgUrl, ok := values["img_url"]; ok && imgUrl.(string) != tweet.ImgUrl {
    if tweet.Img != "" {
      released = append(released, []string{config.MEDIA_KIND_PHOTO, tweet.Img})
      values["img"] = ""
    }
  }

  if video, ok := values["video"]; ok && video.(string) != tweet.Video {
    if tweet.Video != "" {
      released = append(released, []string{config.MEDIA_KIND_VIDEO, tweet.Video})
    }
  }

  err = r.Db.Model(&tweet).Updates(values).Error
  if err != nil {
    return
  }

  for _, item := range released {
    r.publish(config.NATS_MEDIA_RELEASE, map[string]interface{}{
      "kind": item[0],
      "path": item[1],
    })
  }

  return nil
}

func (r *TweetsRepository) Delete(tweet *models.Tweet, requester string) (err error) {
  if tweet.UserID != requester {
    return nil
  }

  err = r.Db.Transaction(func(tx *gorm.DB) error {
    if err := tx.Where("tweet_id=?", tweet.ID).Delete(&models.Comment{}).Error; err != nil {
      return err
    }
    if err := tx.Where("tweet_id=?", tweet.ID).Delete(&models.Reaction{}).Error; err != nil {
      return err
    }
    return tx.Delete(&models.Tweet{ID: tweet.ID}).Error
  })
  if err != nil {
    return
  }

  if tweet.Img != "" {
    r.publish(config.NATS_MEDIA_RELEASE, map[string]interface{}{
      "kind": config.MEDIA_KIND_PHOTO,
      "path": tweet.Img,
    })
  }
  if tweet.Video != "" {
    r.publish(config.NATS_MEDIA_RELEASE, map[string]interface{}{
      "kind": config.MEDIA_KIND_VIDEO,
      "path": tweet.Video,
    })
  }

  return nil
}

func (r *TweetsRepository) publish(subject string, payload map[string]interface{}) {
  if r.Nats == nil {
    return
  }
  data, _ := json.Marshal(payload)
  r.Nats.Publish(subject, data)
  r.Nats.Flush()
}
