package v1

import (
  "crypto/md5"
  "encoding/hex"
  "fmt"
  "net/http"
  "strconv"
  "strings"
  "time"

  "github.com/go-chi/chi/v5"
  "gorm.io/datatypes"

  "tweets.local/tweet-api/api"
  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/models"
  "tweets.local/tweet-api/repositories"
  mediaRepositories "tweets.local/tweet-api/repositories/media"
)

type TweetsHandler struct {
  ApiContext            *common.ApiContext
  Response              *api.ResponseHandler
  Repository            *repositories.TweetsRepository
  UsersRepository       *repositories.UsersRepository
  CommentsRepository    *repositories.CommentsRepository
  ReactionsRepository   *repositories.ReactionsRepository
  MediaPhotosRepository *mediaRepositories.PhotosRepository
  MediaVideosRepository *mediaRepositories.VideosRepository
}

type TweetInfo struct {
  ID            string            `json:"id"`
  Username      string            `json:"username"`
  Content       string            `json:"content"`
  ImgUrl        string            `json:"img_url,omitempty"`
  VideoUrl      string            `json:"video_url,omitempty"`
  Media         datatypes.JSONMap `json:"media,omitempty"`
  TotalLikes    int64             `json:"total_likes"`
  TotalDislikes int64             `json:"total_dislikes"`
  TotalComments int64             `json:"total_comments"`
  CreatedAt     string            `json:"created_at"`
  UpdatedAt     string            `json:"updated_at"`
}

func NewTweetsRouter(apiContext *common.ApiContext) http.Handler {
  h := TweetsHandler{
    ApiContext: apiContext,
  }
  h.Repository = &repositories.TweetsRepository{
    Db:   h.ApiContext.Db,
    Nats: h.ApiContext.Nats,
  }
  h.UsersRepository = &repositories.UsersRepository{
    Db: h.ApiContext.Db,
  }
  h.CommentsRepository = &repositories.CommentsRepository{
    Db:   h.ApiContext.Db,
    Nats: h.ApiContext.Nats,
  }
  h.ReactionsRepository = &repositories.ReactionsRepository{
    Db: h.ApiContext.Db,
  }
  h.MediaPhotosRepository = &mediaRepositories.PhotosRepository{
    Db: h.ApiContext.Db,
  }
  h.MediaVideosRepository = &mediaRepositories.VideosRepository{
    Db: h.ApiContext.Db,
  }

  r := chi.NewRouter()
  r.Get("/", h.Listings)
  r.Group(func(r chi.Router) {
    r.Use(api.Authenticator(apiContext))
    r.Post("/", h.Create)
    r.Get("/{id}", h.Get)
    r.Post("/{id}", h.Update)
    r.Post("/{id}/delete", h.Delete)

    reactions := NewReactionsHandler(apiContext)
    r.Post("/{id}/like", reactions.Like)
    r.Post("/{id}/dislike", reactions.Dislike)

    comments := NewCommentsHandler(apiContext)
    r.Get("/{id}/comments", comments.Listings)
    r.Post("/{id}/comments", comments.Create)
  })
  return r
}

func (h *TweetsHandler) Listings(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  var current int
  if !r.URL.Query().Has("current") {
    current = 1
  }
  current, _ = strconv.Atoi(r.URL.Query().Get("current"))
  if current < 1 {
    current = 1
  }

  var pageSize int
  if !r.URL.Query().Has("page_size") {
    pageSize = 50
  } else {
    pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
  }
  if pageSize < 1 || pageSize > 100 {
    h.Response.Error(http.StatusForbidden, 1004, "page size not valid")
    return
  }

  conditions := make(map[string]interface{})

  if r.URL.Query().Get("account") != "" {
    conditions["account"] = r.URL.Query().Get("account")
  }

  hash := md5.Sum([]byte(fmt.Sprintf("%v", conditions)))
  redisKey := fmt.Sprintf(
    config.REDIS_KEY_TWEETS_COUNT,
    hex.EncodeToString(hash[:]),
  )
  var total int64
  val, _ := h.ApiContext.Rdb.Get(h.ApiContext.Ctx, redisKey).Result()
  if val == "" {
    total = h.Repository.Count(conditions)
    h.ApiContext.Rdb.SetEX(h.ApiContext.Ctx, redisKey, total, time.Minute*15)
  } else {
    total, _ = strconv.ParseInt(val, 10, 64)
  }

  tweets := h.Repository.Listings(conditions, current, pageSize)
  data := make([]*TweetInfo, len(tweets))
  for i, tweet := range tweets {
    data[i] = h.info(tweet)
  }

  h.Response.Pagenate(data, total, current, pageSize)
}

func (h *TweetsHandler) Get(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  id := chi.URLParam(r, "id")
  tweet, err := h.Repository.Find(id)
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1003, "tweet not found")
    return
  }

  user := api.CurrentUser(r)

  info := h.info(tweet)

  comments := h.CommentsRepository.Listings(tweet.ID, 1, 50)
  data := make([]*CommentInfo, len(comments))
  for i, comment := range comments {
    data[i] = &CommentInfo{
      ID:        comment.ID,
      Content:   comment.Content,
      CreatedAt: comment.CreatedAt.Format(time.RFC3339),
      IsOwner:   comment.UserID == user.ID,
    }
    if author, err := h.UsersRepository.Find(comment.UserID); err == nil {
      data[i].Username = author.Account
    }
  }

  h.Response.Json(map[string]interface{}{
    "success":  true,
    "tweet":    info,
    "comments": data,
  })
}

func (h *TweetsHandler) Create(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  user := api.CurrentUser(r)

  r.ParseMultipartForm(32 << 20)

  content := r.Form.Get("content")
  imgUrl := r.Form.Get("img_url")

  if err := h.Repository.Validate(content); err != nil {
    h.Response.Error(http.StatusForbidden, 1004, err.Error())
    return
  }

  var img string
  if file, _, err := r.FormFile("img"); err == nil {
    defer file.Close()
    img, err = h.MediaPhotosRepository.Upload(file)
    if err != nil {
      h.Response.Error(http.StatusForbidden, 1004, err.Error())
      return
    }
  }

  var video string
  if file, _, err := r.FormFile("video"); err == nil {
    defer file.Close()
    video, err = h.MediaVideosRepository.Upload(file)
    if err != nil {
      h.release(img, video)
      h.Response.Error(http.StatusForbidden, 1004, err.Error())
      return
    }
  }

  media := h.media(img, video)

  _, err := h.Repository.Create(user.ID, content, imgUrl, img, video, media)
  if err != nil {
    h.release(img, video)
    h.Response.Error(http.StatusForbidden, 1004, err.Error())
    return
  }

  http.Redirect(w, r, "/v1/tweets", http.StatusFound)
}

func (h *TweetsHandler) Update(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  id := chi.URLParam(r, "id")
  tweet, err := h.Repository.Find(id)
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1003, "tweet not found")
    return
  }

  user := api.CurrentUser(r)
  if tweet.UserID != user.ID {
    http.Redirect(w, r, "/v1/tweets", http.StatusFound)
    return
  }

  r.ParseMultipartForm(32 << 20)

  values := make(map[string]interface{})
  if r.Form.Has("content") {
    content := r.Form.Get("content")
    if err := h.Repository.Validate(content); err != nil {
      h.Response.Error(http.StatusForbidden, 1004, err.Error())
      return
    }
    values["content"] = content
  }
  if r.Form.Has("img_url") {
    values["img_url"] = r.Form.Get("img_url")
  }

  var freshImg string
  if file, _, err := r.FormFile("img"); err == nil {
    defer file.Close()
    freshImg, err = h.MediaPhotosRepository.Upload(file)
    if err != nil {
      h.Response.Error(http.StatusForbidden, 1004, err.Error())
      return
    }
    values["img"] = freshImg
  }

  var freshVideo string
  if file, _, err := r.FormFile("video"); err == nil {
    defer file.Close()
    freshVideo, err = h.MediaVideosRepository.Upload(file)
    if err != nil {
      h.release(freshImg, "")
      h.Response.Error(http.StatusForbidden, 1004, err.Error())
      return
    }
    values["video"] = freshVideo
  }

  img := tweet.Img
  if freshImg != "" {
    img = freshImg
  } else if v, ok := values["img_url"]; ok && v.(string) != tweet.ImgUrl {
    img = ""
  }
  video := tweet.Video
  if freshVideo != "" {
    video = freshVideo
  }
  if img != tweet.Img || video != tweet.Video {
    values["media"] = h.media(img, video)
  }

  err = h.Repository.Update(tweet, user.ID, values)
  if err != nil {
    h.release(freshImg, freshVideo)
    h.Response.Error(http.StatusForbidden, 1004, err.Error())
    return
  }

  http.Redirect(w, r, "/v1/tweets", http.StatusFound)
}

func (h *TweetsHandler) Delete(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  id := chi.URLParam(r, "id")
  tweet, err := h.Repository.Find(id)
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1003, "tweet not found")
    return
  }

  user := api.CurrentUser(r)

  if err := h.Repository.Delete(tweet, user.ID); err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }

  http.Redirect(w, r, "/v1/tweets", http.StatusFound)
}

func (h *TweetsHandler) info(tweet *models.Tweet) *TweetInfo {
  likes, dislikes := h.ReactionsRepository.Totals(tweet.ID)
  info := &TweetInfo{
    ID:            tweet.ID,
    Content:       tweet.Content,
    ImgUrl:        tweet.ImgUrl,
    Media:         tweet.Media,
    TotalLikes:    likes,
    TotalDislikes: dislikes,
    TotalComments: h.commentsTotal(tweet.ID),
    CreatedAt:     tweet.CreatedAt.Format(time.RFC3339),
    UpdatedAt:     tweet.UpdatedAt.Format(time.RFC3339),
  }
  if tweet.Img != "" {
    info.ImgUrl = h.MediaPhotosRepository.Url(tweet.Img)
  }
  if tweet.Video != "" {
    info.VideoUrl = h.MediaVideosRepository.Url(tweet.Video)
  }
  if user, err := h.UsersRepository.Find(tweet.UserID); err == nil {
    info.Username = user.Account
  }
  return info
}

func (h *TweetsHandler) media(img string, video string) datatypes.JSONMap {
  media := make(map[string]interface{})
  if img != "" {
    if photo, err := h.MediaPhotosRepository.Get(filehash(img)); err == nil {
      media["img"] = map[string]interface{}{
        "mime":   photo.Mime,
        "width":  photo.Width,
        "height": photo.Height,
        "size":   photo.Size,
      }
    }
  }
  if video != "" {
    if entity, err := h.MediaVideosRepository.Get(filehash(video)); err == nil {
      media["video"] = map[string]interface{}{
        "mime": entity.Mime,
        "size": entity.Size,
      }
    }
  }
  return common.JSONMap(media)
}

func (h *TweetsHandler) commentsTotal(tweetID string) int64 {
  redisKey := fmt.Sprintf(config.REDIS_KEY_COMMENTS_COUNT, tweetID)
  if val, _ := h.ApiContext.Rdb.Get(h.ApiContext.Ctx, redisKey).Result(); val != "" {
    total, _ := strconv.ParseInt(val, 10, 64)
    return total
  }
  total := h.CommentsRepository.Count(tweetID)
  h.ApiContext.Rdb.SetEX(h.ApiContext.Ctx, redisKey, total, time.Minute*15)
  return total
}

func (h *TweetsHandler) release(img string, video string) {
  if img != "" {
    h.MediaPhotosRepository.Release(img)
  }
  if video != "" {
    h.MediaVideosRepository.Release(video)
  }
}

func filehash(path string) string {
  name := path
  if pos := strings.LastIndex(name, "/"); pos != -1 {
    name = name[pos+1:]
  }
  if pos := strings.LastIndex(name, "."); pos != -1 {
    name = name[:pos]
  }
  return name
}
