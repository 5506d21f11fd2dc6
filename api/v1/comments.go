package v1

import (
  "io"
  "net/http"
  "strconv"
  "strings"
  "time"

  "github.com/go-chi/chi/v5"
  "github.com/tidwall/gjson"

  "tweets.local/tweet-api/api"
  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/repositories"
)

type CommentsHandler struct {
  ApiContext       *common.ApiContext
  Response         *api.ResponseHandler
  Repository       *repositories.CommentsRepository
  TweetsRepository *repositories.TweetsRepository
  UsersRepository  *repositories.UsersRepository
}

type CommentInfo struct {
  ID        string `json:"id"`
  Username  string `json:"username"`
  Content   string `json:"content"`
  CreatedAt string `json:"created_at"`
  IsOwner   bool   `json:"is_owner"`
}

func NewCommentsHandler(apiContext *common.ApiContext) *CommentsHandler {
  h := &CommentsHandler{
    ApiContext: apiContext,
  }
  h.Repository = &repositories.CommentsRepository{
    Db:   h.ApiContext.Db,
    Nats: h.ApiContext.Nats,
  }
  h.TweetsRepository = &repositories.TweetsRepository{
    Db: h.ApiContext.Db,
  }
  h.UsersRepository = &repositories.UsersRepository{
    Db: h.ApiContext.Db,
  }
  return h
}

func (h *CommentsHandler) Create(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  id := chi.URLParam(r, "id")
  tweet, err := h.TweetsRepository.Find(id)
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1003, "tweet not found")
    return
  }

  user := api.CurrentUser(r)

  var content string
  if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
    body, _ := io.ReadAll(r.Body)
    content = gjson.GetBytes(body, "content").String()
  } else {
    r.ParseForm()
    content = r.Form.Get("content")
  }

  comment, err := h.Repository.Create(tweet.ID, user.ID, content)
  if err != nil {
    h.Response.Json(map[string]interface{}{
      "success": false,
      "error":   err.Error(),
    })
    return
  }

  h.Response.Json(map[string]interface{}{
    "success":        true,
    "comment_id":     comment.ID,
    "username":       user.Account,
    "content":        comment.Content,
    "created_at":     comment.CreatedAt.Format(time.RFC3339),
    "total_comments": h.Repository.Count(tweet.ID),
  })
}

func (h *CommentsHandler) Listings(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  id := chi.URLParam(r, "id")
  tweet, err := h.TweetsRepository.Find(id)
  if err != nil {
    h.Response.Error(http.StatusNotFound, 1003, "tweet not found")
    return
  }

  user := api.CurrentUser(r)

  current, _ := strconv.Atoi(r.URL.Query().Get("current"))
  if current < 1 {
    current = 1
  }
  pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
  if pageSize < 1 || pageSize > 100 {
    pageSize = 50
  }

  comments := h.Repository.Listings(tweet.ID, current, pageSize)
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
    "success":        true,
    "comments":       data,
    "total_comments": h.Repository.Count(tweet.ID),
  })
}
