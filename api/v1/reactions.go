package v1

import (
  "net/http"

  "github.com/go-chi/chi/v5"

  "tweets.local/tweet-api/api"
  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/repositories"
)

type ReactionsHandler struct {
  ApiContext       *common.ApiContext
  Response         *api.ResponseHandler
  Repository       *repositories.ReactionsRepository
  TweetsRepository *repositories.TweetsRepository
}

func NewReactionsHandler(apiContext *common.ApiContext) *ReactionsHandler {
  h := &ReactionsHandler{
    ApiContext: apiContext,
  }
  h.Repository = &repositories.ReactionsRepository{
    Db: h.ApiContext.Db,
  }
  h.TweetsRepository = &repositories.TweetsRepository{
    Db: h.ApiContext.Db,
  }
  return h
}

func (h *ReactionsHandler) Like(
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

  active, err := h.Repository.Toggle(tweet.ID, user.ID, config.REACTION_KIND_LIKE)
  if err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }

  likes, dislikes := h.Repository.Totals(tweet.ID)
  h.Response.Json(map[string]interface{}{
    "liked":          active,
    "total_likes":    likes,
    "total_dislikes": dislikes,
  })
}

func (h *ReactionsHandler) Dislike(
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

  active, err := h.Repository.Toggle(tweet.ID, user.ID, config.REACTION_KIND_DISLIKE)
  if err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }

  likes, dislikes := h.Repository.Totals(tweet.ID)
  h.Response.Json(map[string]interface{}{
    "disliked":       active,
    "total_likes":    likes,
    "total_dislikes": dislikes,
  })
}
