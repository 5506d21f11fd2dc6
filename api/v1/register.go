package v1

import (
  "net/http"

  "github.com/go-chi/chi/v5"

  "tweets.local/tweet-api/api"
  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/repositories"
  jwtRepositories "tweets.local/tweet-api/repositories/jwt"
)

type RegisterHandler struct {
  ApiContext      *common.ApiContext
  Response        *api.ResponseHandler
  UsersRepository *repositories.UsersRepository
  TokenRepository *jwtRepositories.TokenRepository
}

func NewRegisterRouter(apiContext *common.ApiContext) http.Handler {
  h := RegisterHandler{
    ApiContext: apiContext,
  }
  h.UsersRepository = &repositories.UsersRepository{
    Db: h.ApiContext.Db,
  }

  r := chi.NewRouter()
  r.Post("/", h.Do)

  return r
}

func (h *RegisterHandler) Token() *jwtRepositories.TokenRepository {
  if h.TokenRepository == nil {
    h.TokenRepository = &jwtRepositories.TokenRepository{}
  }
  return h.TokenRepository
}

func (h *RegisterHandler) Do(
  w http.ResponseWriter,
  r *http.Request,
) {
  h.Response = &api.ResponseHandler{
    Writer: w,
  }

  r.ParseMultipartForm(1024)

  if r.Form.Get("account") == "" {
    h.Response.Error(http.StatusForbidden, 1004, "account is empty")
    return
  }

  if r.Form.Get("password") == "" {
    h.Response.Error(http.StatusForbidden, 1004, "password is empty")
    return
  }

  account := r.Form.Get("account")
  password := r.Form.Get("password")

  id, err := h.UsersRepository.Create(account, password)
  if err != nil {
    h.Response.Error(http.StatusForbidden, 1000, err.Error())
    return
  }

  accessToken, err := h.Token().AccessToken(id)
  if err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }
  refreshToken, err := h.Token().RefreshToken(id)
  if err != nil {
    h.Response.Error(http.StatusInternalServerError, 500, "server error")
    return
  }

  token := &Token{
    AccessToken:  accessToken,
    RefreshToken: refreshToken,
  }

  h.Response.Json(token)
}
