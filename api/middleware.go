package api

import (
  "context"
  "net/http"
  "strings"

  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/models"
  "tweets.local/tweet-api/repositories"
  jwtRepositories "tweets.local/tweet-api/repositories/jwt"
)

type contextKey int

const currentUserKey contextKey = 0

const LoginPath = "/v1/login"

// Unauthenticated callers are sent to the login entry point, not given a
// machine readable error.
func Authenticator(apiContext *common.ApiContext) func(http.Handler) http.Handler {
  usersRepository := &repositories.UsersRepository{
    Db: apiContext.Db,
  }
  tokenRepository := &jwtRepositories.TokenRepository{}

  return func(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      header := r.Header.Get("Authorization")
      if !strings.HasPrefix(header, "Bearer ") {
        http.Redirect(w, r, LoginPath, http.StatusFound)
        return
      }
      uid, err := tokenRepository.Uid(strings.TrimPrefix(header, "Bearer "))
      if err != nil {
        http.Redirect(w, r, LoginPath, http.StatusFound)
        return
      }
      user, err := usersRepository.Find(uid)
      if err != nil {
        http.Redirect(w, r, LoginPath, http.StatusFound)
        return
      }
      ctx := context.WithValue(r.Context(), currentUserKey, user)
      next.ServeHTTP(w, r.WithContext(ctx))
    })
  }
}

func CurrentUser(r *http.Request) *models.User {
  user, _ := r.Context().Value(currentUserKey).(*models.User)
  return user
}
