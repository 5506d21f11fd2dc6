package jwt

import (
  "encoding/json"
  "errors"
  "time"

  "github.com/lestrrat/go-jwx/jwa"
  "github.com/lestrrat/go-jwx/jws"

  "tweets.local/tweet-api/common"
)

type TokenRepository struct{}

type Claims struct {
  Uid       string `json:"uid"`
  ExpiredAt int64  `json:"expired_at"`
}

func (r *TokenRepository) AccessToken(userID string) (string, error) {
  return r.sign(userID, time.Now().Add(30*time.Minute))
}

func (r *TokenRepository) RefreshToken(userID string) (string, error) {
  return r.sign(userID, time.Now().Add(30*24*time.Hour))
}

func (r *TokenRepository) Uid(token string) (uid string, err error) {
  payload, err := jws.Verify(
    []byte(token),
    jwa.HS256,
    []byte(common.GetEnvString("JWT_SECRET")),
  )
  if err != nil {
    return
  }
  var claims Claims
  if err = json.Unmarshal(payload, &claims); err != nil {
    return
  }
  if claims.ExpiredAt < time.Now().Unix() {
    err = errors.New("token has been expired")
    return
  }
  uid = claims.Uid
  return
}

func (r *TokenRepository) sign(userID string, expiredAt time.Time) (token string, err error) {
  payload, err := json.Marshal(&Claims{
    Uid:       userID,
    ExpiredAt: expiredAt.Unix(),
  })
  if err != nil {
    return
  }
  buf, err := jws.Sign(
    payload,
    jwa.HS256,
    []byte(common.GetEnvString("JWT_SECRET")),
  )
  if err != nil {
    return
  }
  token = string(buf)
  return
}
