package workers

import (
  "encoding/json"
  "fmt"
  "time"

  "github.com/nats-io/nats.go"

  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/repositories"
)

type Comments struct {
  NatsContext *common.NatsContext
  Repository  *repositories.CommentsRepository
}

type CommentsCreatePayload struct {
  ID string `json:"id"`
}

func NewComments(natsContext *common.NatsContext) *Comments {
  h := &Comments{
    NatsContext: natsContext,
  }
  h.Repository = &repositories.CommentsRepository{
    Db: h.NatsContext.Db,
  }
  return h
}

func (h *Comments) Subscribe() error {
  h.NatsContext.Conn.Subscribe(config.NATS_COMMENTS_CREATE, h.Apply)
  return nil
}

func (h *Comments) Apply(m *nats.Msg) {
  var payload *CommentsCreatePayload
  json.Unmarshal(m.Data, &payload)

  comment, err := h.Repository.Find(payload.ID)
  if err != nil {
    return
  }

  total := h.Repository.Count(comment.TweetID)
  h.NatsContext.Rdb.SetEX(
    h.NatsContext.Ctx,
    fmt.Sprintf(config.REDIS_KEY_COMMENTS_COUNT, comment.TweetID),
    total,
    time.Minute*15,
  )
}
