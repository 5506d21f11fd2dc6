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

type Tweets struct {
  NatsContext      *common.NatsContext
  Repository       *repositories.TasksRepository
  TweetsRepository *repositories.TweetsRepository
}

type TweetsCreatePayload struct {
  ID string `json:"id"`
}

func NewTweets(natsContext *common.NatsContext) *Tweets {
  h := &Tweets{
    NatsContext: natsContext,
  }
  h.Repository = &repositories.TasksRepository{
    Db: h.NatsContext.Db,
  }
  h.TweetsRepository = &repositories.TweetsRepository{
    Db: h.NatsContext.Db,
  }
  return h
}

func (h *Tweets) Subscribe() error {
  h.NatsContext.Conn.Subscribe(config.NATS_TWEETS_CREATE, h.Apply)
  return nil
}

func (h *Tweets) Apply(m *nats.Msg) {
  var payload *TweetsCreatePayload
  json.Unmarshal(m.Data, &payload)

  mutex := common.NewMutex(
    h.NatsContext.Rdb,
    h.NatsContext.Ctx,
    fmt.Sprintf(config.LOCKS_TASKS_MEDIA_IMPORT_APPLY, payload.ID),
  )
  if !mutex.Lock(3 * time.Second) {
    return
  }
  defer mutex.Unlock()

  tweet, err := h.TweetsRepository.Find(payload.ID)
  if err != nil {
    return
  }
  if tweet.ImgUrl == "" {
    return
  }

  name := fmt.Sprintf("%v@media.import", tweet.ID)
  action := config.TASK_ACTION_MEDIA_IMPORT
  params := map[string]interface{}{
    "tweet_id": tweet.ID,
  }
  h.Repository.Apply(name, action, params)
}
