package workers

import (
  "crypto/md5"
  "encoding/hex"
  "encoding/json"
  "fmt"
  "time"

  "github.com/nats-io/nats.go"

  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/repositories"
)

type Media struct {
  NatsContext *common.NatsContext
  Repository  *repositories.TasksRepository
}

type MediaReleasePayload struct {
  Kind string `json:"kind"`
  Path string `json:"path"`
}

func NewMedia(natsContext *common.NatsContext) *Media {
  h := &Media{
    NatsContext: natsContext,
  }
  h.Repository = &repositories.TasksRepository{
    Db: h.NatsContext.Db,
  }
  return h
}

func (h *Media) Subscribe() error {
  h.NatsContext.Conn.Subscribe(config.NATS_MEDIA_RELEASE, h.Apply)
  return nil
}

func (h *Media) Apply(m *nats.Msg) {
  var payload *MediaReleasePayload
  json.Unmarshal(m.Data, &payload)

  hash := md5.Sum([]byte(payload.Path))
  mutex := common.NewMutex(
    h.NatsContext.Rdb,
    h.NatsContext.Ctx,
    fmt.Sprintf(config.LOCKS_TASKS_MEDIA_RELEASE_APPLY, hex.EncodeToString(hash[:])),
  )
  if !mutex.Lock(3 * time.Second) {
    return
  }
  defer mutex.Unlock()

  name := fmt.Sprintf("%v@media.release", hex.EncodeToString(hash[:]))
  action := config.TASK_ACTION_MEDIA_RELEASE
  params := map[string]interface{}{
    "kind": payload.Kind,
    "path": payload.Path,
  }
  h.Repository.Apply(name, action, params)
}
