package workers

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "time"

  "github.com/hibiken/asynq"
  "gorm.io/gorm"

  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/queue/asynq/jobs"
  "tweets.local/tweet-api/repositories"
  mediaRepositories "tweets.local/tweet-api/repositories/media"
)

type Media struct {
  AnsqContext           *common.AnsqServerContext
  TasksRepository       *repositories.TasksRepository
  TweetsRepository      *repositories.TweetsRepository
  MediaPhotosRepository *mediaRepositories.PhotosRepository
  MediaVideosRepository *mediaRepositories.VideosRepository
}

func NewMedia(ansqContext *common.AnsqServerContext) *Media {
  h := &Media{
    AnsqContext: ansqContext,
  }
  h.TasksRepository = &repositories.TasksRepository{
    Db: h.AnsqContext.Db,
  }
  h.TweetsRepository = &repositories.TweetsRepository{
    Db:   h.AnsqContext.Db,
    Nats: h.AnsqContext.Nats,
  }
  h.MediaPhotosRepository = &mediaRepositories.PhotosRepository{
    Db: h.AnsqContext.Db,
  }
  h.MediaVideosRepository = &mediaRepositories.VideosRepository{
    Db: h.AnsqContext.Db,
  }
  return h
}

func (h *Media) Register() error {
  h.AnsqContext.Mux.HandleFunc(config.ASYNQ_JOBS_MEDIA_IMPORT, h.Import)
  h.AnsqContext.Mux.HandleFunc(config.ASYNQ_JOBS_MEDIA_RELEASE, h.Release)
  return nil
}

func (h *Media) Import(ctx context.Context, t *asynq.Task) error {
  var payload jobs.MediaPayload
  json.Unmarshal(t.Payload(), &payload)

  mutex := common.NewMutex(
    h.AnsqContext.Rdb,
    h.AnsqContext.Ctx,
    fmt.Sprintf(config.LOCKS_TASKS_MEDIA_IMPORT, payload.TaskID),
  )
  if !mutex.Lock(30 * time.Second) {
    return nil
  }
  defer mutex.Unlock()

  task, err := h.TasksRepository.Find(payload.TaskID)
  if err != nil {
    return nil
  }
  if _, ok := task.Params["tweet_id"]; !ok {
    h.TasksRepository.Delete(task.ID)
    return nil
  }
  tweetID := task.Params["tweet_id"].(string)
  tweet, err := h.TweetsRepository.Find(tweetID)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    h.TasksRepository.Delete(task.ID)
    return nil
  }
  if err != nil {
    return err
  }
  if tweet.ImgUrl == "" {
    h.TasksRepository.Delete(task.ID)
    return nil
  }

  resolved, err := h.MediaPhotosRepository.Resolve(tweet.ImgUrl)
  if err != nil {
    return err
  }
  imgConfig, err := h.MediaPhotosRepository.Config(resolved)
  if err != nil {
    return err
  }

  values := map[string]interface{}{
    "media": common.JSONMap(map[string]interface{}{
      "img": map[string]interface{}{
        "width":  imgConfig.Width,
        "height": imgConfig.Height,
      },
    }),
  }
  if resolved != tweet.ImgUrl {
    values["img_url"] = resolved
  }
  if err := h.TweetsRepository.Update(tweet, tweet.UserID, values); err != nil {
    return err
  }

  h.TasksRepository.Delete(task.ID)
  return nil
}

func (h *Media) Release(ctx context.Context, t *asynq.Task) error {
  var payload jobs.MediaPayload
  json.Unmarshal(t.Payload(), &payload)

  mutex := common.NewMutex(
    h.AnsqContext.Rdb,
    h.AnsqContext.Ctx,
    fmt.Sprintf(config.LOCKS_TASKS_MEDIA_RELEASE, payload.TaskID),
  )
  if !mutex.Lock(30 * time.Second) {
    return nil
  }
  defer mutex.Unlock()

  task, err := h.TasksRepository.Find(payload.TaskID)
  if err != nil {
    return nil
  }
  if _, ok := task.Params["path"]; !ok {
    h.TasksRepository.Delete(task.ID)
    return nil
  }
  kind := task.Params["kind"].(string)
  path := task.Params["path"].(string)

  if kind == config.MEDIA_KIND_VIDEO {
    h.MediaVideosRepository.Release(path)
  } else {
    h.MediaPhotosRepository.Release(path)
  }

  h.TasksRepository.Delete(task.ID)
  return nil
}
