package jobs

import (
  "encoding/json"

  "github.com/hibiken/asynq"

  "tweets.local/tweet-api/config"
)

type Media struct{}

type MediaPayload struct {
  TaskID string
}

func (h *Media) Import(taskID string) (*asynq.Task, error) {
  payload, err := json.Marshal(MediaPayload{taskID})
  if err != nil {
    return nil, err
  }
  return asynq.NewTask(config.ASYNQ_JOBS_MEDIA_IMPORT, payload), nil
}

func (h *Media) Release(taskID string) (*asynq.Task, error) {
  payload, err := json.Marshal(MediaPayload{taskID})
  if err != nil {
    return nil, err
  }
  return asynq.NewTask(config.ASYNQ_JOBS_MEDIA_RELEASE, payload), nil
}
