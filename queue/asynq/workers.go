package asynq

import (
  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/queue/asynq/workers"
)

type Workers struct {
  AnsqContext *common.AnsqServerContext
}

func NewWorkers(ansqContext *common.AnsqServerContext) *Workers {
  return &Workers{
    AnsqContext: ansqContext,
  }
}

func (h *Workers) Register() error {
  workers.NewMedia(h.AnsqContext).Register()
  return nil
}
