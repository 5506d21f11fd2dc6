package nats

import (
  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/queue/nats/workers"
)

type Workers struct {
  NatsContext *common.NatsContext
}

func NewWorkers(natsContext *common.NatsContext) *Workers {
  return &Workers{
    NatsContext: natsContext,
  }
}

func (h *Workers) Subscribe() error {
  workers.NewTweets(h.NatsContext).Subscribe()
  workers.NewComments(h.NatsContext).Subscribe()
  workers.NewMedia(h.NatsContext).Subscribe()
  return nil
}
