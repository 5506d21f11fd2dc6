package tasks

import (
  "log"
  "time"

  "github.com/hibiken/asynq"

  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/queue/asynq/jobs"
  "tweets.local/tweet-api/repositories"
)

type MediaTask struct {
  Job             *jobs.Media
  AnsqContext     *common.AnsqClientContext
  TasksRepository *repositories.TasksRepository
}

func NewMediaTask(ansqContext *common.AnsqClientContext) *MediaTask {
  return &MediaTask{
    Job:         &jobs.Media{},
    AnsqContext: ansqContext,
    TasksRepository: &repositories.TasksRepository{
      Db: ansqContext.Db,
    },
  }
}

func (t *MediaTask) Import(limit int) (err error) {
  log.Println("tasks media import")
  tasks := t.TasksRepository.Ranking(
    []string{"id", "params", "timestamp"},
    map[string]interface{}{
      "action": config.TASK_ACTION_MEDIA_IMPORT,
    },
    "timestamp",
    1,
    limit,
  )
  for _, task := range tasks {
    if job, err := t.Job.Import(task.ID); err == nil {
      t.AnsqContext.Conn.Enqueue(
        job,
        asynq.Queue(config.ASYNQ_QUEUE_MEDIA),
        asynq.MaxRetry(0),
        asynq.Timeout(2*time.Minute),
      )
    }
  }
  return
}

func (t *MediaTask) Release(limit int) (err error) {
  log.Println("tasks media release")
  tasks := t.TasksRepository.Ranking(
    []string{"id", "params", "timestamp"},
    map[string]interface{}{
      "action": config.TASK_ACTION_MEDIA_RELEASE,
    },
    "timestamp",
    1,
    limit,
  )
  for _, task := range tasks {
    if job, err := t.Job.Release(task.ID); err == nil {
      t.AnsqContext.Conn.Enqueue(
        job,
        asynq.Queue(config.ASYNQ_QUEUE_MEDIA),
        asynq.MaxRetry(0),
        asynq.Timeout(2*time.Minute),
      )
    }
  }
  return
}
