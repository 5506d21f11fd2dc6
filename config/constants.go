package config

const (
  REDIS_KEY_TWEETS_COUNT   = "tweets:api:tweets:count:%v"
  REDIS_KEY_COMMENTS_COUNT = "tweets:api:comments:count:%v"

  LOCKS_TASKS_MEDIA_IMPORT_APPLY  = "locks:tasks:media:import:apply:%v"
  LOCKS_TASKS_MEDIA_RELEASE_APPLY = "locks:tasks:media:release:apply:%v"
  LOCKS_TASKS_MEDIA_IMPORT        = "locks:tasks:media:import:%v"
  LOCKS_TASKS_MEDIA_RELEASE       = "locks:tasks:media:release:%v"

  NATS_TWEETS_CREATE   = "tweets.create"
  NATS_COMMENTS_CREATE = "comments.create"
  NATS_MEDIA_RELEASE   = "media.release"

  ASYNQ_QUEUE_MEDIA = "media"

  ASYNQ_JOBS_MEDIA_IMPORT  = "media:import"
  ASYNQ_JOBS_MEDIA_RELEASE = "media:release"

  TASK_ACTION_MEDIA_IMPORT  = "media.import"
  TASK_ACTION_MEDIA_RELEASE = "media.release"

  MEDIA_KIND_PHOTO = "photo"
  MEDIA_KIND_VIDEO = "video"

  REACTION_KIND_LIKE    = "like"
  REACTION_KIND_DISLIKE = "dislike"
)
