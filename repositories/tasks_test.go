package repositories

import (
  "testing"
  "time"

  "tweets.local/tweet-api/config"
  "tweets.local/tweet-api/models"
)

func TestApplyTask(t *testing.T) {
  db := newTestDB(t)
  r := &TasksRepository{Db: db}

  err := r.Apply("abc@media.release", config.TASK_ACTION_MEDIA_RELEASE, map[string]interface{}{
    "kind": config.MEDIA_KIND_PHOTO,
    "path": "photos/1/2/abc.png",
  })
  if err != nil {
    t.Fatalf("apply: %v", err)
  }

  // same name is idempotent
  if err := r.Apply("abc@media.release", config.TASK_ACTION_MEDIA_RELEASE, nil); err != nil {
    t.Fatalf("apply again: %v", err)
  }

  var total int64
  db.Model(&models.Task{}).Count(&total)
  if total != 1 {
    t.Fatalf("expected single task, got %d", total)
  }
}

func TestTaskRanking(t *testing.T) {
  db := newTestDB(t)
  r := &TasksRepository{Db: db}

  names := []string{"a@media.import", "b@media.import", "c@media.import"}
  for _, name := range names {
    if err := r.Apply(name, config.TASK_ACTION_MEDIA_IMPORT, nil); err != nil {
      t.Fatalf("apply: %v", err)
    }
    time.Sleep(5 * time.Millisecond)
  }
  if err := r.Apply("d@media.release", config.TASK_ACTION_MEDIA_RELEASE, nil); err != nil {
    t.Fatalf("apply: %v", err)
  }

  tasks := r.Ranking(
    []string{"id", "name", "params"},
    map[string]interface{}{
      "action": config.TASK_ACTION_MEDIA_IMPORT,
    },
    "timestamp",
    1,
    2,
  )
  if len(tasks) != 2 {
    t.Fatalf("expected 2 tasks, got %d", len(tasks))
  }
  if tasks[0].Name != "a@media.import" || tasks[1].Name != "b@media.import" {
    t.Fatalf("expected oldest first, got %q, %q", tasks[0].Name, tasks[1].Name)
  }
}

func TestDeleteTask(t *testing.T) {
  db := newTestDB(t)
  r := &TasksRepository{Db: db}

  if err := r.Apply("a@media.import", config.TASK_ACTION_MEDIA_IMPORT, nil); err != nil {
    t.Fatalf("apply: %v", err)
  }
  tasks := r.Ranking([]string{"id"}, map[string]interface{}{}, "timestamp", 1, 1)
  if len(tasks) != 1 {
    t.Fatalf("expected 1 task, got %d", len(tasks))
  }

  if err := r.Delete(tasks[0].ID); err != nil {
    t.Fatalf("delete: %v", err)
  }
  var total int64
  db.Model(&models.Task{}).Count(&total)
  if total != 0 {
    t.Fatalf("expected no tasks, got %d", total)
  }
}
