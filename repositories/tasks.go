package repositories

import (
  "errors"
  "fmt"
  "time"

  "github.com/rs/xid"
  "gorm.io/gorm"

  "tweets.local/tweet-api/models"
)

type TasksRepository struct {
  Db *gorm.DB
}

func (r *TasksRepository) Find(id string) (task *models.Task, err error) {
  err = r.Db.First(&task, "id=?", id).Error
  return
}

func (r *TasksRepository) Ranking(
  fields []string,
  conditions map[string]interface{},
  sortField string,
  sortType int,
  limit int,
) []*models.Task {
  var tasks []*models.Task
  query := r.Db.Select(fields)
  if _, ok := conditions["action"]; ok {
    query.Where("action", conditions["action"].(string))
  }
  if _, ok := conditions["timestamp"]; ok {
    if sortType == 1 {
      query.Where("timestamp>?", conditions["timestamp"].(int64))
    } else if sortType == -1 {
      query.Where("timestamp<?", conditions["timestamp"].(int64))
    }
  }
  if _, ok := conditions["status"]; ok {
    query.Where("status", conditions["status"].(int))
  } else {
    query.Where("status=1")
  }
  if sortType == 1 {
    query.Order(fmt.Sprintf("%v ASC", sortField))
  } else if sortType == -1 {
    query.Order(fmt.Sprintf("%v DESC", sortField))
  }
  query.Limit(limit).Find(&tasks)
  return tasks
}

func (r *TasksRepository) Apply(name string, action string, params map[string]interface{}) (err error) {
  var task models.Task
  result := r.Db.Where("name", name).Take(&task)
  if errors.Is(result.Error, gorm.ErrRecordNotFound) {
    task = models.Task{
      ID:        xid.New().String(),
      Name:      name,
      Action:    action,
      Params:    params,
      Timestamp: time.Now().UnixMilli(),
      Status:    1,
    }
    r.Db.Create(&task)
  } else {
    if task.Status != 1 && task.Status != 2 {
      r.Db.Model(&task).Update("status", 1)
    }
  }
  return
}

func (r *TasksRepository) Update(task *models.Task, column string, value interface{}) (err error) {
  r.Db.Model(&task).Update(column, value)
  return nil
}

func (r *TasksRepository) Delete(id string) (err error) {
  r.Db.Delete(&models.Task{ID: id})
  return nil
}
