package repositories

import (
  "errors"

  "github.com/rs/xid"
  "gorm.io/gorm"

  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/models"
)

type UsersRepository struct {
  Db *gorm.DB
}

func (r *UsersRepository) Find(id string) (entity *models.User, err error) {
  err = r.Db.First(&entity, "id=?", id).Error
  return
}

func (r *UsersRepository) Get(account string) *models.User {
  var entity models.User
  result := r.Db.Where(
    "account=?",
    account,
  ).Take(&entity)
  if errors.Is(result.Error, gorm.ErrRecordNotFound) {
    return nil
  }

  return &entity
}

func (r *UsersRepository) Create(account string, password string) (id string, err error) {
  var entity models.User
  result := r.Db.Where(
    "account=?",
    account,
  ).Take(&entity)
  if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
    return "", errors.New("account already exists")
  }
  salt := common.GenerateSalt(16)
  hashedPassword := common.GeneratePassword(password, salt)

  id = xid.New().String()
  entity = models.User{
    ID:       id,
    Account:  account,
    Password: hashedPassword,
    Salt:     salt,
    Status:   1,
  }
  err = r.Db.Create(&entity).Error
  return
}
