package commands

import (
  "log"

  "github.com/urfave/cli/v2"
  "gorm.io/gorm"

  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/repositories"
)

type UsersHandler struct {
  Db         *gorm.DB
  Repository *repositories.UsersRepository
}

func NewUsersCommand() *cli.Command {
  var h UsersHandler
  return &cli.Command{
    Name:  "users",
    Usage: "",
    Before: func(c *cli.Context) error {
      h = UsersHandler{
        Db: common.NewDB(),
      }
      h.Repository = &repositories.UsersRepository{
        Db: h.Db,
      }
      return nil
    },
    Subcommands: []*cli.Command{
      {
        Name:  "create",
        Usage: "",
        Action: func(c *cli.Context) error {
          account := c.Args().Get(0)
          if account == "" {
            log.Fatal("account can not be empty")
            return nil
          }
          password := c.Args().Get(1)
          if password == "" {
            log.Fatal("password can not be empty")
            return nil
          }
          if err := h.Create(account, password); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
    },
  }
}

func (h *UsersHandler) Create(account string, password string) error {
  log.Println("users create...")
  id, err := h.Repository.Create(account, password)
  if err != nil {
    return err
  }
  log.Println("user created", id)
  return nil
}
