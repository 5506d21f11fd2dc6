package commands

import (
  "log"

  "github.com/urfave/cli/v2"
  "gorm.io/gorm"

  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/config"
  mediaRepositories "tweets.local/tweet-api/repositories/media"
)

type MediaHandler struct {
  Db                    *gorm.DB
  MediaPhotosRepository *mediaRepositories.PhotosRepository
  MediaVideosRepository *mediaRepositories.VideosRepository
}

func NewMediaCommand() *cli.Command {
  var h MediaHandler
  return &cli.Command{
    Name:  "media",
    Usage: "",
    Before: func(c *cli.Context) error {
      h = MediaHandler{
        Db: common.NewDB(),
      }
      h.MediaPhotosRepository = &mediaRepositories.PhotosRepository{
        Db: h.Db,
      }
      h.MediaVideosRepository = &mediaRepositories.VideosRepository{
        Db: h.Db,
      }
      return nil
    },
    Subcommands: []*cli.Command{
      {
        Name:  "release",
        Usage: "",
        Action: func(c *cli.Context) error {
          kind := c.Args().Get(0)
          if kind == "" {
            log.Fatal("kind can not be empty")
            return nil
          }
          path := c.Args().Get(1)
          if path == "" {
            log.Fatal("path can not be empty")
            return nil
          }
          if err := h.Release(kind, path); err != nil {
            return cli.Exit(err.Error(), 1)
          }
          return nil
        },
      },
    },
  }
}

func (h *MediaHandler) Release(kind string, path string) error {
  log.Println("media release...")
  if kind == config.MEDIA_KIND_VIDEO {
    return h.MediaVideosRepository.Release(path)
  }
  return h.MediaPhotosRepository.Release(path)
}
