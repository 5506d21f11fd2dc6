package media

import (
  "crypto/sha1"
  "encoding/hex"
  "errors"
  "fmt"
  "hash/crc32"
  "io"
  "log"
  "math/rand"
  "os"
  "strings"
  "time"

  "github.com/h2non/filetype"
  "github.com/rs/xid"
  "golang.org/x/sys/unix"
  "gorm.io/gorm"

  "tweets.local/tweet-api/common"
  models "tweets.local/tweet-api/models/media"
)

type VideosRepository struct {
  Db *gorm.DB
}

func (r *VideosRepository) Find(id string) (entity *models.Video, err error) {
  err = r.Db.First(&entity, "id=?", id).Error
  return
}

func (r *VideosRepository) Get(filehash string) (entity *models.Video, err error) {
  err = r.Db.Where("filehash=?", filehash).Take(&entity).Error
  return
}

func (r *VideosRepository) Upload(src io.Reader) (path string, err error) {
  var stat unix.Statfs_t
  unix.Statfs(common.GetEnvString("STORAGE_PATH"), &stat)
  freeGB := int(stat.Bavail * uint64(stat.Bsize) / 1073741824)
  if freeGB < 5 {
    err = errors.New("storage space not enough")
    return
  }

  tmppath := fmt.Sprintf(
    "%s/.cache/%d/%d",
    common.GetEnvString("STORAGE_PATH"),
    rand.Intn(50),
    rand.Intn(50),
  )
  err = os.MkdirAll(
    tmppath,
    os.ModePerm,
  )
  if err != nil {
    return
  }

  tmpfile := fmt.Sprintf(
    "%s/%s.upload",
    tmppath,
    xid.New().String(),
  )
  dst, err := os.Create(tmpfile)
  if err != nil {
    return
  }
  defer os.Remove(tmpfile)
  defer dst.Close()

  hash := sha1.New()
  t := io.TeeReader(src, hash)
  _, err = io.Copy(dst, t)
  if err != nil {
    return
  }

  head := make([]byte, 261)
  n, e := dst.ReadAt(head, 0)
  if e != nil && !errors.Is(e, io.EOF) {
    err = e
    return
  }

  kind, _ := filetype.Video(head[:n])
  if kind == filetype.Unknown {
    err = errors.New("unknow filetype")
    return
  }

  info, err := dst.Stat()
  if err != nil {
    return
  }

  filehash := hex.EncodeToString(hash.Sum(nil))
  crc32q := crc32.MakeTable(0xD5828281)
  i := crc32.Checksum([]byte(filehash), crc32q)
  localpath := fmt.Sprintf(
    "%s/videos/%d/%d",
    common.GetEnvString("STORAGE_PATH"),
    i/233%50,
    i/89%50,
  )
  err = os.MkdirAll(localpath, os.ModePerm)
  if err != nil {
    return
  }
  localfile := fmt.Sprintf(
    "%s/%s.%s",
    localpath,
    filehash,
    kind.Extension,
  )

  var video *models.Video
  result := r.Db.Where("filehash=?", filehash).Take(&video)
  if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
    err = result.Error
    return
  }
  if errors.Is(result.Error, gorm.ErrRecordNotFound) {
    video = &models.Video{
      ID:        xid.New().String(),
      Mime:      kind.MIME.Value,
      Size:      info.Size(),
      Node:      common.GetEnvInt("STORAGE_NODE"),
      Filehash:  filehash,
      Extension: kind.Extension,
      Timestamp: time.Now().UnixMilli(),
      Status:    1,
    }
    if err = r.Db.Create(&video).Error; err != nil {
      return
    }
    if err = os.Rename(tmpfile, localfile); err != nil {
      return
    }
  }

  path = fmt.Sprintf(
    "videos/%d/%d/%s.%s",
    i/233%50,
    i/89%50,
    filehash,
    kind.Extension,
  )

  return
}

func (r *VideosRepository) Release(path string) (err error) {
  localfile := fmt.Sprintf(
    "%s/%s",
    common.GetEnvString("STORAGE_PATH"),
    path,
  )
  if err := os.Remove(localfile); err != nil && !os.IsNotExist(err) {
    log.Println("videos release", path, err)
  }

  name := path
  if pos := strings.LastIndex(name, "/"); pos != -1 {
    name = name[pos+1:]
  }
  filehash := name
  if pos := strings.LastIndex(filehash, "."); pos != -1 {
    filehash = filehash[:pos]
  }

  var video *models.Video
  if err := r.Db.Where("filehash=?", filehash).Take(&video).Error; err == nil {
    r.Db.Delete(&video)
  }

  return nil
}

func (r *VideosRepository) Url(path string) string {
  return fmt.Sprintf(
    "%s/%s",
    common.GetEnvString("STORAGE_URL"),
    path,
  )
}
