package media

import (
  "crypto/sha1"
  "encoding/hex"
  "errors"
  "fmt"
  "hash/crc32"
  "image"
  "io"
  "log"
  "math/rand"
  "net"
  "net/http"
  "os"
  "strings"
  "time"

  _ "image/gif"
  _ "image/jpeg"
  _ "image/png"

  "github.com/PuerkitoBio/goquery"
  "github.com/h2non/filetype"
  "github.com/rs/xid"
  "golang.org/x/sys/unix"
  "gorm.io/gorm"

  "tweets.local/tweet-api/common"
  models "tweets.local/tweet-api/models/media"
)

type PhotosRepository struct {
  Db *gorm.DB
}

func (r *PhotosRepository) Find(id string) (entity *models.Photo, err error) {
  err = r.Db.First(&entity, "id=?", id).Error
  return
}

func (r *PhotosRepository) Get(filehash string) (entity *models.Photo, err error) {
  err = r.Db.Where("filehash=?", filehash).Take(&entity).Error
  return
}

func (r *PhotosRepository) Upload(src io.Reader) (path string, err error) {
  var stat unix.Statfs_t
  unix.Statfs(common.GetEnvString("STORAGE_PATH"), &stat)
  freeGB := int(stat.Bavail * uint64(stat.Bsize) / 1073741824)
  if freeGB < 1 {
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

  kind, _ := filetype.Image(head[:n])
  if kind == filetype.Unknown {
    err = errors.New("unknow filetype")
    return
  }

  info, err := dst.Stat()
  if err != nil {
    return
  }

  if _, err = dst.Seek(0, 0); err != nil {
    return
  }

  config, _, err := image.DecodeConfig(dst)
  if err != nil {
    return
  }

  filehash := hex.EncodeToString(hash.Sum(nil))
  crc32q := crc32.MakeTable(0xD5828281)
  i := crc32.Checksum([]byte(filehash), crc32q)
  localpath := fmt.Sprintf(
    "%s/photos/%d/%d",
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

  var photo *models.Photo
  result := r.Db.Where("filehash=?", filehash).Take(&photo)
  if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
    err = result.Error
    return
  }
  if errors.Is(result.Error, gorm.ErrRecordNotFound) {
    photo = &models.Photo{
      ID:        xid.New().String(),
      Mime:      kind.MIME.Value,
      Width:     config.Width,
      Height:    config.Height,
      Size:      info.Size(),
      Node:      common.GetEnvInt("STORAGE_NODE"),
      Filehash:  filehash,
      Extension: kind.Extension,
      Timestamp: time.Now().UnixMilli(),
      Status:    1,
    }
    if err = r.Db.Create(&photo).Error; err != nil {
      return
    }
    if err = os.Rename(tmpfile, localfile); err != nil {
      return
    }
  }

  path = fmt.Sprintf(
    "photos/%d/%d/%s.%s",
    i/233%50,
    i/89%50,
    filehash,
    kind.Extension,
  )

  return
}

func (r *PhotosRepository) Release(path string) (err error) {
  localfile := fmt.Sprintf(
    "%s/%s",
    common.GetEnvString("STORAGE_PATH"),
    path,
  )
  if err := os.Remove(localfile); err != nil && !os.IsNotExist(err) {
    log.Println("photos release", path, err)
  }

  name := path
  if pos := strings.LastIndex(name, "/"); pos != -1 {
    name = name[pos+1:]
  }
  filehash := name
  if pos := strings.LastIndex(filehash, "."); pos != -1 {
    filehash = filehash[:pos]
  }

  var photo *models.Photo
  if err := r.Db.Where("filehash=?", filehash).Take(&photo).Error; err == nil {
    r.Db.Delete(&photo)
  }

  return nil
}

func (r *PhotosRepository) Url(path string) string {
  return fmt.Sprintf(
    "%s/%s",
    common.GetEnvString("STORAGE_URL"),
    path,
  )
}

func (r *PhotosRepository) Resolve(url string) (resolved string, err error) {
  httpClient := r.httpClient()

  req, _ := http.NewRequest("GET", url, nil)
  resp, err := httpClient.Do(req)
  if err != nil {
    return
  }
  defer resp.Body.Close()

  if resp.StatusCode != http.StatusOK {
    err = errors.New(
      fmt.Sprintf(
        "request error: status[%s] code[%d]",
        resp.Status,
        resp.StatusCode,
      ),
    )
    return
  }

  resolved = url
  if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
    return
  }

  doc, err := goquery.NewDocumentFromReader(resp.Body)
  if err != nil {
    return
  }

  if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && content != "" {
    resolved = content
    return
  }
  if src, ok := doc.Find("img").First().Attr("src"); ok && src != "" {
    resolved = src
  }

  return
}

func (r *PhotosRepository) Config(url string) (config image.Config, err error) {
  httpClient := r.httpClient()

  req, _ := http.NewRequest("GET", url, nil)
  resp, err := httpClient.Do(req)
  if err != nil {
    return
  }
  defer resp.Body.Close()

  if resp.StatusCode != http.StatusOK {
    err = errors.New(
      fmt.Sprintf(
        "request error: status[%s] code[%d]",
        resp.Status,
        resp.StatusCode,
      ),
    )
    return
  }

  config, _, err = image.DecodeConfig(resp.Body)
  return
}

func (r *PhotosRepository) httpClient() *http.Client {
  tr := &http.Transport{
    DisableKeepAlives: true,
  }
  if common.GetEnvString("MEDIA_PROXY") != "" {
    tr.DialContext = (&common.ProxySession{
      Proxy: common.GetEnvString("MEDIA_PROXY"),
    }).DialContext
  } else {
    tr.DialContext = (&net.Dialer{}).DialContext
  }
  return &http.Client{
    Transport: tr,
    Timeout:   time.Duration(30) * time.Second,
  }
}
