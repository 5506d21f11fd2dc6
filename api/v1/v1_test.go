package v1

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "image"
  "image/color"
  "image/png"
  "mime/multipart"
  "net/http"
  "net/http/httptest"
  "os"
  "path/filepath"
  "strings"
  "testing"

  "github.com/go-chi/chi/v5"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "tweets.local/tweet-api/api"
  "tweets.local/tweet-api/common"
  "tweets.local/tweet-api/models"
  mediaModels "tweets.local/tweet-api/models/media"
  "tweets.local/tweet-api/repositories"
  jwtRepositories "tweets.local/tweet-api/repositories/jwt"
)

func newTestContext(t *testing.T) *common.ApiContext {
  t.Helper()
  t.Setenv("JWT_SECRET", "test-secret")
  t.Setenv("STORAGE_PATH", t.TempDir())
  t.Setenv("STORAGE_URL", "http://localhost:9000")
  t.Setenv("STORAGE_NODE", "1")
  db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
  if err != nil {
    t.Fatalf("open db: %v", err)
  }
  err = db.AutoMigrate(
    &models.User{},
    &models.Tweet{},
    &models.Comment{},
    &models.Reaction{},
    &mediaModels.Photo{},
    &mediaModels.Video{},
  )
  if err != nil {
    t.Fatalf("migrate: %v", err)
  }
  return &common.ApiContext{
    Db:  db,
    Ctx: context.Background(),
  }
}

func pngData(t *testing.T, size int) []byte {
  t.Helper()
  img := image.NewRGBA(image.Rect(0, 0, size, size))
  seed := uint32(size)
  for y := 0; y < size; y++ {
    for x := 0; x < size; x++ {
      seed = seed*1664525 + 1013904223
      img.Set(x, y, color.RGBA{uint8(seed), uint8(seed >> 8), uint8(seed >> 16), 255})
    }
  }
  var buf bytes.Buffer
  if err := png.Encode(&buf, img); err != nil {
    t.Fatalf("encode png: %v", err)
  }
  return buf.Bytes()
}

func storedFiles(t *testing.T) (count int) {
  t.Helper()
  filepath.Walk(filepath.Join(os.Getenv("STORAGE_PATH"), "photos"), func(path string, info os.FileInfo, err error) error {
    if err == nil && !info.IsDir() {
      count++
    }
    return nil
  })
  return count
}

func newTestRouter(apiContext *common.ApiContext) http.Handler {
  r := chi.NewRouter()
  r.Mount("/v1/tweets", NewTweetsRouter(apiContext))
  return r
}

func signup(t *testing.T, apiContext *common.ApiContext, account string) (string, string) {
  t.Helper()
  usersRepository := &repositories.UsersRepository{Db: apiContext.Db}
  id, err := usersRepository.Create(account, "s3cret")
  if err != nil {
    t.Fatalf("create user: %v", err)
  }
  tokenRepository := &jwtRepositories.TokenRepository{}
  token, err := tokenRepository.AccessToken(id)
  if err != nil {
    t.Fatalf("sign token: %v", err)
  }
  return id, "Bearer " + token
}

func postTweet(t *testing.T, apiContext *common.ApiContext, userID string, content string) string {
  t.Helper()
  r := &repositories.TweetsRepository{Db: apiContext.Db}
  id, err := r.Create(userID, content, "", "", "", nil)
  if err != nil {
    t.Fatalf("create tweet: %v", err)
  }
  return id
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
  t.Helper()
  var payload map[string]interface{}
  if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
    t.Fatalf("decode response: %v", err)
  }
  return payload
}

func TestAuthenticatorRedirect(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)

  req := httptest.NewRequest("POST", "/v1/tweets", nil)
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  if w.Code != http.StatusFound {
    t.Fatalf("expected 302, got %d", w.Code)
  }
  if location := w.Header().Get("Location"); location != api.LoginPath {
    t.Fatalf("expected redirect to %s, got %q", api.LoginPath, location)
  }
}

func TestAuthenticatorBadToken(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)

  req := httptest.NewRequest("POST", "/v1/tweets", nil)
  req.Header.Set("Authorization", "Bearer not-a-token")
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  if w.Code != http.StatusFound {
    t.Fatalf("expected 302, got %d", w.Code)
  }
}

func TestCreateTweet(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  userID, auth := signup(t, apiContext, "alice")

  var buf bytes.Buffer
  form := multipart.NewWriter(&buf)
  form.WriteField("content", "hello world")
  form.Close()

  req := httptest.NewRequest("POST", "/v1/tweets", &buf)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", form.FormDataContentType())
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  if w.Code != http.StatusFound {
    t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
  }
  if location := w.Header().Get("Location"); location != "/v1/tweets" {
    t.Fatalf("expected redirect to /v1/tweets, got %q", location)
  }

  var tweet models.Tweet
  if err := apiContext.Db.Where("user_id", userID).Take(&tweet).Error; err != nil {
    t.Fatalf("expected tweet persisted: %v", err)
  }
  if tweet.Content != "hello world" {
    t.Fatalf("expected content saved, got %q", tweet.Content)
  }
}

func TestCreateTweetTooLong(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  _, auth := signup(t, apiContext, "alice")

  var buf bytes.Buffer
  form := multipart.NewWriter(&buf)
  form.WriteField("content", strings.Repeat("a", 281))
  form.Close()

  req := httptest.NewRequest("POST", "/v1/tweets", &buf)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", form.FormDataContentType())
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  if w.Code != http.StatusForbidden {
    t.Fatalf("expected 403, got %d", w.Code)
  }
  payload := decode(t, w)
  if payload["success"] != false {
    t.Fatalf("expected failure payload, got %v", payload)
  }
}

func TestGetTweetNotFound(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  _, auth := signup(t, apiContext, "alice")

  req := httptest.NewRequest("GET", "/v1/tweets/missing", nil)
  req.Header.Set("Authorization", auth)
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  if w.Code != http.StatusNotFound {
    t.Fatalf("expected 404, got %d", w.Code)
  }
}

func TestLikeDislike(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  authorID, _ := signup(t, apiContext, "alice")
  _, auth := signup(t, apiContext, "bob")
  tweetID := postTweet(t, apiContext, authorID, "hello world")

  req := httptest.NewRequest("POST", fmt.Sprintf("/v1/tweets/%s/like", tweetID), nil)
  req.Header.Set("Authorization", auth)
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  payload := decode(t, w)
  if payload["liked"] != true || payload["total_likes"] != float64(1) {
    t.Fatalf("expected liked with 1 like, got %v", payload)
  }

  req = httptest.NewRequest("POST", fmt.Sprintf("/v1/tweets/%s/dislike", tweetID), nil)
  req.Header.Set("Authorization", auth)
  w = httptest.NewRecorder()
  router.ServeHTTP(w, req)

  payload = decode(t, w)
  if payload["disliked"] != true {
    t.Fatalf("expected disliked, got %v", payload)
  }
  if payload["total_likes"] != float64(0) || payload["total_dislikes"] != float64(1) {
    t.Fatalf("expected dislike to replace like, got %v", payload)
  }
}

func TestLikeRoundTrip(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  authorID, _ := signup(t, apiContext, "alice")
  _, auth := signup(t, apiContext, "bob")
  tweetID := postTweet(t, apiContext, authorID, "hello world")

  for i, want := range []bool{true, false} {
    req := httptest.NewRequest("POST", fmt.Sprintf("/v1/tweets/%s/like", tweetID), nil)
    req.Header.Set("Authorization", auth)
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    payload := decode(t, w)
    if payload["liked"] != want {
      t.Fatalf("toggle %d: expected liked=%v, got %v", i, want, payload)
    }
  }
}

func TestCreateComment(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  authorID, _ := signup(t, apiContext, "alice")
  _, auth := signup(t, apiContext, "bob")
  tweetID := postTweet(t, apiContext, authorID, "hello world")

  body := strings.NewReader(`{"content":"nice!"}`)
  req := httptest.NewRequest("POST", fmt.Sprintf("/v1/tweets/%s/comments", tweetID), body)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", "application/json")
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  payload := decode(t, w)
  if payload["success"] != true {
    t.Fatalf("expected success, got %v", payload)
  }
  if payload["username"] != "bob" || payload["content"] != "nice!" {
    t.Fatalf("expected echoed comment, got %v", payload)
  }
  if payload["total_comments"] != float64(1) {
    t.Fatalf("expected 1 comment, got %v", payload)
  }
}

func TestCreateCommentEmpty(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  authorID, auth := signup(t, apiContext, "alice")
  tweetID := postTweet(t, apiContext, authorID, "hello world")

  body := strings.NewReader(`{"content":"  "}`)
  req := httptest.NewRequest("POST", fmt.Sprintf("/v1/tweets/%s/comments", tweetID), body)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", "application/json")
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  payload := decode(t, w)
  if payload["success"] != false {
    t.Fatalf("expected failure, got %v", payload)
  }
}

func TestCreateCommentForm(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  authorID, _ := signup(t, apiContext, "alice")
  _, auth := signup(t, apiContext, "bob")
  tweetID := postTweet(t, apiContext, authorID, "hello world")

  body := strings.NewReader("content=nice%21")
  req := httptest.NewRequest("POST", fmt.Sprintf("/v1/tweets/%s/comments", tweetID), body)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  payload := decode(t, w)
  if payload["success"] != true {
    t.Fatalf("expected success, got %v", payload)
  }
  if payload["content"] != "nice!" {
    t.Fatalf("expected form content, got %v", payload)
  }
}

func TestUpdateTweetNonAuthorUpload(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  authorID, _ := signup(t, apiContext, "alice")
  _, auth := signup(t, apiContext, "bob")
  tweetID := postTweet(t, apiContext, authorID, "hello world")

  var buf bytes.Buffer
  form := multipart.NewWriter(&buf)
  form.WriteField("content", "hijacked")
  part, _ := form.CreateFormFile("img", "a.png")
  part.Write(pngData(t, 64))
  form.Close()

  req := httptest.NewRequest("POST", "/v1/tweets/"+tweetID, &buf)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", form.FormDataContentType())
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  if w.Code != http.StatusFound {
    t.Fatalf("expected 302, got %d", w.Code)
  }

  var tweet models.Tweet
  apiContext.Db.Where("id", tweetID).Take(&tweet)
  if tweet.Content != "hello world" || tweet.Img != "" {
    t.Fatalf("expected tweet unchanged, got %q %q", tweet.Content, tweet.Img)
  }
  if n := storedFiles(t); n != 0 {
    t.Fatalf("expected no blobs stored, got %d", n)
  }
  var photos int64
  apiContext.Db.Model(&mediaModels.Photo{}).Count(&photos)
  if photos != 0 {
    t.Fatalf("expected no photo rows, got %d", photos)
  }
}

func TestCreateTweetTooLongUpload(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  _, auth := signup(t, apiContext, "alice")

  var buf bytes.Buffer
  form := multipart.NewWriter(&buf)
  form.WriteField("content", strings.Repeat("a", 281))
  part, _ := form.CreateFormFile("img", "a.png")
  part.Write(pngData(t, 64))
  form.Close()

  req := httptest.NewRequest("POST", "/v1/tweets", &buf)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", form.FormDataContentType())
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  if w.Code != http.StatusForbidden {
    t.Fatalf("expected 403, got %d", w.Code)
  }
  if n := storedFiles(t); n != 0 {
    t.Fatalf("expected no blobs stored, got %d", n)
  }
}

func TestUpdateTweetUploadRefreshesMedia(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  _, auth := signup(t, apiContext, "alice")

  var buf bytes.Buffer
  form := multipart.NewWriter(&buf)
  form.WriteField("content", "hello world")
  part, _ := form.CreateFormFile("img", "a.png")
  part.Write(pngData(t, 64))
  form.Close()

  req := httptest.NewRequest("POST", "/v1/tweets", &buf)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", form.FormDataContentType())
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)
  if w.Code != http.StatusFound {
    t.Fatalf("create: expected 302, got %d: %s", w.Code, w.Body.String())
  }

  var tweet models.Tweet
  apiContext.Db.Take(&tweet)
  img, _ := tweet.Media["img"].(map[string]interface{})
  if width, _ := img["width"].(float64); width != 64 {
    t.Fatalf("expected 64px metadata, got %v", tweet.Media)
  }

  buf.Reset()
  form = multipart.NewWriter(&buf)
  part, _ = form.CreateFormFile("img", "b.png")
  part.Write(pngData(t, 32))
  form.Close()

  req = httptest.NewRequest("POST", "/v1/tweets/"+tweet.ID, &buf)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", form.FormDataContentType())
  w = httptest.NewRecorder()
  router.ServeHTTP(w, req)
  if w.Code != http.StatusFound {
    t.Fatalf("update: expected 302, got %d: %s", w.Code, w.Body.String())
  }

  var reloaded models.Tweet
  apiContext.Db.Where("id", tweet.ID).Take(&reloaded)
  img, _ = reloaded.Media["img"].(map[string]interface{})
  if width, _ := img["width"].(float64); width != 32 {
    t.Fatalf("expected refreshed metadata, got %v", reloaded.Media)
  }

  buf.Reset()
  form = multipart.NewWriter(&buf)
  form.WriteField("img_url", "https://example.com/c.png")
  form.Close()

  req = httptest.NewRequest("POST", "/v1/tweets/"+tweet.ID, &buf)
  req.Header.Set("Authorization", auth)
  req.Header.Set("Content-Type", form.FormDataContentType())
  w = httptest.NewRecorder()
  router.ServeHTTP(w, req)
  if w.Code != http.StatusFound {
    t.Fatalf("update: expected 302, got %d: %s", w.Code, w.Body.String())
  }

  apiContext.Db.Where("id", tweet.ID).Take(&reloaded)
  if reloaded.Img != "" {
    t.Fatalf("expected img cleared, got %q", reloaded.Img)
  }
  if _, ok := reloaded.Media["img"]; ok {
    t.Fatalf("expected media metadata cleared, got %v", reloaded.Media)
  }
}

func TestDeleteTweetNonAuthor(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  authorID, _ := signup(t, apiContext, "alice")
  _, auth := signup(t, apiContext, "bob")
  tweetID := postTweet(t, apiContext, authorID, "hello world")

  req := httptest.NewRequest("POST", fmt.Sprintf("/v1/tweets/%s/delete", tweetID), nil)
  req.Header.Set("Authorization", auth)
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  if w.Code != http.StatusFound {
    t.Fatalf("expected 302, got %d", w.Code)
  }

  var tweet models.Tweet
  if err := apiContext.Db.Where("id", tweetID).Take(&tweet).Error; err != nil {
    t.Fatalf("expected tweet kept: %v", err)
  }
}

func TestDeleteTweet(t *testing.T) {
  apiContext := newTestContext(t)
  router := newTestRouter(apiContext)
  authorID, auth := signup(t, apiContext, "alice")
  tweetID := postTweet(t, apiContext, authorID, "hello world")

  req := httptest.NewRequest("POST", fmt.Sprintf("/v1/tweets/%s/delete", tweetID), nil)
  req.Header.Set("Authorization", auth)
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  if w.Code != http.StatusFound {
    t.Fatalf("expected 302, got %d", w.Code)
  }

  var total int64
  apiContext.Db.Model(&models.Tweet{}).Where("id", tweetID).Count(&total)
  if total != 0 {
    t.Fatal("expected tweet removed")
  }
}
