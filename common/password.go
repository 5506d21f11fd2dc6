package common

import (
  "crypto/rand"
  "crypto/sha256"
  "crypto/subtle"
  "encoding/hex"

  "golang.org/x/crypto/pbkdf2"
)

const saltChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateSalt(size int) string {
  buf := make([]byte, size)
  rand.Read(buf)
  for i, b := range buf {
    buf[i] = saltChars[int(b)%len(saltChars)]
  }
  return string(buf)
}

func GeneratePassword(password string, salt string) string {
  hashed := pbkdf2.Key([]byte(password), []byte(salt), 4096, 32, sha256.New)
  return hex.EncodeToString(hashed)
}

func VerifyPassword(password string, salt string, hashedPassword string) bool {
  hashed := GeneratePassword(password, salt)
  return subtle.ConstantTimeCompare([]byte(hashed), []byte(hashedPassword)) == 1
}
