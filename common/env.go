package common

import (
  "os"
  "strconv"
  "strings"
)

func GetEnvString(key string) string {
  return os.Getenv(key)
}

func GetEnvInt(key string) int {
  val, _ := strconv.Atoi(os.Getenv(key))
  return val
}

func GetEnvInt64(key string) int64 {
  val, _ := strconv.ParseInt(os.Getenv(key), 10, 64)
  return val
}

func GetEnvArray(key string) []string {
  if os.Getenv(key) == "" {
    return []string{}
  }
  return strings.Split(os.Getenv(key), " ")
}
