package repositories

import (
  "errors"
)

var (
  ErrContentEmpty  = errors.New("content can not be empty")
  ErrContentLength = errors.New("content can not exceed 280 characters")
)
