package service

import "errors"

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("search query must not be empty")
