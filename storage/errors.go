package storage

import "errors"

var ErrNotFound = errors.New("item not found in storage")
var ErrItemAlreadyExists = errors.New("item already exists")
var ErrUnprocessedItems = errors.New("batch items left unprocessed")
