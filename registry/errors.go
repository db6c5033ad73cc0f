package registry

import "errors"

var ErrDuplicatePoll = errors.New("vote poll already registered")
var ErrDuplicateCatalogName = errors.New("catalog entry already exists")
var ErrDuplicateCategory = errors.New("category instance already registered")
var ErrInvalidName = errors.New("name is empty")
var ErrUnregisteredCategory = errors.New("category is not registered")
var ErrUnknownSelection = errors.New("selection is not pending in this registry")
var ErrUnknownPoll = errors.New("vote poll is not registered")
var ErrInvalidVoteBit = errors.New("vote bit out of range")
var ErrInvalidDefault = errors.New("default choice index out of range")
var ErrRegistryClosed = errors.New("registry already committed")
var ErrSegmentOrder = errors.New("extension indices are not trailing the host indices")
var ErrTooManyChoices = errors.New("selection already holds the maximum number of choices")
