package app_errors

import "errors"

var ErrInvalidArgument = errors.New("invalid argument")
var ErrInvalidState = errors.New("invalid state")
var ErrAttemptNotFound = errors.New("quiz attempt not found")
var ErrTopicNotFound = errors.New("topic not found")
var ErrLessonNotFound = errors.New("lesson not found")
var ErrQuizNotFound = errors.New("quiz not found")
var ErrKeywordNotFound = errors.New("keyword not found")
var ErrDuplicateKeyword = errors.New("keyword with this term already exists in the topic")
var ErrExamFileNotFound = errors.New("exam file not found")
var ErrFileSize = errors.New("file size error")
var ErrEmptyFile = errors.New("file is empty")
var ErrMalformedQuestion = errors.New("malformed question row")
var ErrMalformedAttempt = errors.New("malformed quiz attempt row")
