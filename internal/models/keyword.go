package models

import "time"

type Keyword struct {
	ID         int64     `json:"id"`
	TopicID    int64     `json:"topic_id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
