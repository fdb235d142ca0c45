// Package domain holds the lending tracker's core types and errors shared by
// storage, the REST API, and every client front end.
package domain

import "time"

// Friend is someone items can be lent to.
type Friend struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Item is something currently lent to a friend. Returned items are deleted.
type Item struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	FriendID int64     `json:"friendId"`
	LentAt   time.Time `json:"lentAt"`
}
