// Package models defines the records of the development Talk server.
package models

import "time"

type User struct {
	ID           string
	UserName     string
	DisplayName  string
	PasswordHash []byte
	CreatedAt    time.Time
}
