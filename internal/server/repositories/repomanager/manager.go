// Package repomanager groups the repositories of the development server.
package repomanager

import (
	"github.com/dmitrijs2005/talkclient/internal/server/repositories/rooms"
	"github.com/dmitrijs2005/talkclient/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Rooms() rooms.Repository
}

type InMemoryRepositoryManager struct {
	users users.Repository
	rooms rooms.Repository
}

func (m InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m InMemoryRepositoryManager) Rooms() rooms.Repository {
	return m.rooms
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return InMemoryRepositoryManager{
		users: users.NewInMemoryRepository(),
		rooms: rooms.NewInMemoryRepository(),
	}
}
