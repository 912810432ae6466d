package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/server/models"
	"github.com/dmitrijs2005/talkclient/internal/server/repositories/repomanager"
)

// RoomService implements the conversation endpoints.
//
// Visibility rules:
//   - rooms a user does not participate in are reported as common.ErrNotFound,
//     except public rooms, which anyone may join;
//   - rename, visibility, password and delete are moderator-only
//     (common.ErrForbidden otherwise);
//   - joining a password protected room as a non-moderator requires the
//     password (common.ErrForbidden otherwise).
type RoomService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewRoomService(m repomanager.RepositoryManager) *RoomService {
	return &RoomService{repomanager: m, now: time.Now}
}

// Create stores a room owned by owner. The owner is always a participant.
// A non-empty password is hashed.
func (s *RoomService) Create(ctx context.Context, owner, name string, roomType int, participants []string, password string) (*models.Room, error) {
	switch roomType {
	case models.RoomTypeOneToOne, models.RoomTypeGroup, models.RoomTypePublic:
	default:
		return nil, fmt.Errorf("%w: unknown room type %d", ErrBadRequest, roomType)
	}

	members := []string{owner}
	for _, p := range participants {
		if !slices.Contains(members, p) {
			members = append(members, p)
		}
	}

	room := &models.Room{Name: name, Type: roomType, Owner: owner, Participants: members}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("error hashing room password: %w", err)
		}
		room.PasswordHash = hash
	}
	return s.repomanager.Rooms().Create(ctx, room)
}

func (s *RoomService) List(ctx context.Context, username string) ([]*models.Room, error) {
	return s.repomanager.Rooms().ListFor(ctx, username)
}

// member loads a room username participates in.
func (s *RoomService) member(ctx context.Context, username, token string) (*models.Room, error) {
	room, err := s.repomanager.Rooms().Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(username) {
		return nil, common.ErrNotFound
	}
	return room, nil
}

// moderated loads a room username moderates.
func (s *RoomService) moderated(ctx context.Context, username, token string) (*models.Room, error) {
	room, err := s.member(ctx, username, token)
	if err != nil {
		return nil, err
	}
	if !room.IsModerator(username) {
		return nil, common.ErrForbidden
	}
	return room, nil
}

func (s *RoomService) Rename(ctx context.Context, username, token, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: room name is empty", ErrBadRequest)
	}
	room, err := s.moderated(ctx, username, token)
	if err != nil {
		return err
	}
	if room.Type == models.RoomTypeOneToOne {
		return fmt.Errorf("%w: one-to-one rooms cannot be renamed", ErrBadRequest)
	}
	room.Name = name
	return s.repomanager.Rooms().Update(ctx, room)
}

// SetPublic switches a group room to public and back.
func (s *RoomService) SetPublic(ctx context.Context, username, token string, public bool) error {
	room, err := s.moderated(ctx, username, token)
	if err != nil {
		return err
	}
	if room.Type == models.RoomTypeOneToOne {
		return fmt.Errorf("%w: one-to-one rooms cannot change visibility", ErrBadRequest)
	}
	if public {
		room.Type = models.RoomTypePublic
	} else {
		room.Type = models.RoomTypeGroup
	}
	return s.repomanager.Rooms().Update(ctx, room)
}

// SetPassword sets the join password; an empty password removes it.
func (s *RoomService) SetPassword(ctx context.Context, username, token, password string) error {
	room, err := s.moderated(ctx, username, token)
	if err != nil {
		return err
	}
	if room.Type == models.RoomTypeOneToOne {
		return fmt.Errorf("%w: one-to-one rooms cannot have a password", ErrBadRequest)
	}

	room.PasswordHash = nil
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("error hashing room password: %w", err)
		}
		room.PasswordHash = hash
	}
	return s.repomanager.Rooms().Update(ctx, room)
}

func (s *RoomService) Delete(ctx context.Context, username, token string) error {
	if _, err := s.moderated(ctx, username, token); err != nil {
		return err
	}
	return s.repomanager.Rooms().Delete(ctx, token)
}

// Leave removes username from the room. The first remaining participant
// inherits a departing owner's room; the last one out deletes it.
func (s *RoomService) Leave(ctx context.Context, username, token string) error {
	room, err := s.member(ctx, username, token)
	if err != nil {
		return err
	}

	room.Participants = slices.DeleteFunc(room.Participants, func(p string) bool { return p == username })
	if len(room.Participants) == 0 {
		return s.repomanager.Rooms().Delete(ctx, token)
	}
	if room.Owner == username {
		room.Owner = room.Participants[0]
	}
	return s.repomanager.Rooms().Update(ctx, room)
}

// Join starts a call session and returns its id. Public rooms add the caller
// as a participant.
func (s *RoomService) Join(ctx context.Context, username, token, password string) (string, error) {
	room, err := s.repomanager.Rooms().Get(ctx, token)
	if err != nil {
		return "", err
	}
	if !room.IsParticipant(username) && room.Type != models.RoomTypePublic {
		return "", common.ErrNotFound
	}

	if room.PasswordHash != nil && !room.IsModerator(username) {
		if bcrypt.CompareHashAndPassword(room.PasswordHash, []byte(password)) != nil {
			return "", common.ErrForbidden
		}
	}

	if !room.IsParticipant(username) {
		room.Participants = append(room.Participants, username)
	}
	room.LastPing = s.now().Unix()
	if err := s.repomanager.Rooms().Update(ctx, room); err != nil {
		return "", err
	}
	return uuid.NewString(), nil
}
