package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
)

// GroupService wraps the group endpoints.
type GroupService struct {
	c *Client
}

// List returns the caller's groups: GET /users/me, then GET /users/{id}/groups.
func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	userID, err := s.c.Auth.userID(ctx)
	if err != nil {
		return nil, err
	}

	var groups []models.Group
	if err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/%d/groups", userID), nil, nil, &groups); err != nil {
		return nil, fmt.Errorf("list groups for user %d: %w", userID, err)
	}
	return groups, nil
}

// Create makes a new group administered by the caller.
func (s *GroupService) Create(ctx context.Context, name string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: group name", shared.ErrMissingArgument)
	}

	var group models.Group
	body := map[string]string{"name": name}
	if err := s.c.doJSON(ctx, http.MethodPost, "/groups/", nil, body, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *GroupService) Get(ctx context.Context, id int) (*models.Group, error) {
	var group models.Group
	if err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/groups/%d", id), nil, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Update renames a group and optionally hands over administration.
//
// When update.AdminID is nil or zero the group is fetched first and its current
// admin_id is sent back unchanged. Nothing guards against a concurrent change
// between the two calls.
func (s *GroupService) Update(ctx context.Context, id int, update models.GroupUpdate) (*models.Group, error) {
	if update.AdminID == nil || *update.AdminID == 0 {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("read group %d: %w", id, err)
		}
		update.AdminID = current.AdminID
	}

	var group models.Group
	if err := s.c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/groups/%d", id), nil, update, &group); err != nil {
		return nil, fmt.Errorf("update group %d: %w", id, err)
	}
	return &group, nil
}

func (s *GroupService) Delete(ctx context.Context, id int) error {
	return s.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d", id), nil, nil, nil)
}

// Leave removes the caller from a group: GET /users/me, then DELETE /groups/{id}/members/{me}.
func (s *GroupService) Leave(ctx context.Context, id int) error {
	userID, err := s.c.Auth.userID(ctx)
	if err != nil {
		return err
	}

	s.c.logger.Debug("leaving group", "group", id, "user", userID)
	if err := s.RemoveMember(ctx, id, userID); err != nil {
		return fmt.Errorf("leave group %d as user %d: %w", id, userID, err)
	}
	return nil
}

// AddMember invites a user by friend code.
func (s *GroupService) AddMember(ctx context.Context, id int, friendCode string) error {
	if strings.TrimSpace(friendCode) == "" {
		return fmt.Errorf("%w: friend code", shared.ErrMissingArgument)
	}
	body := map[string]string{"friend_code": friendCode}
	return s.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/members", id), nil, body, nil)
}

func (s *GroupService) RemoveMember(ctx context.Context, id, memberID int) error {
	return s.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d/members/%d", id, memberID), nil, nil, nil)
}

// Matches returns the movies liked across the group.
func (s *GroupService) Matches(ctx context.Context, id int) (*models.GroupMatchQuery, error) {
	var q models.GroupMatchQuery
	if err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/groups/%d/matches", id), nil, nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
