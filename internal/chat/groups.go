package chat

import (
	"database/sql"
	"errors"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/models"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/store"
)

// Groups mutates the durable group roster. Groups are never physically
// deleted; membership changes go through create/join/leave only.
type Groups struct {
	store store.Store
}

func NewGroups(st store.Store) *Groups {
	return &Groups{store: st}
}

// Create makes a new group. The creator is always a member regardless of
// the supplied member list.
func (g *Groups) Create(creatorID, name, description string, members []string) (*models.Group, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}

	unique := []string{creatorID}
	for _, member := range members {
		if !contains(unique, member) {
			unique = append(unique, member)
		}
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
		Members:     unique,
	}
	if err := g.store.CreateGroup(group); err != nil {
		return nil, &PersistenceError{Op: "create group", Err: err}
	}
	return group, nil
}

func (g *Groups) Join(userID, groupID string) (*models.Group, error) {
	group, err := g.get(groupID)
	if err != nil {
		return nil, err
	}
	if contains(group.Members, userID) {
		return nil, &ValidationError{Field: "groupId", Reason: "already a member"}
	}

	group.Members = append(group.Members, userID)
	if err := g.store.UpdateGroupMembers(groupID, group.Members); err != nil {
		return nil, &PersistenceError{Op: "update group members", Err: err}
	}
	return group, nil
}

// Leave removes a member from the roster. The creator can never leave
// their own group.
func (g *Groups) Leave(userID, groupID string) (*models.Group, error) {
	group, err := g.get(groupID)
	if err != nil {
		return nil, err
	}
	if !contains(group.Members, userID) {
		return nil, &AuthorizationError{Reason: "not a member of this group"}
	}
	if group.CreatedBy == userID {
		return nil, &AuthorizationError{Reason: "group creator cannot leave the group"}
	}

	remaining := make([]string, 0, len(group.Members)-1)
	for _, member := range group.Members {
		if member != userID {
			remaining = append(remaining, member)
		}
	}
	if err := g.store.UpdateGroupMembers(groupID, remaining); err != nil {
		return nil, &PersistenceError{Op: "update group members", Err: err}
	}
	group.Members = remaining
	return group, nil
}

func (g *Groups) MyGroups(userID string) ([]models.Group, error) {
	groups, err := g.store.GetGroupsByMember(userID)
	if err != nil {
		return nil, &PersistenceError{Op: "find groups", Err: err}
	}
	return groups, nil
}

func (g *Groups) get(groupID string) (*models.Group, error) {
	group, err := g.store.GetGroup(groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Kind: "group", ID: groupID}
		}
		return nil, &PersistenceError{Op: "find group", Err: err}
	}
	return group, nil
}
