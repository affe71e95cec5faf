package store

import "github.com/Saketh0903/Chat-Application-groups-full/internal/models"

type Store interface {
	// User operations
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUsersExcept(id string) ([]models.User, error)

	// Public key registry
	SetPublicKey(userID, publicKey string) error
	GetPublicKey(userID string) (string, error)

	// Group operations
	CreateGroup(group *models.Group) error
	GetGroup(id string) (*models.Group, error)
	GetGroupsByMember(userID string) ([]models.Group, error)
	UpdateGroupMembers(groupID string, members []string) error

	// Message operations
	CreateMessage(message *models.Message) error
	GetDirectMessages(userA, userB string) ([]models.Message, error)
	GetGroupMessages(groupID string) ([]models.Message, error)
}
