package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"           // Postgres driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/Saketh0903/Chat-Application-groups-full/internal/models"
)

type SQLStore struct {
	db         *sql.DB
	driverName string
}

func New(driverName, dataSourceName string) (*SQLStore, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLStore{db: db, driverName: driverName}
	if err := s.createTables(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) createTables() error {
	// Simplified for brevity, ideally use migrations
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL,
		profile_pic TEXT NOT NULL DEFAULT '',
		public_key TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL REFERENCES users(id),
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS group_members (
		group_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		PRIMARY KEY (group_id, user_id),
		FOREIGN KEY (group_id) REFERENCES groups(id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL REFERENCES users(id),
		receiver_id TEXT,
		group_id TEXT,
		text TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		file_name TEXT NOT NULL DEFAULT '',
		is_encrypted BOOLEAN NOT NULL DEFAULT FALSE,
		nonce TEXT NOT NULL DEFAULT '',
		algorithm TEXT NOT NULL DEFAULT '',
		reply_to_message_id TEXT,
		reply_to_text TEXT,
		client_tag TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		CHECK ((receiver_id IS NULL) <> (group_id IS NULL))
	);
	`

	if s.driverName == "postgres" {
		// Adjust for Postgres syntax
		query = strings.ReplaceAll(query, "DATETIME", "TIMESTAMP")
	}

	_, err := s.db.Exec(query)
	return err
}

// Helper to handle placeholders
func (s *SQLStore) rebind(query string) string {
	if s.driverName == "postgres" {
		// Replace ? with $1, $2, etc.
		n := strings.Count(query, "?")
		for i := 1; i <= n; i++ {
			query = strings.Replace(query, "?", fmt.Sprintf("$%d", i), 1)
		}
	}
	return query
}

func (s *SQLStore) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	query := s.rebind("INSERT INTO users (id, username, full_name, email, password, profile_pic, public_key) VALUES (?, ?, ?, ?, ?, ?, ?)")
	_, err := s.db.Exec(query, user.ID, user.Username, user.FullName, user.Email, user.Password, user.ProfilePic, user.PublicKey)
	return err
}

func (s *SQLStore) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.FullName, &user.Email, &user.Password, &user.ProfilePic, &user.PublicKey)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SQLStore) GetUserByUsername(username string) (*models.User, error) {
	query := s.rebind("SELECT id, username, full_name, email, password, profile_pic, public_key FROM users WHERE username = ?")
	return s.scanUser(s.db.QueryRow(query, username))
}

func (s *SQLStore) GetUserByID(id string) (*models.User, error) {
	query := s.rebind("SELECT id, username, full_name, email, password, profile_pic, public_key FROM users WHERE id = ?")
	return s.scanUser(s.db.QueryRow(query, id))
}

func (s *SQLStore) GetUsersExcept(id string) ([]models.User, error) {
	query := s.rebind("SELECT id, username, full_name, email, profile_pic, public_key FROM users WHERE id <> ? ORDER BY username")
	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.FullName, &user.Email, &user.ProfilePic, &user.PublicKey); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *SQLStore) SetPublicKey(userID, publicKey string) error {
	query := s.rebind("UPDATE users SET public_key = ? WHERE id = ?")
	result, err := s.db.Exec(query, publicKey, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *SQLStore) GetPublicKey(userID string) (string, error) {
	var key string
	query := s.rebind("SELECT public_key FROM users WHERE id = ?")
	err := s.db.QueryRow(query, userID).Scan(&key)
	return key, err
}

func (s *SQLStore) CreateGroup(group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := s.rebind("INSERT INTO groups (id, name, description, created_by, created_at) VALUES (?, ?, ?, ?, ?)")
	if _, err := tx.Exec(query, group.ID, group.Name, group.Description, group.CreatedBy, group.CreatedAt); err != nil {
		return err
	}

	memberQuery := s.rebind("INSERT INTO group_members (group_id, user_id) VALUES (?, ?)")
	for _, member := range group.Members {
		if _, err := tx.Exec(memberQuery, group.ID, member); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetGroup(id string) (*models.Group, error) {
	var group models.Group
	query := s.rebind("SELECT id, name, description, created_by, created_at FROM groups WHERE id = ?")
	err := s.db.QueryRow(query, id).Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		return nil, err
	}

	memberQuery := s.rebind("SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id")
	rows, err := s.db.Query(memberQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, err
		}
		group.Members = append(group.Members, member)
	}
	return &group, rows.Err()
}

func (s *SQLStore) GetGroupsByMember(userID string) ([]models.Group, error) {
	query := s.rebind(`
		SELECT g.id
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = ?
		ORDER BY g.created_at
	`)
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var groups []models.Group
	for _, id := range ids {
		group, err := s.GetGroup(id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, nil
}

func (s *SQLStore) UpdateGroupMembers(groupID string, members []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := s.rebind("DELETE FROM group_members WHERE group_id = ?")
	if _, err := tx.Exec(query, groupID); err != nil {
		return err
	}

	memberQuery := s.rebind("INSERT INTO group_members (group_id, user_id) VALUES (?, ?)")
	for _, member := range members {
		if _, err := tx.Exec(memberQuery, groupID, member); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) CreateMessage(message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	receiverID := sql.NullString{String: message.ReceiverID, Valid: message.ReceiverID != ""}
	groupID := sql.NullString{String: message.GroupID, Valid: message.GroupID != ""}

	var replyID, replyText sql.NullString
	if message.ReplyTo != nil {
		replyID = sql.NullString{String: message.ReplyTo.MessageID, Valid: true}
		replyText = sql.NullString{String: message.ReplyTo.Text, Valid: true}
	}

	query := s.rebind(`
		INSERT INTO messages (id, sender_id, receiver_id, group_id, text, image, file_name,
			is_encrypted, nonce, algorithm, reply_to_message_id, reply_to_text, client_tag, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.Exec(query, message.ID, message.SenderID, receiverID, groupID,
		message.Text, message.Image, message.FileName,
		message.IsEncrypted, message.Nonce, message.Algorithm,
		replyID, replyText, message.ClientTag, message.CreatedAt)
	return err
}

const messageColumns = `
	m.id, m.sender_id, m.receiver_id, m.group_id, m.text, m.image, m.file_name,
	m.is_encrypted, m.nonce, m.algorithm, m.reply_to_message_id, m.reply_to_text,
	m.client_tag, m.created_at, u.username, u.full_name, u.profile_pic
`

func (s *SQLStore) queryMessages(query string, args ...interface{}) ([]models.Message, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		var receiverID, groupID, replyID, replyText sql.NullString
		var senderUsername, senderFullName, senderProfilePic string
		if err := rows.Scan(&m.ID, &m.SenderID, &receiverID, &groupID, &m.Text, &m.Image, &m.FileName,
			&m.IsEncrypted, &m.Nonce, &m.Algorithm, &replyID, &replyText,
			&m.ClientTag, &m.CreatedAt, &senderUsername, &senderFullName, &senderProfilePic); err != nil {
			return nil, err
		}
		m.ReceiverID = receiverID.String
		m.GroupID = groupID.String
		if replyID.Valid {
			m.ReplyTo = &models.ReplyRef{MessageID: replyID.String, Text: replyText.String}
		}
		m.Sender = &models.User{
			ID:         m.SenderID,
			Username:   senderUsername,
			FullName:   senderFullName,
			ProfilePic: senderProfilePic,
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *SQLStore) GetDirectMessages(userA, userB string) ([]models.Message, error) {
	query := s.rebind(`
		SELECT ` + messageColumns + `
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE (m.sender_id = ? AND m.receiver_id = ?)
		   OR (m.sender_id = ? AND m.receiver_id = ?)
		ORDER BY m.created_at ASC, m.id ASC
	`)
	return s.queryMessages(query, userA, userB, userB, userA)
}

func (s *SQLStore) GetGroupMessages(groupID string) ([]models.Message, error) {
	query := s.rebind(`
		SELECT ` + messageColumns + `
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.group_id = ?
		ORDER BY m.created_at ASC, m.id ASC
	`)
	return s.queryMessages(query, groupID)
}
