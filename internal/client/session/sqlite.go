package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/carmarket/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/carmarket/internal/common"
	"github.com/dmitrijs2005/carmarket/internal/dbx"
)

// SQLiteStore persists the session in the local kv_store table.
// It holds no in-memory copy; every read goes to the database.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// NewStore returns a Store over a migrated local database.
func NewStore(db *sql.DB, opts ...Option) *SQLiteStore {
	return &SQLiteStore{db: db, opts: buildOptions(opts)}
}

func (s *SQLiteStore) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

func (s *SQLiteStore) Get(ctx context.Context) (Session, error) {
	var out Session
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		values, err := metadata.NewSQLiteRepository(tx).List(ctx)
		if err != nil {
			return err
		}
		out = Session{
			Token:       values[common.StorageKeyToken],
			Role:        Role(values[common.StorageKeyRole]),
			DisplayName: values[common.StorageKeyUserName],
		}
		return nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	return out, nil
}

// Set writes token, role and display name in one transaction.
func (s *SQLiteStore) Set(ctx context.Context, sess Session) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).SetMany(ctx, map[string]string{
			common.StorageKeyToken:    sess.Token,
			common.StorageKeyRole:     string(sess.Role),
			common.StorageKeyUserName: sess.DisplayName,
		})
	})
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes all three session keys. Clearing an empty store is a no-op.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.repo().Delete(ctx, common.StorageKeyToken, common.StorageKeyRole, common.StorageKeyUserName); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	token, _, err := s.repo().Get(ctx, common.StorageKeyToken)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// IsValid fails closed: a read error counts as "no session".
func (s *SQLiteStore) IsValid(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil {
		return false
	}
	return tokenValid(token, s.opts.now())
}

// CurrentRole reads token and role together; a role without a token is
// ignored.
func (s *SQLiteStore) CurrentRole(ctx context.Context) Role {
	sess, err := s.Get(ctx)
	if err != nil || sess.Token == "" {
		return RoleUser
	}
	return ParseRole(string(sess.Role))
}
