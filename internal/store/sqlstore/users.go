package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"conlang/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM users WHERE username = ?`), user.Username).Scan(&exists)
		if err == nil {
			return domain.ErrUsernameTaken
		}
		if !notFound(err) {
			return err
		}

		id, err := s.nextID(ctx, tx)
		if err != nil {
			return err
		}
		user.ID = domain.UserID(id)
		_, err = tx.ExecContext(ctx,
			s.rebind(`INSERT INTO users (id, username, password_hash, display_name) VALUES (?, ?, ?, ?)`),
			id, user.Username, user.PasswordHash, user.DisplayName,
		)
		return err
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByName(ctx context.Context, username string) (domain.User, bool, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, display_name FROM users WHERE username = ?`, username)
}

func (s *Store) GetUser(ctx context.Context, id domain.UserID) (domain.User, bool, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, display_name FROM users WHERE id = ?`, int64(id))
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (domain.User, bool, error) {
	var (
		u  domain.User
		id int64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(query), arg).Scan(&id, &u.Username, &u.PasswordHash, &u.DisplayName)
	if notFound(err) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("get user: %w", err)
	}
	u.ID = domain.UserID(id)
	return u, true, nil
}
