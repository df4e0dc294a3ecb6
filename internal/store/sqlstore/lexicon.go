package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"conlang/internal/domain"
)

const lexiconColumns = `id, word, definition, category, notes, created_by, shared_with`

func scanLexicon(row scanner) (domain.LexiconEntry, error) {
	var (
		e          domain.LexiconEntry
		id, owner  int64
		sharedWith string
	)
	if err := row.Scan(&id, &e.Word, &e.Definition, &e.Category, &e.Notes, &owner, &sharedWith); err != nil {
		return domain.LexiconEntry{}, err
	}
	shared, err := decodeList[domain.UserID](sharedWith)
	if err != nil {
		return domain.LexiconEntry{}, fmt.Errorf("decode shared_with: %w", err)
	}
	e.ID = domain.RecordID(id)
	e.Ownership = domain.Ownership{CreatedBy: domain.UserID(owner), SharedWith: shared}
	return e, nil
}

func (s *Store) listLexicon(ctx context.Context, keep func(domain.LexiconEntry) bool) ([]domain.LexiconEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+lexiconColumns+` FROM lexicon ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list lexicon: %w", err)
	}
	defer rows.Close()

	out := make([]domain.LexiconEntry, 0)
	for rows.Next() {
		e, err := scanLexicon(rows)
		if err != nil {
			return nil, err
		}
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, rows.Err()
}

func (s *Store) ListLexicon(ctx context.Context, user domain.UserID) ([]domain.LexiconEntry, error) {
	return s.listLexicon(ctx, func(e domain.LexiconEntry) bool { return e.VisibleTo(user) })
}

func (s *Store) ListSharedLexicon(ctx context.Context, user domain.UserID) ([]domain.LexiconEntry, error) {
	return s.listLexicon(ctx, func(e domain.LexiconEntry) bool { return e.IsSharedWith(user) })
}

func (s *Store) GetLexiconEntry(ctx context.Context, id domain.RecordID) (domain.LexiconEntry, bool, error) {
	e, err := scanLexicon(s.db.QueryRowContext(ctx, s.rebind(`SELECT `+lexiconColumns+` FROM lexicon WHERE id = ?`), int64(id)))
	if notFound(err) {
		return domain.LexiconEntry{}, false, nil
	}
	if err != nil {
		return domain.LexiconEntry{}, false, fmt.Errorf("get lexicon entry: %w", err)
	}
	return e, true, nil
}

func (s *Store) CreateLexiconEntry(
	ctx context.Context,
	in domain.LexiconInput,
	owner domain.UserID,
) (domain.LexiconEntry, error) {
	e := domain.LexiconEntry{
		Word:       in.Word,
		Definition: in.Definition,
		Category:   in.Category,
		Notes:      in.Notes,
		Ownership:  domain.Ownership{CreatedBy: owner, SharedWith: []domain.UserID{}},
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		id, err := s.nextID(ctx, tx)
		if err != nil {
			return err
		}
		e.ID = domain.RecordID(id)
		_, err = tx.ExecContext(ctx,
			s.rebind(`INSERT INTO lexicon (`+lexiconColumns+`) VALUES (?, ?, ?, ?, ?, ?, '[]')`),
			id, e.Word, e.Definition, e.Category, e.Notes, int64(owner),
		)
		return err
	})
	if err != nil {
		return domain.LexiconEntry{}, fmt.Errorf("create lexicon entry: %w", err)
	}
	return e, nil
}

func (s *Store) UpdateLexiconEntry(
	ctx context.Context,
	id domain.RecordID,
	in domain.LexiconInput,
) (domain.LexiconEntry, error) {
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE lexicon SET word = ?, definition = ?, category = ?, notes = ? WHERE id = ?`),
		in.Word, in.Definition, in.Category, in.Notes, int64(id),
	)
	if err != nil {
		return domain.LexiconEntry{}, fmt.Errorf("update lexicon entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.LexiconEntry{}, domain.ErrNotFound
	}
	e, ok, err := s.GetLexiconEntry(ctx, id)
	if err != nil {
		return domain.LexiconEntry{}, err
	}
	if !ok {
		return domain.LexiconEntry{}, domain.ErrNotFound
	}
	return e, nil
}

func (s *Store) DeleteLexiconEntry(ctx context.Context, id domain.RecordID) error {
	return s.deleteByID(ctx, "lexicon", id)
}

func (s *Store) ShareLexiconEntry(ctx context.Context, id domain.RecordID, user domain.UserID) error {
	return s.updateShares(ctx, "lexicon", id, func(o *domain.Ownership) { o.Share(user) })
}

func (s *Store) UnshareLexiconEntry(ctx context.Context, id domain.RecordID, user domain.UserID) error {
	return s.updateShares(ctx, "lexicon", id, func(o *domain.Ownership) { o.Unshare(user) })
}
