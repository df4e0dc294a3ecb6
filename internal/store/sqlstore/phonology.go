package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"conlang/internal/domain"
)

const phonologyColumns = `id, consonants, vowels, syllable_patterns, created_by, shared_with`

func scanPhonology(row scanner) (domain.PhonologyConfig, error) {
	var (
		p                                    domain.PhonologyConfig
		id, owner                            int64
		consonants, vowels, patterns, shared string
	)
	if err := row.Scan(&id, &consonants, &vowels, &patterns, &owner, &shared); err != nil {
		return domain.PhonologyConfig{}, err
	}
	var err error
	if p.Consonants, err = decodeList[string](consonants); err != nil {
		return domain.PhonologyConfig{}, fmt.Errorf("decode consonants: %w", err)
	}
	if p.Vowels, err = decodeList[string](vowels); err != nil {
		return domain.PhonologyConfig{}, fmt.Errorf("decode vowels: %w", err)
	}
	if p.SyllablePatterns, err = decodeList[string](patterns); err != nil {
		return domain.PhonologyConfig{}, fmt.Errorf("decode syllable_patterns: %w", err)
	}
	sharedWith, err := decodeList[domain.UserID](shared)
	if err != nil {
		return domain.PhonologyConfig{}, fmt.Errorf("decode shared_with: %w", err)
	}
	p.ID = domain.RecordID(id)
	p.Ownership = domain.Ownership{CreatedBy: domain.UserID(owner), SharedWith: sharedWith}
	return p, nil
}

func (s *Store) listPhonology(ctx context.Context, keep func(domain.PhonologyConfig) bool) ([]domain.PhonologyConfig, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+phonologyColumns+` FROM phonology ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list phonology: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PhonologyConfig, 0)
	for rows.Next() {
		p, err := scanPhonology(rows)
		if err != nil {
			return nil, err
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, rows.Err()
}

func (s *Store) GetPhonology(ctx context.Context, user domain.UserID) (domain.PhonologyConfig, bool, error) {
	visible, err := s.listPhonology(ctx, func(p domain.PhonologyConfig) bool { return p.VisibleTo(user) })
	if err != nil {
		return domain.PhonologyConfig{}, false, err
	}
	if len(visible) == 0 {
		return domain.PhonologyConfig{}, false, nil
	}
	return visible[len(visible)-1], true, nil
}

func (s *Store) GetPhonologyByID(ctx context.Context, id domain.RecordID) (domain.PhonologyConfig, bool, error) {
	p, err := scanPhonology(s.db.QueryRowContext(ctx, s.rebind(`SELECT `+phonologyColumns+` FROM phonology WHERE id = ?`), int64(id)))
	if notFound(err) {
		return domain.PhonologyConfig{}, false, nil
	}
	if err != nil {
		return domain.PhonologyConfig{}, false, fmt.Errorf("get phonology: %w", err)
	}
	return p, true, nil
}

func (s *Store) ListSharedPhonology(ctx context.Context, user domain.UserID) ([]domain.PhonologyConfig, error) {
	return s.listPhonology(ctx, func(p domain.PhonologyConfig) bool { return p.IsSharedWith(user) })
}

func (s *Store) SavePhonology(
	ctx context.Context,
	in domain.PhonologyInput,
	owner domain.UserID,
) (domain.PhonologyConfig, error) {
	p := domain.PhonologyConfig{
		Consonants:       orEmpty(in.Consonants),
		Vowels:           orEmpty(in.Vowels),
		SyllablePatterns: orEmpty(in.SyllablePatterns),
		Ownership:        domain.Ownership{CreatedBy: owner, SharedWith: []domain.UserID{}},
	}
	consonants, err := encodeList(p.Consonants)
	if err != nil {
		return domain.PhonologyConfig{}, err
	}
	vowels, err := encodeList(p.Vowels)
	if err != nil {
		return domain.PhonologyConfig{}, err
	}
	patterns, err := encodeList(p.SyllablePatterns)
	if err != nil {
		return domain.PhonologyConfig{}, err
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		id, err := s.nextID(ctx, tx)
		if err != nil {
			return err
		}
		p.ID = domain.RecordID(id)
		_, err = tx.ExecContext(ctx,
			s.rebind(`INSERT INTO phonology (`+phonologyColumns+`) VALUES (?, ?, ?, ?, ?, '[]')`),
			id, consonants, vowels, patterns, int64(owner),
		)
		return err
	})
	if err != nil {
		return domain.PhonologyConfig{}, fmt.Errorf("save phonology: %w", err)
	}
	return p, nil
}

func (s *Store) SharePhonology(ctx context.Context, id domain.RecordID, user domain.UserID) error {
	return s.updateShares(ctx, "phonology", id, func(o *domain.Ownership) { o.Share(user) })
}

func (s *Store) UnsharePhonology(ctx context.Context, id domain.RecordID, user domain.UserID) error {
	return s.updateShares(ctx, "phonology", id, func(o *domain.Ownership) { o.Unshare(user) })
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return append([]string(nil), v...)
}
