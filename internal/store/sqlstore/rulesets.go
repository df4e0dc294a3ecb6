package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"conlang/internal/domain"
)

const ruleSetColumns = `id, name, rules, created_by, shared_with`

func scanRuleSet(row scanner) (domain.RuleSet, error) {
	var (
		r                 domain.RuleSet
		id, owner         int64
		rules, sharedWith string
	)
	if err := row.Scan(&id, &r.Name, &rules, &owner, &sharedWith); err != nil {
		return domain.RuleSet{}, err
	}
	var err error
	if r.Rules, err = decodeList[string](rules); err != nil {
		return domain.RuleSet{}, fmt.Errorf("decode rules: %w", err)
	}
	shared, err := decodeList[domain.UserID](sharedWith)
	if err != nil {
		return domain.RuleSet{}, fmt.Errorf("decode shared_with: %w", err)
	}
	r.ID = domain.RecordID(id)
	r.Ownership = domain.Ownership{CreatedBy: domain.UserID(owner), SharedWith: shared}
	return r, nil
}

func (s *Store) listRuleSets(ctx context.Context, keep func(domain.RuleSet) bool) ([]domain.RuleSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+ruleSetColumns+` FROM rule_sets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list rule sets: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RuleSet, 0)
	for rows.Next() {
		r, err := scanRuleSet(rows)
		if err != nil {
			return nil, err
		}
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, rows.Err()
}

func (s *Store) ListRuleSets(ctx context.Context, user domain.UserID) ([]domain.RuleSet, error) {
	return s.listRuleSets(ctx, func(r domain.RuleSet) bool { return r.VisibleTo(user) })
}

func (s *Store) ListSharedRuleSets(ctx context.Context, user domain.UserID) ([]domain.RuleSet, error) {
	return s.listRuleSets(ctx, func(r domain.RuleSet) bool { return r.IsSharedWith(user) })
}

func (s *Store) GetRuleSet(ctx context.Context, id domain.RecordID) (domain.RuleSet, bool, error) {
	r, err := scanRuleSet(s.db.QueryRowContext(ctx, s.rebind(`SELECT `+ruleSetColumns+` FROM rule_sets WHERE id = ?`), int64(id)))
	if notFound(err) {
		return domain.RuleSet{}, false, nil
	}
	if err != nil {
		return domain.RuleSet{}, false, fmt.Errorf("get rule set: %w", err)
	}
	return r, true, nil
}

func (s *Store) CreateRuleSet(
	ctx context.Context,
	in domain.RuleSetInput,
	owner domain.UserID,
) (domain.RuleSet, error) {
	r := domain.RuleSet{
		Name:      in.Name,
		Rules:     orEmpty(in.Rules),
		Ownership: domain.Ownership{CreatedBy: owner, SharedWith: []domain.UserID{}},
	}
	rules, err := encodeList(r.Rules)
	if err != nil {
		return domain.RuleSet{}, err
	}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		id, err := s.nextID(ctx, tx)
		if err != nil {
			return err
		}
		r.ID = domain.RecordID(id)
		_, err = tx.ExecContext(ctx,
			s.rebind(`INSERT INTO rule_sets (`+ruleSetColumns+`) VALUES (?, ?, ?, ?, '[]')`),
			id, r.Name, rules, int64(owner),
		)
		return err
	})
	if err != nil {
		return domain.RuleSet{}, fmt.Errorf("create rule set: %w", err)
	}
	return r, nil
}

func (s *Store) DeleteRuleSet(ctx context.Context, id domain.RecordID) error {
	return s.deleteByID(ctx, "rule_sets", id)
}

func (s *Store) ShareRuleSet(ctx context.Context, id domain.RecordID, user domain.UserID) error {
	return s.updateShares(ctx, "rule_sets", id, func(o *domain.Ownership) { o.Share(user) })
}

func (s *Store) UnshareRuleSet(ctx context.Context, id domain.RecordID, user domain.UserID) error {
	return s.updateShares(ctx, "rule_sets", id, func(o *domain.Ownership) { o.Unshare(user) })
}
