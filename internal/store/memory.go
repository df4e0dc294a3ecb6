package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"conlang/internal/domain"
)

// SnapshotFile is the name of the JSON snapshot written under the store directory.
const SnapshotFile = "conlang.json"

// snapshot is the on-disk form of a Memory store.
type snapshot struct {
	NextID    int64                    `json:"nextId"`
	Users     []domain.User            `json:"users"`
	Lexicon   []domain.LexiconEntry    `json:"lexicon"`
	Phonology []domain.PhonologyConfig `json:"phonology"`
	RuleSets  []domain.RuleSet         `json:"ruleSets"`
}

// Memory is a map-backed Store. The zero value is not usable; call NewMemory or Open.
type Memory struct {
	path string // empty: no persistence

	mu        sync.RWMutex
	nextID    int64
	users     map[domain.UserID]domain.User
	lexicon   map[domain.RecordID]domain.LexiconEntry
	phonology map[domain.RecordID]domain.PhonologyConfig
	ruleSets  map[domain.RecordID]domain.RuleSet
}

// NewMemory returns an empty, purely in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextID:    1,
		users:     make(map[domain.UserID]domain.User),
		lexicon:   make(map[domain.RecordID]domain.LexiconEntry),
		phonology: make(map[domain.RecordID]domain.PhonologyConfig),
		ruleSets:  make(map[domain.RecordID]domain.RuleSet),
	}
}

// Open returns a store persisted to dir/SnapshotFile, loading any existing snapshot.
func Open(dir string) (*Memory, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	m := NewMemory()
	m.path = filepath.Join(dir, SnapshotFile)

	var snap snapshot
	ok, err := readJSON(m.path, &snap)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if ok {
		m.restore(snap)
	}
	return m, nil
}

// Close is a no-op; every mutation is already on disk.
func (m *Memory) Close() error { return nil }

func (m *Memory) restore(snap snapshot) {
	if snap.NextID > m.nextID {
		m.nextID = snap.NextID
	}
	for _, u := range snap.Users {
		m.users[u.ID] = u
	}
	for _, e := range snap.Lexicon {
		m.lexicon[e.ID] = e
	}
	for _, p := range snap.Phonology {
		m.phonology[p.ID] = p
	}
	for _, r := range snap.RuleSets {
		m.ruleSets[r.ID] = r
	}
}

// persist writes the snapshot. Callers hold m.mu for writing.
func (m *Memory) persist() error {
	if m.path == "" {
		return nil
	}
	snap := snapshot{
		NextID:    m.nextID,
		Users:     sortedValues(m.users, func(u domain.User) int64 { return int64(u.ID) }),
		Lexicon:   sortedValues(m.lexicon, func(e domain.LexiconEntry) int64 { return int64(e.ID) }),
		Phonology: sortedValues(m.phonology, func(p domain.PhonologyConfig) int64 { return int64(p.ID) }),
		RuleSets:  sortedValues(m.ruleSets, func(r domain.RuleSet) int64 { return int64(r.ID) }),
	}
	if err := writeJSON(m.path, snap, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// commit persists the current state. If the write fails, undo reverts the
// in-memory change so memory and disk stay in step. Callers hold m.mu for writing.
func (m *Memory) commit(undo func()) error {
	if err := m.persist(); err != nil {
		undo()
		return err
	}
	return nil
}

// allocID hands out the next id. Users and records share one counter.
func (m *Memory) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// ---------- Users ----------

func (m *Memory) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.User{}, domain.ErrUsernameTaken
		}
	}
	user.ID = domain.UserID(m.allocID())
	user.PasswordHash = slices.Clone(user.PasswordHash)
	m.users[user.ID] = user
	if err := m.commit(func() { delete(m.users, user.ID) }); err != nil {
		return domain.User{}, err
	}
	return cloneUser(user), nil
}

func (m *Memory) GetUserByName(_ context.Context, username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return cloneUser(u), true, nil
		}
	}
	return domain.User{}, false, nil
}

func (m *Memory) GetUser(_ context.Context, id domain.UserID) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return domain.User{}, false, nil
	}
	return cloneUser(u), true, nil
}

// ---------- Lexicon ----------

func (m *Memory) ListLexicon(_ context.Context, user domain.UserID) ([]domain.LexiconEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterLexicon(m.lexicon, func(e domain.LexiconEntry) bool { return e.VisibleTo(user) }), nil
}

func (m *Memory) ListSharedLexicon(_ context.Context, user domain.UserID) ([]domain.LexiconEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterLexicon(m.lexicon, func(e domain.LexiconEntry) bool { return e.IsSharedWith(user) }), nil
}

func (m *Memory) GetLexiconEntry(_ context.Context, id domain.RecordID) (domain.LexiconEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.lexicon[id]
	if !ok {
		return domain.LexiconEntry{}, false, nil
	}
	return cloneLexicon(e), true, nil
}

func (m *Memory) CreateLexiconEntry(
	_ context.Context,
	in domain.LexiconInput,
	owner domain.UserID,
) (domain.LexiconEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := domain.LexiconEntry{
		ID:         domain.RecordID(m.allocID()),
		Word:       in.Word,
		Definition: in.Definition,
		Category:   in.Category,
		Notes:      in.Notes,
		Ownership:  domain.Ownership{CreatedBy: owner, SharedWith: []domain.UserID{}},
	}
	m.lexicon[e.ID] = e
	if err := m.commit(func() { delete(m.lexicon, e.ID) }); err != nil {
		return domain.LexiconEntry{}, err
	}
	return cloneLexicon(e), nil
}

func (m *Memory) UpdateLexiconEntry(
	_ context.Context,
	id domain.RecordID,
	in domain.LexiconInput,
) (domain.LexiconEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.lexicon[id]
	if !ok {
		return domain.LexiconEntry{}, domain.ErrNotFound
	}
	e := prev
	e.Word, e.Definition, e.Category, e.Notes = in.Word, in.Definition, in.Category, in.Notes
	m.lexicon[id] = e
	if err := m.commit(func() { m.lexicon[id] = prev }); err != nil {
		return domain.LexiconEntry{}, err
	}
	return cloneLexicon(e), nil
}

func (m *Memory) DeleteLexiconEntry(_ context.Context, id domain.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.lexicon[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.lexicon, id)
	return m.commit(func() { m.lexicon[id] = prev })
}

func (m *Memory) ShareLexiconEntry(_ context.Context, id domain.RecordID, user domain.UserID) error {
	return m.updateLexiconOwnership(id, func(o *domain.Ownership) { o.Share(user) })
}

func (m *Memory) UnshareLexiconEntry(_ context.Context, id domain.RecordID, user domain.UserID) error {
	return m.updateLexiconOwnership(id, func(o *domain.Ownership) { o.Unshare(user) })
}

func (m *Memory) updateLexiconOwnership(id domain.RecordID, fn func(*domain.Ownership)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.lexicon[id]
	if !ok {
		return domain.ErrNotFound
	}
	e := prev
	e.Ownership = cloneOwnership(prev.Ownership)
	fn(&e.Ownership)
	m.lexicon[id] = e
	return m.commit(func() { m.lexicon[id] = prev })
}

// ---------- Phonology ----------

func (m *Memory) GetPhonology(_ context.Context, user domain.UserID) (domain.PhonologyConfig, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		best  domain.PhonologyConfig
		found bool
	)
	for _, p := range m.phonology {
		if p.VisibleTo(user) && (!found || p.ID > best.ID) {
			best, found = p, true
		}
	}
	if !found {
		return domain.PhonologyConfig{}, false, nil
	}
	return clonePhonology(best), true, nil
}

func (m *Memory) GetPhonologyByID(_ context.Context, id domain.RecordID) (domain.PhonologyConfig, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.phonology[id]
	if !ok {
		return domain.PhonologyConfig{}, false, nil
	}
	return clonePhonology(p), true, nil
}

func (m *Memory) ListSharedPhonology(_ context.Context, user domain.UserID) ([]domain.PhonologyConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.PhonologyConfig, 0)
	for _, p := range sortedValues(m.phonology, func(p domain.PhonologyConfig) int64 { return int64(p.ID) }) {
		if p.IsSharedWith(user) {
			out = append(out, clonePhonology(p))
		}
	}
	return out, nil
}

func (m *Memory) SavePhonology(
	_ context.Context,
	in domain.PhonologyInput,
	owner domain.UserID,
) (domain.PhonologyConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := domain.PhonologyConfig{
		ID:               domain.RecordID(m.allocID()),
		Consonants:       slices.Clone(in.Consonants),
		Vowels:           slices.Clone(in.Vowels),
		SyllablePatterns: slices.Clone(in.SyllablePatterns),
		Ownership:        domain.Ownership{CreatedBy: owner, SharedWith: []domain.UserID{}},
	}
	m.phonology[p.ID] = p
	if err := m.commit(func() { delete(m.phonology, p.ID) }); err != nil {
		return domain.PhonologyConfig{}, err
	}
	return clonePhonology(p), nil
}

func (m *Memory) SharePhonology(_ context.Context, id domain.RecordID, user domain.UserID) error {
	return m.updatePhonologyOwnership(id, func(o *domain.Ownership) { o.Share(user) })
}

func (m *Memory) UnsharePhonology(_ context.Context, id domain.RecordID, user domain.UserID) error {
	return m.updatePhonologyOwnership(id, func(o *domain.Ownership) { o.Unshare(user) })
}

func (m *Memory) updatePhonologyOwnership(id domain.RecordID, fn func(*domain.Ownership)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.phonology[id]
	if !ok {
		return domain.ErrNotFound
	}
	p := prev
	p.Ownership = cloneOwnership(prev.Ownership)
	fn(&p.Ownership)
	m.phonology[id] = p
	return m.commit(func() { m.phonology[id] = prev })
}

// ---------- Rule sets ----------

func (m *Memory) ListRuleSets(_ context.Context, user domain.UserID) ([]domain.RuleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterRuleSets(m.ruleSets, func(r domain.RuleSet) bool { return r.VisibleTo(user) }), nil
}

func (m *Memory) ListSharedRuleSets(_ context.Context, user domain.UserID) ([]domain.RuleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterRuleSets(m.ruleSets, func(r domain.RuleSet) bool { return r.IsSharedWith(user) }), nil
}

func (m *Memory) GetRuleSet(_ context.Context, id domain.RecordID) (domain.RuleSet, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.ruleSets[id]
	if !ok {
		return domain.RuleSet{}, false, nil
	}
	return cloneRuleSet(r), true, nil
}

func (m *Memory) CreateRuleSet(
	_ context.Context,
	in domain.RuleSetInput,
	owner domain.UserID,
) (domain.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := domain.RuleSet{
		ID:        domain.RecordID(m.allocID()),
		Name:      in.Name,
		Rules:     slices.Clone(in.Rules),
		Ownership: domain.Ownership{CreatedBy: owner, SharedWith: []domain.UserID{}},
	}
	m.ruleSets[r.ID] = r
	if err := m.commit(func() { delete(m.ruleSets, r.ID) }); err != nil {
		return domain.RuleSet{}, err
	}
	return cloneRuleSet(r), nil
}

func (m *Memory) DeleteRuleSet(_ context.Context, id domain.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.ruleSets[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.ruleSets, id)
	return m.commit(func() { m.ruleSets[id] = prev })
}

func (m *Memory) ShareRuleSet(_ context.Context, id domain.RecordID, user domain.UserID) error {
	return m.updateRuleSetOwnership(id, func(o *domain.Ownership) { o.Share(user) })
}

func (m *Memory) UnshareRuleSet(_ context.Context, id domain.RecordID, user domain.UserID) error {
	return m.updateRuleSetOwnership(id, func(o *domain.Ownership) { o.Unshare(user) })
}

func (m *Memory) updateRuleSetOwnership(id domain.RecordID, fn func(*domain.Ownership)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.ruleSets[id]
	if !ok {
		return domain.ErrNotFound
	}
	r := prev
	r.Ownership = cloneOwnership(prev.Ownership)
	fn(&r.Ownership)
	m.ruleSets[id] = r
	return m.commit(func() { m.ruleSets[id] = prev })
}

// Compile-time assertion that Memory implements domain.Store.
var _ domain.Store = (*Memory)(nil)
