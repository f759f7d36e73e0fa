package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/agentbounty/bountyboard/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	feed ChangePublisher
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite admits one writer at a time. A single connection serializes
	// statements, so a losing guarded update sees zero rows affected rather
	// than a lock error. For in-memory databases it also keeps every caller on
	// the same database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// SetChangeFeed makes the store publish a change after every committed
// insert into bounties, activity_feed and transactions.
func (s *SQLiteStore) SetChangeFeed(feed ChangePublisher) {
	s.feed = feed
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	// poster_id, claimed_by_id and the activity actor columns are weak
	// references: no foreign keys.
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS agents (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			avatar TEXT NOT NULL DEFAULT '',
			capabilities TEXT NOT NULL DEFAULT '[]',
			credits INTEGER NOT NULL DEFAULT 0,
			api_key TEXT,
			claimed INTEGER NOT NULL DEFAULT 0,
			claimed_by TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_agents_created ON agents(created_at)`,
		`CREATE TABLE IF NOT EXISTS bounties (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			reward INTEGER NOT NULL DEFAULT 0,
			tags TEXT NOT NULL DEFAULT '[]',
			requirements TEXT NOT NULL DEFAULT '{}',
			deadline DATETIME,
			poster_id TEXT NOT NULL,
			claimed_by_id TEXT,
			claimed_at DATETIME,
			completed_at DATETIME,
			result TEXT,
			proof TEXT,
			completion_time_minutes INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bounties_created ON bounties(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_bounties_status_category ON bounties(status, category)`,
		`CREATE TABLE IF NOT EXISTS activity_feed (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			agent1_id TEXT NOT NULL,
			agent2_id TEXT,
			bounty_id TEXT,
			reward INTEGER,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_feed(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_bounty ON activity_feed(bounty_id)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			amount INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) publishInsert(table, recordID string) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(domain.Change{
		Table:    table,
		Op:       domain.ChangeOpInsert,
		RecordID: recordID,
		At:       time.Now().UTC(),
	})
}

// UpsertAgent inserts an agent, or on an existing id refreshes only the
// claimed flag and updated_at. Credits, capabilities and profile fields of an
// existing agent are left untouched.
func (s *SQLiteStore) UpsertAgent(ctx context.Context, agent *domain.Agent) error {
	caps, err := encodeJSON(agent.Capabilities, "[]")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agents (id, name, description, avatar, capabilities, credits, api_key, claimed, claimed_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET claimed = excluded.claimed, updated_at = excluded.updated_at`,
		agent.ID, agent.Name, nullString(agent.Description), agent.Avatar, caps, agent.Credits,
		nullString(agent.APIKey), agent.Claimed, nullString(agent.ClaimedBy), agent.CreatedAt.UTC(), agent.UpdatedAt.UTC())
	return err
}

const agentColumns = `id, name, description, avatar, capabilities, credits, api_key, claimed, claimed_by, created_at, updated_at`

func scanAgent(row rowScanner) (*domain.Agent, error) {
	var agent domain.Agent
	var description, caps, apiKey, claimedBy sql.NullString
	if err := row.Scan(&agent.ID, &agent.Name, &description, &agent.Avatar, &caps, &agent.Credits,
		&apiKey, &agent.Claimed, &claimedBy, &agent.CreatedAt, &agent.UpdatedAt); err != nil {
		return nil, err
	}
	agent.Description = description.String
	agent.APIKey = apiKey.String
	agent.ClaimedBy = claimedBy.String
	agent.Capabilities = []string{}
	if err := decodeJSON(caps, &agent.Capabilities, "agents.capabilities"); err != nil {
		return nil, err
	}
	return &agent, nil
}

// GetAgent retrieves an agent by ID.
func (s *SQLiteStore) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = ?`, agentID)
	agent, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// ListAgents lists agents, newest first.
func (s *SQLiteStore) ListAgents(ctx context.Context, limit int) ([]domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents ORDER BY created_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := []domain.Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

// CountAgents returns the number of agent rows.
func (s *SQLiteStore) CountAgents(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n)
	return n, err
}

// CreateBounty creates a new bounty.
func (s *SQLiteStore) CreateBounty(ctx context.Context, b *domain.Bounty) error {
	tags, err := encodeJSON(b.Tags, "[]")
	if err != nil {
		return err
	}
	reqs, err := encodeJSON(b.Requirements, "{}")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bounties (id, title, description, category, status, reward, tags, requirements, deadline, poster_id,
			claimed_by_id, claimed_at, completed_at, result, proof, completion_time_minutes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Description, b.Category, b.Status, b.Reward, tags, reqs, nullTime(b.Deadline), b.PosterID,
		nullString(b.ClaimedByID), nullTime(b.ClaimedAt), nullTime(b.CompletedAt), nullString(b.Result), nullString(b.Proof),
		b.CompletionTimeMinutes, b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	s.publishInsert(domain.TableBounties, b.ID)
	return nil
}

const bountySelect = `SELECT b.id, b.title, b.description, b.category, b.status, b.reward, b.tags, b.requirements,
	b.deadline, b.poster_id, b.claimed_by_id, b.claimed_at, b.completed_at, b.result, b.proof,
	b.completion_time_minutes, b.created_at, b.updated_at,
	p.id, p.name, p.avatar, c.id, c.name, c.avatar
	FROM bounties b
	LEFT JOIN agents p ON p.id = b.poster_id
	LEFT JOIN agents c ON c.id = b.claimed_by_id`

func scanBounty(row rowScanner) (*domain.Bounty, error) {
	var b domain.Bounty
	var tags, reqs, claimedByID, result, proof sql.NullString
	var deadline, claimedAt, completedAt sql.NullTime
	var posterID, posterName, posterAvatar sql.NullString
	var claimantID, claimantName, claimantAvatar sql.NullString
	if err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Category, &b.Status, &b.Reward, &tags, &reqs,
		&deadline, &b.PosterID, &claimedByID, &claimedAt, &completedAt, &result, &proof,
		&b.CompletionTimeMinutes, &b.CreatedAt, &b.UpdatedAt,
		&posterID, &posterName, &posterAvatar, &claimantID, &claimantName, &claimantAvatar); err != nil {
		return nil, err
	}

	if !b.Category.Valid() {
		return nil, fmt.Errorf("%w: bounty %s has unknown category %q", domain.ErrShapeMismatch, b.ID, b.Category)
	}
	if !b.Status.Valid() {
		return nil, fmt.Errorf("%w: bounty %s has unknown status %q", domain.ErrShapeMismatch, b.ID, b.Status)
	}

	b.Tags = []string{}
	if err := decodeJSON(tags, &b.Tags, "bounties.tags"); err != nil {
		return nil, err
	}
	b.Requirements = map[string]interface{}{}
	if err := decodeJSON(reqs, &b.Requirements, "bounties.requirements"); err != nil {
		return nil, err
	}

	b.ClaimedByID = claimedByID.String
	b.Result = result.String
	b.Proof = proof.String
	b.Deadline = timePtr(deadline)
	b.ClaimedAt = timePtr(claimedAt)
	b.CompletedAt = timePtr(completedAt)

	var err error
	if b.Poster, err = agentSummary(posterID, posterName, posterAvatar, "poster"); err != nil {
		return nil, err
	}
	if b.ClaimedBy, err = agentSummary(claimantID, claimantName, claimantAvatar, "claimed_by"); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBounty retrieves a bounty by ID with poster and claimant summaries.
func (s *SQLiteStore) GetBounty(ctx context.Context, bountyID string) (*domain.Bounty, error) {
	row := s.db.QueryRowContext(ctx, bountySelect+` WHERE b.id = ?`, bountyID)
	b, err := scanBounty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBounties lists bounties matching filter, newest first.
func (s *SQLiteStore) ListBounties(ctx context.Context, filter domain.BountyFilter) ([]domain.Bounty, error) {
	query := bountySelect
	var conds []string
	var args []interface{}

	if filter.Category != "" {
		conds = append(conds, `b.category = ?`)
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		conds = append(conds, `b.status = ?`)
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}

	query += ` ORDER BY b.created_at DESC, b.rowid DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bounties := []domain.Bounty{}
	for rows.Next() {
		b, err := scanBounty(rows)
		if err != nil {
			return nil, err
		}
		bounties = append(bounties, *b)
	}
	return bounties, rows.Err()
}

// ClaimOpenBounty moves a bounty from open to claimed in a single
// predicate-guarded update. It reports false when no open row matched.
func (s *SQLiteStore) ClaimOpenBounty(ctx context.Context, bountyID, claimantID string, claimedAt time.Time) (bool, error) {
	claimedAt = claimedAt.UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE bounties SET status = ?, claimed_by_id = ?, claimed_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		domain.BountyStatusClaimed, claimantID, claimedAt, claimedAt, bountyID, domain.BountyStatusOpen)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetBountyPosterReward returns the poster id and reward of a bounty.
func (s *SQLiteStore) GetBountyPosterReward(ctx context.Context, bountyID string) (string, int64, error) {
	var posterID string
	var reward int64
	err := s.db.QueryRowContext(ctx,
		`SELECT poster_id, reward FROM bounties WHERE id = ?`, bountyID).Scan(&posterID, &reward)
	return posterID, reward, err
}

// CountBountiesByStatus returns the number of bounties in status.
func (s *SQLiteStore) CountBountiesByStatus(ctx context.Context, status domain.BountyStatus) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bounties WHERE status = ?`, status).Scan(&n)
	return n, err
}

// ListOverdueBounties returns ids of open bounties whose deadline is before
// now, oldest deadline first.
func (s *SQLiteStore) ListOverdueBounties(ctx context.Context, now time.Time, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM bounties
		WHERE status = ? AND deadline IS NOT NULL AND deadline < ?
		ORDER BY deadline ASC
		LIMIT ?
	`, domain.BountyStatusOpen, now.UTC(), limit)
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
	return ids, nil
}

// ExpireBountyIfOpen moves a bounty from open to expired. It reports false
// when the bounty was no longer open.
func (s *SQLiteStore) ExpireBountyIfOpen(ctx context.Context, bountyID string, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bounties SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		domain.BountyStatusExpired, now.UTC(), bountyID, domain.BountyStatusOpen)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CreateActivity appends an activity feed entry.
func (s *SQLiteStore) CreateActivity(ctx context.Context, event *domain.ActivityEvent) error {
	metadata, err := encodeJSON(event.Metadata, "{}")
	if err != nil {
		return err
	}
	var reward sql.NullInt64
	if event.Reward != nil {
		reward = sql.NullInt64{Int64: *event.Reward, Valid: true}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO activity_feed (id, event_type, agent1_id, agent2_id, bounty_id, reward, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.EventType, event.Agent1ID, nullString(event.Agent2ID), nullString(event.BountyID),
		reward, metadata, event.CreatedAt.UTC())
	if err != nil {
		return err
	}
	s.publishInsert(domain.TableActivityFeed, event.ID)
	return nil
}

// ListActivity lists activity entries, newest first, with actor and bounty
// summaries.
func (s *SQLiteStore) ListActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	query := `SELECT a.id, a.event_type, a.agent1_id, a.agent2_id, a.bounty_id, a.reward, a.metadata, a.created_at,
		a1.id, a1.name, a1.avatar, a2.id, a2.name, a2.avatar, b.id, b.title, b.reward
		FROM activity_feed a
		LEFT JOIN agents a1 ON a1.id = a.agent1_id
		LEFT JOIN agents a2 ON a2.id = a.agent2_id
		LEFT JOIN bounties b ON b.id = a.bounty_id
		ORDER BY a.created_at DESC, a.rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.ActivityEvent{}
	for rows.Next() {
		var e domain.ActivityEvent
		var agent2ID, bountyID, metadata sql.NullString
		var reward sql.NullInt64
		var a1ID, a1Name, a1Avatar, a2ID, a2Name, a2Avatar sql.NullString
		var bID, bTitle sql.NullString
		var bReward sql.NullInt64
		if err := rows.Scan(&e.ID, &e.EventType, &e.Agent1ID, &agent2ID, &bountyID, &reward, &metadata, &e.CreatedAt,
			&a1ID, &a1Name, &a1Avatar, &a2ID, &a2Name, &a2Avatar, &bID, &bTitle, &bReward); err != nil {
			return nil, err
		}
		if !e.EventType.Valid() {
			return nil, fmt.Errorf("%w: activity %s has unknown event type %q", domain.ErrShapeMismatch, e.ID, e.EventType)
		}
		e.Agent2ID = agent2ID.String
		e.BountyID = bountyID.String
		if reward.Valid {
			r := reward.Int64
			e.Reward = &r
		}
		e.Metadata = map[string]interface{}{}
		if err := decodeJSON(metadata, &e.Metadata, "activity_feed.metadata"); err != nil {
			return nil, err
		}
		if e.Agent1, err = agentSummary(a1ID, a1Name, a1Avatar, "agent1"); err != nil {
			return nil, err
		}
		if e.Agent2, err = agentSummary(a2ID, a2Name, a2Avatar, "agent2"); err != nil {
			return nil, err
		}
		if e.Bounty, err = bountySummary(bID, bTitle, bReward); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CreateTransaction appends a ledger entry.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, amount, created_at) VALUES (?, ?, ?)`,
		tx.ID, tx.Amount, tx.CreatedAt.UTC())
	if err != nil {
		return err
	}
	s.publishInsert(domain.TableTransactions, tx.ID)
	return nil
}

// SumTransactionAmounts returns the sum of absolute ledger amounts.
func (s *SQLiteStore) SumTransactionAmounts(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(ABS(amount)), 0) FROM transactions`).Scan(&total)
	return total, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// agentSummary validates a joined agent. A missing row is a dangling weak
// reference and yields nil; a row without a name is a shape mismatch.
func agentSummary(id, name, avatar sql.NullString, field string) (*domain.AgentSummary, error) {
	if !id.Valid {
		return nil, nil
	}
	if !name.Valid || name.String == "" {
		return nil, fmt.Errorf("%w: %s summary for agent %s has no name", domain.ErrShapeMismatch, field, id.String)
	}
	return &domain.AgentSummary{ID: id.String, Name: name.String, Avatar: avatar.String}, nil
}

func bountySummary(id, title sql.NullString, reward sql.NullInt64) (*domain.BountySummary, error) {
	if !id.Valid {
		return nil, nil
	}
	if !title.Valid || !reward.Valid {
		return nil, fmt.Errorf("%w: bounty summary %s is incomplete", domain.ErrShapeMismatch, id.String)
	}
	return &domain.BountySummary{ID: id.String, Title: title.String, Reward: reward.Int64}, nil
}

func encodeJSON(v interface{}, empty string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode column: %w", err)
	}
	if string(data) == "null" {
		return empty, nil
	}
	return string(data), nil
}

func decodeJSON(col sql.NullString, dst interface{}, column string) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrShapeMismatch, column, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
