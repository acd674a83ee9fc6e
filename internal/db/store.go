package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Role of a page member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

type Page struct {
	ID        string
	Title     string
	OwnerID   string
	Width     int32
	Height    int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PageMember struct {
	PageID      string
	UserID      string
	Role        Role
	DisplayName string
	Email       string
}

type Snapshot struct {
	ID        string
	PageID    string
	Version   int32
	Document  json.RawMessage
	CreatedAt time.Time
}

// Store is the query layer over the pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password, display_name, created_at`,
		u.ID, u.Email, u.Password, u.DisplayName)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

// --- Pages ---

func (s *Store) CreatePage(ctx context.Context, p Page) (Page, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO pages (id, title, owner_id, width, height)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, owner_id, width, height, created_at, updated_at`,
		p.ID, p.Title, p.OwnerID, p.Width, p.Height)
	return scanPage(row)
}

func (s *Store) GetPage(ctx context.Context, id string) (Page, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, owner_id, width, height, created_at, updated_at
		FROM pages WHERE id = $1`, id)
	return scanPage(row)
}

func (s *Store) ListPagesForUser(ctx context.Context, userID string) ([]Page, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.title, p.owner_id, p.width, p.height, p.created_at, p.updated_at
		FROM pages p
		JOIN page_members m ON m.page_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *Store) DeletePage(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	return err
}

func (s *Store) TouchPage(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `UPDATE pages SET updated_at = now() WHERE id = $1`, id)
	return err
}

func scanPage(row pgx.Row) (Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.Title, &p.OwnerID, &p.Width, &p.Height, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// --- Members ---

func (s *Store) AddPageMember(ctx context.Context, pageID, userID string, role Role) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO page_members (page_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (page_id, user_id) DO UPDATE SET role = $3`,
		pageID, userID, role)
	return err
}

func (s *Store) GetPageMember(ctx context.Context, pageID, userID string) (PageMember, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT m.page_id, m.user_id, m.role, u.display_name, u.email
		FROM page_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.page_id = $1 AND m.user_id = $2`, pageID, userID)
	var m PageMember
	err := row.Scan(&m.PageID, &m.UserID, &m.Role, &m.DisplayName, &m.Email)
	return m, err
}

func (s *Store) ListPageMembers(ctx context.Context, pageID string) ([]PageMember, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.page_id, m.user_id, m.role, u.display_name, u.email
		FROM page_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.page_id = $1
		ORDER BY u.display_name`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []PageMember
	for rows.Next() {
		var m PageMember
		if err := rows.Scan(&m.PageID, &m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) RemovePageMember(ctx context.Context, pageID, userID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM page_members WHERE page_id = $1 AND user_id = $2`,
		pageID, userID)
	return err
}

// --- Snapshots ---

func (s *Store) CreateSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO page_snapshots (id, page_id, version, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id, page_id, version, document, created_at`,
		snap.ID, snap.PageID, snap.Version, snap.Document)
	return scanSnapshot(row)
}

func (s *Store) GetLatestSnapshot(ctx context.Context, pageID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, page_id, version, document, created_at
		FROM page_snapshots
		WHERE page_id = $1
		ORDER BY version DESC
		LIMIT 1`, pageID)
	return scanSnapshot(row)
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.PageID, &snap.Version, &snap.Document, &snap.CreatedAt)
	return snap, err
}
