package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neptino/neptino/editor-go/internal/db"
	"github.com/neptino/neptino/editor-go/internal/document"
	"github.com/neptino/neptino/editor-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("page not found")
	ErrForbidden = errors.New("forbidden")
	ErrNotMember = errors.New("not a page member")
)

type Service struct {
	store *db.Store
}

func NewService(store *db.Store) *Service {
	return &Service{store: store}
}

type Page struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	OwnerID   string `json:"ownerId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (s *Service) Create(ctx context.Context, title, ownerID string) (*Page, error) {
	pageID := typeid.NewPageID()

	dbPage, err := s.store.CreatePage(ctx, db.Page{
		ID:      pageID,
		Title:   title,
		OwnerID: ownerID,
		Width:   document.DefaultPageWidth,
		Height:  document.DefaultPageHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := s.store.AddPageMember(ctx, pageID, ownerID, db.RoleOwner); err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	// Seed the starter page snapshot so the first editor session has a
	// frame and title to draw on.
	starter := document.NewStarterDocument(pageID, title)
	docJSON, err := json.Marshal(starter)
	if err != nil {
		return nil, fmt.Errorf("marshal starter document: %w", err)
	}

	_, err = s.store.CreateSnapshot(ctx, db.Snapshot{
		ID:       typeid.NewSnapshotID(),
		PageID:   pageID,
		Version:  1,
		Document: docJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbPageToPage(dbPage), nil
}

func (s *Service) Get(ctx context.Context, pageID, userID string) (*Page, error) {
	if err := s.checkMembership(ctx, pageID, userID); err != nil {
		return nil, err
	}

	dbPage, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get page: %w", err)
	}

	return dbPageToPage(dbPage), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Page, error) {
	dbPages, err := s.store.ListPagesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	pages := make([]Page, len(dbPages))
	for i, p := range dbPages {
		pages[i] = *dbPageToPage(p)
	}

	return pages, nil
}

func (s *Service) Delete(ctx context.Context, pageID, userID string) error {
	dbPage, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get page: %w", err)
	}

	if dbPage.OwnerID != userID {
		return ErrForbidden
	}

	return s.store.DeletePage(ctx, pageID)
}

func (s *Service) InviteByEmail(ctx context.Context, pageID, ownerID, inviteeEmail string, role db.Role) error {
	dbPage, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get page: %w", err)
	}

	if dbPage.OwnerID != ownerID {
		return ErrForbidden
	}

	invitee, err := s.store.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	if role != db.RoleEditor && role != db.RoleViewer {
		role = db.RoleEditor
	}

	return s.store.AddPageMember(ctx, pageID, invitee.ID, role)
}

func (s *Service) ListMembers(ctx context.Context, pageID, userID string) ([]Member, error) {
	if err := s.checkMembership(ctx, pageID, userID); err != nil {
		return nil, err
	}

	dbMembers, err := s.store.ListPageMembers(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(dbMembers))
	for i, m := range dbMembers {
		members[i] = Member{
			UserID:      m.UserID,
			Role:        string(m.Role),
			DisplayName: m.DisplayName,
			Email:       m.Email,
		}
	}

	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, pageID, ownerID, targetUserID string) error {
	dbPage, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get page: %w", err)
	}

	if dbPage.OwnerID != ownerID {
		return ErrForbidden
	}

	if targetUserID == ownerID {
		return errors.New("cannot remove page owner")
	}

	return s.store.RemovePageMember(ctx, pageID, targetUserID)
}

// Role returns the membership role of userID on pageID. The session hub
// uses this to decide whether a connection may drive tools or only watch.
func (s *Service) Role(ctx context.Context, pageID, userID string) (db.Role, error) {
	member, err := s.store.GetPageMember(ctx, pageID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotMember
		}
		return "", fmt.Errorf("check membership: %w", err)
	}
	return member.Role, nil
}

func (s *Service) GetLatestSnapshot(ctx context.Context, pageID, userID string) (json.RawMessage, error) {
	if err := s.checkMembership(ctx, pageID, userID); err != nil {
		return nil, err
	}

	snap, err := s.store.GetLatestSnapshot(ctx, pageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return snap.Document, nil
}

// SaveSnapshot persists a new versioned snapshot of the page document and
// bumps the page's updated_at. Editors only.
func (s *Service) SaveSnapshot(ctx context.Context, pageID, userID string, doc *document.PageDocument) error {
	role, err := s.Role(ctx, pageID, userID)
	if err != nil {
		return err
	}
	if role == db.RoleViewer {
		return ErrForbidden
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	latest, err := s.store.GetLatestSnapshot(ctx, pageID)
	version := int32(1)
	if err == nil {
		version = latest.Version + 1
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get latest snapshot: %w", err)
	}

	_, err = s.store.CreateSnapshot(ctx, db.Snapshot{
		ID:       typeid.NewSnapshotID(),
		PageID:   pageID,
		Version:  version,
		Document: docJSON,
	})
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	if err := s.store.TouchPage(ctx, pageID); err != nil {
		return fmt.Errorf("touch page: %w", err)
	}

	return nil
}

func (s *Service) checkMembership(ctx context.Context, pageID, userID string) error {
	_, err := s.store.GetPageMember(ctx, pageID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	return nil
}

func dbPageToPage(p db.Page) *Page {
	return &Page{
		ID:        p.ID,
		Title:     p.Title,
		OwnerID:   p.OwnerID,
		Width:     int(p.Width),
		Height:    int(p.Height),
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
