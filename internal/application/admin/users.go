package admin

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maison/storefront/internal/domain/session"
	"github.com/maison/storefront/internal/domain/shared"
	"github.com/maison/storefront/internal/infrastructure/export"
)

// UserAPI is the slice of the backend client the users screen uses
type UserAPI interface {
	AdminUsers(ctx context.Context) ([]session.User, error)
	SetUserBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*session.User, error)
	SetUserRole(ctx context.Context, id uuid.UUID, role session.Role) (*session.User, error)
}

// UserSort selects the comparator for the users table
type UserSort string

const (
	UserSortNewest UserSort = "newest"
	UserSortName   UserSort = "name"
	UserSortEmail  UserSort = "email"
)

// UserFilters is the users screen's local UI state
type UserFilters struct {
	Search  string
	Role    session.Role // empty means all roles
	Blocked *bool        // nil means both blocked and active
	Joined  DateRange
	Sort    UserSort
}

// Users is the admin user management screen
type Users struct {
	api      UserAPI
	guard    Guard
	logger   *zap.Logger
	pageSize int

	all     []session.User
	Filters UserFilters
}

// NewUsers creates the users screen
func NewUsers(api UserAPI, guard Guard, pageSize int, logger *zap.Logger) *Users {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Users{
		api:      api,
		guard:    guard,
		logger:   logger,
		pageSize: pageSize,
		Filters:  UserFilters{Sort: UserSortNewest},
	}
}

// Refresh fetches every registered user
func (s *Users) Refresh(ctx context.Context) error {
	if !s.guard.IsAdmin() {
		return shared.ErrForbidden
	}
	users, err := s.api.AdminUsers(ctx)
	if err != nil {
		return err
	}
	s.all = users
	return nil
}

// Page runs the pipeline and returns the requested page
func (s *Users) Page(pageNumber int) Page[session.User] {
	return paginate(s.filtered(), pageNumber, s.pageSize)
}

// filtered runs the filter and sort stages over the whole collection
func (s *Users) filtered() []session.User {
	filtered := make([]session.User, 0, len(s.all))
	for _, u := range s.all {
		if s.Filters.Role != "" && u.Role != s.Filters.Role {
			continue
		}
		if s.Filters.Blocked != nil && u.Blocked != *s.Filters.Blocked {
			continue
		}
		if !s.Filters.Joined.Contains(u.CreatedAt) {
			continue
		}
		if !foldContains(s.Filters.Search, u.Name, u.Email, u.Phone) {
			continue
		}
		filtered = append(filtered, u)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch s.Filters.Sort {
		case UserSortName:
			return a.Name < b.Name
		case UserSortEmail:
			return a.Email < b.Email
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	return filtered
}

// SetBlocked blocks or unblocks a user and patches the single affected
// record in local state
func (s *Users) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	if !s.guard.IsAdmin() {
		return shared.ErrForbidden
	}
	updated, err := s.api.SetUserBlocked(ctx, id, blocked)
	if err != nil {
		return err
	}
	s.patch(*updated)
	s.logger.Info("user blocked flag changed",
		zap.String("user_id", id.String()),
		zap.Bool("blocked", blocked))
	return nil
}

// SetRole changes a user's role and patches the single affected record
func (s *Users) SetRole(ctx context.Context, id uuid.UUID, role session.Role) error {
	if !s.guard.IsAdmin() {
		return shared.ErrForbidden
	}
	updated, err := s.api.SetUserRole(ctx, id, role)
	if err != nil {
		return err
	}
	s.patch(*updated)
	s.logger.Info("user role changed",
		zap.String("user_id", id.String()),
		zap.String("role", string(role)))
	return nil
}

func (s *Users) patch(updated session.User) {
	for i := range s.all {
		if s.all[i].ID == updated.ID {
			s.all[i] = updated
			return
		}
	}
}

// ExportTable builds export rows from every filtered row
func (s *Users) ExportTable() *export.Table {
	filtered := s.filtered()

	rows := make([][]string, 0, len(filtered))
	for _, u := range filtered {
		blocked := "no"
		if u.Blocked {
			blocked = "yes"
		}
		rows = append(rows, []string{
			u.ID.String(),
			u.Name,
			u.Email,
			u.Phone,
			string(u.Role),
			blocked,
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return &export.Table{
		Name:    "Users",
		Headers: []string{"ID", "Name", "Email", "Phone", "Role", "Blocked", "Joined"},
		Rows:    rows,
	}
}
