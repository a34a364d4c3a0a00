package admin

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maison/storefront/internal/domain/session"
	"github.com/maison/storefront/internal/domain/shared"
)

type fakeUserAPI struct {
	users []session.User
}

func (f *fakeUserAPI) AdminUsers(ctx context.Context) ([]session.User, error) {
	return f.users, nil
}

func (f *fakeUserAPI) SetUserBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*session.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			u.Blocked = blocked
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeUserAPI) SetUserRole(ctx context.Context, id uuid.UUID, role session.Role) (*session.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			u.Role = role
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func testUsers() []session.User {
	return []session.User{
		{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", Role: session.RoleCustomer, CreatedAt: day(1)},
		{ID: uuid.New(), Name: "Bob", Email: "bob@example.com", Role: session.RoleCustomer, Blocked: true, CreatedAt: day(2)},
		{ID: uuid.New(), Name: "Carol", Email: "carol@example.com", Role: session.RoleAdmin, CreatedAt: day(3)},
	}
}

func newUsersScreen(t *testing.T, api *fakeUserAPI) *Users {
	t.Helper()
	screen := NewUsers(api, adminGuard(true), 10, nil)
	require.NoError(t, screen.Refresh(context.Background()))
	return screen
}

func TestUsers_RefreshRequiresAdmin(t *testing.T) {
	screen := NewUsers(&fakeUserAPI{}, adminGuard(false), 10, nil)
	assert.ErrorIs(t, screen.Refresh(context.Background()), shared.ErrForbidden)
}

func TestUsers_FilterByRole(t *testing.T) {
	screen := newUsersScreen(t, &fakeUserAPI{users: testUsers()})
	screen.Filters.Role = session.RoleAdmin

	p := screen.Page(1)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Carol", p.Items[0].Name)
}

func TestUsers_FilterByBlocked(t *testing.T) {
	screen := newUsersScreen(t, &fakeUserAPI{users: testUsers()})
	blocked := true
	screen.Filters.Blocked = &blocked

	p := screen.Page(1)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Bob", p.Items[0].Name)
}

func TestUsers_SearchByEmail(t *testing.T) {
	screen := newUsersScreen(t, &fakeUserAPI{users: testUsers()})
	screen.Filters.Search = "carol@"

	p := screen.Page(1)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Carol", p.Items[0].Name)
}

func TestUsers_BlockPatchesRecord(t *testing.T) {
	api := &fakeUserAPI{users: testUsers()}
	screen := newUsersScreen(t, api)
	id := api.users[0].ID

	require.NoError(t, screen.SetBlocked(context.Background(), id, true))

	for _, u := range screen.Page(1).Items {
		if u.ID == id {
			assert.True(t, u.Blocked)
		}
	}
}

func TestUsers_SetRolePatchesRecord(t *testing.T) {
	api := &fakeUserAPI{users: testUsers()}
	screen := newUsersScreen(t, api)
	id := api.users[0].ID

	require.NoError(t, screen.SetRole(context.Background(), id, session.RoleAdmin))

	for _, u := range screen.Page(1).Items {
		if u.ID == id {
			assert.Equal(t, session.RoleAdmin, u.Role)
		}
	}
}

func TestUsers_MutationsRequireAdmin(t *testing.T) {
	screen := NewUsers(&fakeUserAPI{}, adminGuard(false), 10, nil)

	assert.ErrorIs(t, screen.SetBlocked(context.Background(), uuid.New(), true), shared.ErrForbidden)
	assert.ErrorIs(t, screen.SetRole(context.Background(), uuid.New(), session.RoleAdmin), shared.ErrForbidden)
}

func TestUsers_ExportRowFidelity(t *testing.T) {
	screen := newUsersScreen(t, &fakeUserAPI{users: testUsers()})

	table := screen.ExportTable()
	require.Len(t, table.Rows, 3)
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Headers))
	}
}
