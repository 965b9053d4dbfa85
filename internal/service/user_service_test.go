package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hightask/helpdesk-api/internal/config"
	"github.com/hightask/helpdesk-api/internal/domain"
	apperrors "github.com/hightask/helpdesk-api/pkg/util"
)

// fakeUserRepository is an in-memory UserRepository keyed by id.
type fakeUserRepository struct {
	users map[string]domain.User
}

func newFakeUserRepository(seed ...domain.User) *fakeUserRepository {
	r := &fakeUserRepository{users: map[string]domain.User{}}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepository) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = "generated-" + user.Email
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepository) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := u
	return &copied, nil
}

func (r *fakeUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepository) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepository) ListByRoles(_ context.Context, roles []domain.Role) ([]domain.User, error) {
	wanted := map[domain.Role]bool{}
	for _, role := range roles {
		wanted[role] = true
	}
	var out []domain.User
	for _, u := range r.users {
		if wanted[u.Role] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepository) TouchLastSignIn(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now().UTC()
	u.LastSignInAt = &now
	r.users[id] = u
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Auth:      config.AuthConfig{BcryptCost: 4},
		Bootstrap: config.BootstrapConfig{AdminEmail: "admin@hightask.local"},
	}
}

func seedUser(id, email string, role domain.Role, lastSignIn *time.Time) domain.User {
	return domain.User{
		ID:           id,
		Email:        email,
		Name:         id,
		Role:         role,
		PasswordHash: "x",
		LastSignInAt: lastSignIn,
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestListUsersAdminOnly(t *testing.T) {
	repo := newFakeUserRepository(
		seedUser("u1", "a@example.com", domain.RoleUser, nil),
		seedUser("u2", "b@example.com", domain.RoleTechnician, nil),
	)
	svc := NewUserService(testConfig(), repo)
	ctx := context.Background()

	users, err := svc.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	for _, caller := range []domain.Identity{userAna, techCleo} {
		_, err := svc.ListUsers(ctx, caller)
		assertDomainErr(t, err, "FORBIDDEN")
	}
}

func TestCreateUser(t *testing.T) {
	repo := newFakeUserRepository(seedUser("u1", "taken@example.com", domain.RoleUser, nil))
	svc := NewUserService(testConfig(), repo)
	ctx := context.Background()

	t.Run("admin creates technician", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, admin, UserCreateInput{
			Email:    "tech@example.com",
			Name:     "New Tech",
			Password: "secret",
			Role:     domain.RoleTechnician,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleTechnician, user.Role)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "secret", user.PasswordHash)
	})

	t.Run("missing role defaults to user", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, admin, UserCreateInput{
			Email:    "plain@example.com",
			Name:     "Plain",
			Password: "secret",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, admin, UserCreateInput{
			Email:    "odd@example.com",
			Name:     "Odd",
			Password: "secret",
			Role:     "supervisor",
		})
		assertDomainErr(t, err, "VALIDATION_FAILED")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, admin, UserCreateInput{
			Email:    "taken@example.com",
			Name:     "Dup",
			Password: "secret",
		})
		assertDomainErr(t, err, "CONFLICT")
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, techCleo, UserCreateInput{
			Email:    "x@example.com",
			Name:     "X",
			Password: "secret",
		})
		assertDomainErr(t, err, "FORBIDDEN")
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("self deletion rejected", func(t *testing.T) {
		repo := newFakeUserRepository(seedUser(admin.ID, "dana@example.com", domain.RoleAdmin, nil))
		svc := NewUserService(testConfig(), repo)
		err := svc.DeleteUser(ctx, admin, admin.ID)
		assertDomainErr(t, err, "VALIDATION_FAILED")
	})

	t.Run("missing user not found", func(t *testing.T) {
		svc := NewUserService(testConfig(), newFakeUserRepository())
		err := svc.DeleteUser(ctx, admin, "ghost")
		assertDomainErr(t, err, "NOT_FOUND")
	})

	t.Run("recently active user rejected with remaining days", func(t *testing.T) {
		lastSeen := time.Now().Add(-10 * 24 * time.Hour)
		repo := newFakeUserRepository(seedUser("u1", "a@example.com", domain.RoleUser, timePtr(lastSeen)))
		svc := NewUserService(testConfig(), repo)

		err := svc.DeleteUser(ctx, admin, "u1")
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		assert.Contains(t, domainErr.Message, "inactive for at least 30 days")
		assert.Contains(t, domainErr.Message, "20 days remaining")
		_, exists := repo.users["u1"]
		assert.True(t, exists, "rejected deletion must not remove the account")
	})

	t.Run("long inactive user deleted", func(t *testing.T) {
		lastSeen := time.Now().Add(-31 * 24 * time.Hour)
		repo := newFakeUserRepository(seedUser("u1", "a@example.com", domain.RoleUser, timePtr(lastSeen)))
		svc := NewUserService(testConfig(), repo)

		require.NoError(t, svc.DeleteUser(ctx, admin, "u1"))
		_, exists := repo.users["u1"]
		assert.False(t, exists)
	})

	t.Run("never signed in user deleted", func(t *testing.T) {
		repo := newFakeUserRepository(seedUser("u1", "a@example.com", domain.RoleUser, nil))
		svc := NewUserService(testConfig(), repo)
		require.NoError(t, svc.DeleteUser(ctx, admin, "u1"))
	})

	t.Run("admin accounts skip the inactivity rule", func(t *testing.T) {
		lastSeen := time.Now().Add(-time.Hour)
		repo := newFakeUserRepository(seedUser("other-admin", "second@example.com", domain.RoleAdmin, timePtr(lastSeen)))
		svc := NewUserService(testConfig(), repo)
		require.NoError(t, svc.DeleteUser(ctx, admin, "other-admin"))
	})

	t.Run("default admin never deletable", func(t *testing.T) {
		repo := newFakeUserRepository(seedUser("root", "admin@hightask.local", domain.RoleAdmin, nil))
		svc := NewUserService(testConfig(), repo)
		err := svc.DeleteUser(ctx, admin, "root")
		assertDomainErr(t, err, "VALIDATION_FAILED")
		_, exists := repo.users["root"]
		assert.True(t, exists)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		repo := newFakeUserRepository(seedUser("u1", "a@example.com", domain.RoleUser, nil))
		svc := NewUserService(testConfig(), repo)
		err := svc.DeleteUser(ctx, techCleo, "u1")
		assertDomainErr(t, err, "FORBIDDEN")
	})
}

func TestListTechnicians(t *testing.T) {
	repo := newFakeUserRepository(
		seedUser("u1", "a@example.com", domain.RoleUser, nil),
		seedUser("t1", "t@example.com", domain.RoleTechnician, nil),
		seedUser("a1", "adm@example.com", domain.RoleAdmin, nil),
	)
	svc := NewUserService(testConfig(), repo)
	ctx := context.Background()

	t.Run("staff roles included, users excluded", func(t *testing.T) {
		for _, caller := range []domain.Identity{techCleo, admin} {
			techs, err := svc.ListTechnicians(ctx, caller)
			require.NoError(t, err)
			ids := make([]string, 0, len(techs))
			for _, u := range techs {
				ids = append(ids, u.ID)
			}
			assert.ElementsMatch(t, []string{"t1", "a1"}, ids)
		}
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		_, err := svc.ListTechnicians(ctx, userAna)
		assertDomainErr(t, err, "FORBIDDEN")
	})
}
