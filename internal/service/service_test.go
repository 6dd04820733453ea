package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"familyhub/internal/database"
	"familyhub/internal/identity"
	"familyhub/internal/models"
	"familyhub/internal/repository"

	"github.com/google/uuid"
)

// fakeIdentityStore is an in-memory identity.Store with injectable failures
type fakeIdentityStore struct {
	mu        sync.Mutex
	records   map[string]*identity.Identity
	passwords map[string]string

	createErr error
	updateErr error
	deleteErr error
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{
		records:   make(map[string]*identity.Identity),
		passwords: make(map[string]string),
	}
}

func (f *fakeIdentityStore) Create(ctx context.Context, n identity.NewIdentity) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, rec := range f.records {
		if rec.Email == n.Email {
			return nil, identity.ErrEmailTaken
		}
	}
	ident := &identity.Identity{
		ID:            uuid.New().String(),
		Email:         n.Email,
		DisplayName:   n.DisplayName,
		UserType:      n.UserType,
		AgeGroup:      n.AgeGroup,
		EmailVerified: n.EmailVerified,
	}
	f.records[ident.ID] = ident
	f.passwords[ident.ID] = n.Password
	return ident, nil
}

func (f *fakeIdentityStore) Get(ctx context.Context, id string) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ident, ok := f.records[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	copied := *ident
	return &copied, nil
}

func (f *fakeIdentityStore) UpdatePassword(ctx context.Context, id, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.records[id]; !ok {
		return identity.ErrNotFound
	}
	f.passwords[id] = password
	return nil
}

func (f *fakeIdentityStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.records[id]; !ok {
		return identity.ErrNotFound
	}
	delete(f.records, id)
	delete(f.passwords, id)
	return nil
}

func (f *fakeIdentityStore) Authenticate(ctx context.Context, email, password string) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, rec := range f.records {
		if rec.Email == email {
			if f.passwords[id] != password {
				return nil, identity.ErrInvalidCredentials
			}
			copied := *rec
			return &copied, nil
		}
	}
	return nil, identity.ErrInvalidCredentials
}

func (f *fakeIdentityStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeNotifier records notices instead of sending email
type fakeNotifier struct {
	mu          sync.Mutex
	provisioned []string
	rotated     []string
	detached    []string
}

func (f *fakeNotifier) IsEnabled() bool { return true }

func (f *fakeNotifier) SendChildProvisionedNotice(ctx context.Context, toEmail, childName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.provisioned = append(f.provisioned, toEmail+":"+childName)
	return nil
}

func (f *fakeNotifier) SendCredentialRotationNotice(ctx context.Context, toEmail, childName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotated = append(f.rotated, toEmail+":"+childName)
	return nil
}

func (f *fakeNotifier) SendChildDetachedNotice(ctx context.Context, toEmail, childName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = append(f.detached, toEmail+":"+childName)
	return nil
}

// testEnv wires the service layer over a throwaway SQLite database
type testEnv struct {
	db          *database.DB
	identities  *fakeIdentityStore
	profileRepo *repository.ProfileRepository
	familyRepo  *repository.FamilyRepository
	accessRepo  *repository.AccessRepository
	secretsRepo *repository.SecretsRepository
	notices     *fakeNotifier

	family       *FamilyService
	provisioning *ProvisioningService
	credentials  *CredentialService
	access       *AccessService
	secrets      *SecretsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database-backed test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "service_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	env := &testEnv{
		db:          db,
		identities:  newFakeIdentityStore(),
		profileRepo: repository.NewProfileRepository(db),
		familyRepo:  repository.NewFamilyRepository(db),
		accessRepo:  repository.NewAccessRepository(db),
		secretsRepo: repository.NewSecretsRepository(db),
		notices:     &fakeNotifier{},
	}

	env.family = NewFamilyService(env.familyRepo, env.profileRepo, env.identities, env.notices)
	env.provisioning = NewProvisioningService(env.identities, env.profileRepo, env.family, env.notices, "children.example.com")
	env.credentials = NewCredentialService(env.identities, env.profileRepo, env.family, env.notices)
	env.access = NewAccessService(env.accessRepo, env.family)
	env.secrets = NewSecretsService(env.secretsRepo, env.family)
	return env
}

// addParent seeds a parent profile and its login identity
func (e *testEnv) addParent(t *testing.T, username string) *models.Profile {
	t.Helper()
	ctx := context.Background()

	ident, err := e.identities.Create(ctx, identity.NewIdentity{
		Email:       fmt.Sprintf("%s@example.com", username),
		Password:    "parent-password",
		DisplayName: username,
		UserType:    models.UserTypeParent,
	})
	if err != nil {
		t.Fatalf("Failed to create parent identity: %v", err)
	}

	if err := e.profileRepo.InsertIgnoreConflict(ctx, ident.ID, username, models.UserTypeParent, ""); err != nil {
		t.Fatalf("Failed to insert parent profile: %v", err)
	}

	profile, err := e.profileRepo.GetByID(ctx, ident.ID)
	if err != nil || profile == nil {
		t.Fatalf("Failed to load parent profile: %v", err)
	}
	return profile
}

// addChild provisions a child under a parent through the full saga
func (e *testEnv) addChild(t *testing.T, parentID, username, ageGroup string) *models.Profile {
	t.Helper()
	profile, err := e.provisioning.ProvisionChild(context.Background(), parentID, username, ageGroup)
	if err != nil {
		t.Fatalf("Failed to provision child %s: %v", username, err)
	}
	return profile
}
