package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/database"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
)

var (
	sharedOnce      sync.Once
	sharedInitErr   error
	sharedContainer *postgres.PostgresContainer
	sharedPool      *pgxpool.Pool
)

func TestMain(m *testing.M) {
	code := m.Run()
	if sharedPool != nil {
		sharedPool.Close()
	}
	if sharedContainer != nil {
		_ = sharedContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

// setupPostgres starts one Postgres container per test binary, migrates it
// and truncates all tables. It skips when Docker is unavailable.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration tests skipped in -short mode")
	}

	sharedOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				sharedInitErr = fmt.Errorf("start container: %v", r)
			}
		}()

		container, err := postgres.Run(ctx,
			"docker.io/postgres:16-alpine",
			postgres.WithDatabase("eventmanager"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			sharedInitErr = err
			return
		}
		sharedContainer = container

		dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedInitErr = err
			return
		}
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			sharedInitErr = err
			return
		}
		if err := database.MigrateUp(pool); err != nil {
			pool.Close()
			sharedInitErr = err
			return
		}
		sharedPool = pool
	})
	if sharedInitErr != nil {
		t.Skipf("postgres unavailable: %v", sharedInitErr)
	}

	_, err := sharedPool.Exec(context.Background(), `TRUNCATE attendees, events, users`)
	require.NoError(t, err)
	return sharedPool
}

func TestPostgresEventRepository(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := NewEventRepository(pool)

	seeded := seedEvents(t, repo, model.EventTypeMeetup, model.EventTypeWorkshop, model.EventTypeWorkshop, model.EventTypeConference)

	page, err := repo.List(ctx, model.EventFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, seeded[2].ID, page[0].ID)
	assert.Equal(t, seeded[3].ID, page[1].ID)

	workshops, err := repo.List(ctx, model.EventFilter{Type: model.EventTypeWorkshop})
	require.NoError(t, err)
	assert.Len(t, workshops, 2)

	n, err := repo.Count(ctx, model.EventTypeWorkshop)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	desc := "now with a description"
	updated, err := repo.Update(ctx, seeded[0].ID, model.EventUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, seeded[0].Name, updated.Name)

	_, err = repo.Update(ctx, "00000000-0000-0000-0000-000000000000", model.EventUpdate{Description: &desc})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Delete(ctx, seeded[0].ID))
	require.NoError(t, repo.Delete(ctx, "00000000-0000-0000-0000-000000000000"))
	_, err = repo.GetByID(ctx, seeded[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresAttendeeRepositoryRegister(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	events := NewEventRepository(pool)
	attendees := NewAttendeeRepository(pool)

	seeded := seedEvents(t, events, model.EventTypeMeetup, model.EventTypeWorkshop)

	require.NoError(t, attendees.Register(ctx, &model.Attendee{
		Name: "A", Email: "a@x.com", Phone: "1", EventID: seeded[0].ID,
	}))

	err := attendees.Register(ctx, &model.Attendee{Name: "A", Email: "a@x.com", Phone: "1", EventID: seeded[0].ID})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	err = attendees.Register(ctx, &model.Attendee{Name: "A", Email: "a@x.com", Phone: "1", EventID: seeded[1].ID})
	assert.ErrorIs(t, err, ErrEmailTaken)

	err = attendees.Register(ctx, &model.Attendee{
		Name: "B", Email: "b@x.com", Phone: "2", EventID: "00000000-0000-0000-0000-000000000000",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	event, err := events.GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, event.AttendeesTotal)

	list, err := attendees.ListByEvent(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := attendees.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPostgresAttendeeRepositoryConcurrentDuplicates(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	events := NewEventRepository(pool)
	attendees := NewAttendeeRepository(pool)

	seeded := seedEvents(t, events, model.EventTypeMeetup)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := attendees.Register(ctx, &model.Attendee{
				Name: "A", Email: "a@x.com", Phone: "1", EventID: seeded[0].ID,
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	event, err := events.GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, event.AttendeesTotal)
}

func TestPostgresUserRepositoryUpsert(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	u := &model.User{Username: "admin", PasswordHash: "h1"}
	require.NoError(t, users.Upsert(ctx, u))
	require.NoError(t, users.Upsert(ctx, &model.User{Username: "admin", PasswordHash: "h2"}))

	got, err := users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "h2", got.PasswordHash)
}
