package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muniadmin/internal/dashboard"
	"muniadmin/internal/directory"
	"muniadmin/internal/directory/store/memory"
	"muniadmin/internal/platform/logger"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
	failing bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failing {
		return nil, errors.New("connection refused")
	}
	raw, ok := c.entries[key]
	if !ok {
		return nil, dashboard.ErrCacheMiss
	}
	return raw, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.failing {
		return errors.New("connection refused")
	}
	c.entries[key] = value
	return nil
}

type countingEmployees struct {
	*memory.EmployeeStore
	calls int
}

func (c *countingEmployees) CountByStatus(ctx context.Context, status directory.EmployeeStatus) (int, error) {
	c.calls++
	return c.EmployeeStore.CountByStatus(ctx, status)
}

func seed(t *testing.T, employees *memory.EmployeeStore, departments *memory.DepartmentStore, municipalities *memory.MunicipalityStore) {
	t.Helper()
	ctx := context.Background()

	for _, d := range []string{"Anagrafe", "Tributi"} {
		_, err := departments.Create(ctx, directory.Department{Name: d})
		require.NoError(t, err)
	}
	_, err := municipalities.Create(ctx, directory.Municipality{Name: "Firenze"})
	require.NoError(t, err)

	for _, status := range []directory.EmployeeStatus{
		directory.StatusActive, directory.StatusActive, directory.StatusPending,
	} {
		_, err := employees.Create(ctx, directory.Employee{
			Name: "Employee", Email: "e@comune.example.it",
			DepartmentID: 1, MunicipalityID: 1, Status: status,
		})
		require.NoError(t, err)
	}
}

func TestStats_ComputesCounters(t *testing.T) {
	employees := memory.NewEmployeeStore()
	departments := memory.NewDepartmentStore()
	municipalities := memory.NewMunicipalityStore()
	seed(t, employees, departments, municipalities)

	svc := dashboard.NewService(employees, departments, municipalities,
		nil, time.Minute, logger.NewNop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dashboard.Stats{
		TotalEmployees:      3,
		ActiveEmployees:     2,
		PendingRequests:     1,
		TotalDepartments:    2,
		TotalMunicipalities: 1,
	}, stats)
}

// The second read within the TTL is served from the cache without touching
// the stores.
func TestStats_ServesFromCache(t *testing.T) {
	employees := &countingEmployees{EmployeeStore: memory.NewEmployeeStore()}
	departments := memory.NewDepartmentStore()
	municipalities := memory.NewMunicipalityStore()
	seed(t, employees.EmployeeStore, departments, municipalities)

	cache := newFakeCache()
	svc := dashboard.NewService(employees, departments, municipalities,
		cache, time.Minute, logger.NewNop())
	ctx := context.Background()

	first, err := svc.Stats(ctx)
	require.NoError(t, err)
	callsAfterFirst := employees.calls
	require.Positive(t, callsAfterFirst)

	second, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, employees.calls)
	assert.Equal(t, 1, cache.sets)
}

// A broken cache degrades to direct reads instead of failing the request.
func TestStats_CacheFailureFallsThrough(t *testing.T) {
	employees := memory.NewEmployeeStore()
	departments := memory.NewDepartmentStore()
	municipalities := memory.NewMunicipalityStore()
	seed(t, employees, departments, municipalities)

	cache := newFakeCache()
	cache.failing = true
	svc := dashboard.NewService(employees, departments, municipalities,
		cache, time.Minute, logger.NewNop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalEmployees)
}
