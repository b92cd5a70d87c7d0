package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcenter/console-api/internal/models"
	appErrors "github.com/edcenter/console-api/pkg/errors"
)

type fakeStudentBackend struct {
	mu sync.Mutex

	listItems      []models.Student
	listPagination models.Pagination
	listErr        error
	listCalls      int
	// listGate, when set, blocks List calls until released. With gatePage set
	// only calls for that page block.
	listGate chan struct{}
	gatePage int
	// pageItems, when set, overrides listItems per requested page.
	pageItems map[int][]models.Student

	created    *models.Student
	createErr  error
	updated    *models.Student
	updateErr  error
	deleteErr  error
	deleteIDs  []string
	restored   *models.Student
	restoreErr error
}

func (f *fakeStudentBackend) ListStudents(_ context.Context, filter models.ListFilter) ([]models.Student, models.Pagination, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	if f.gatePage != 0 && filter.Page != f.gatePage {
		gate = nil
	}
	items, pagination, err := f.listItems, f.listPagination, f.listErr
	if override, ok := f.pageItems[filter.Page]; ok {
		items = override
	}
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return items, pagination, err
}

func (f *fakeStudentBackend) CreateStudent(context.Context, models.CreateStudentRequest) (*models.Student, error) {
	return f.created, f.createErr
}

func (f *fakeStudentBackend) UpdateStudent(context.Context, string, models.UpdateStudentRequest) (*models.Student, error) {
	return f.updated, f.updateErr
}

func (f *fakeStudentBackend) DeleteStudent(_ context.Context, id string) error {
	f.mu.Lock()
	f.deleteIDs = append(f.deleteIDs, id)
	f.mu.Unlock()
	return f.deleteErr
}

func (f *fakeStudentBackend) RestoreStudent(context.Context, string) (*models.Student, error) {
	return f.restored, f.restoreErr
}

func student(id, name string) models.Student {
	return models.Student{ID: id, FullName: name, IsActive: true}
}

// waitForListCalls spins until the fake has seen n List calls, so tests can
// order an in-flight fetch against a competing operation.
func waitForListCalls(t *testing.T, f *fakeStudentBackend, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		calls := f.listCalls
		f.mu.Unlock()
		if calls >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for list calls")
}

func TestStudentsListAllPagesThroughCollection(t *testing.T) {
	backend := &fakeStudentBackend{
		listPagination: models.Pagination{Limit: 200, Total: 5, TotalPages: 3},
		pageItems: map[int][]models.Student{
			1: {student("s1", "Aida"), student("s2", "Bek")},
			2: {student("s3", "Carla"), student("s4", "Dono")},
			3: {student("s5", "Eldor")},
		},
	}
	s := NewStudents(backend, nil)

	all, err := s.ListAll(context.Background(), models.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "s5", all[4].ID)
	assert.Equal(t, 3, backend.listCalls)

	// The cached page and UI state stay untouched.
	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.False(t, snap.Loading)
}

func TestStudentsListAllPropagatesErrors(t *testing.T) {
	backend := &fakeStudentBackend{listErr: errors.New("boom")}
	s := NewStudents(backend, nil)

	_, err := s.ListAll(context.Background(), models.ListFilter{})
	require.Error(t, err)
}

func TestStudentsFetchReplacesCollection(t *testing.T) {
	backend := &fakeStudentBackend{
		listItems:      []models.Student{student("s1", "Aida"), student("s2", "Bek")},
		listPagination: models.Pagination{Page: 1, Limit: 20, Total: 2, TotalPages: 1},
	}
	s := NewStudents(backend, nil)

	s.Fetch(context.Background(), models.ListFilter{Page: 1, Limit: 20})

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 2, snap.Pagination.Total)

	// A second fetch replaces, never merges.
	backend.mu.Lock()
	backend.listItems = []models.Student{student("s3", "Dana")}
	backend.listPagination = models.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}
	backend.mu.Unlock()

	s.Fetch(context.Background(), models.ListFilter{Page: 1, Limit: 20})
	snap = s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "s3", snap.Items[0].ID)
}

func TestStudentsFetchFailureClearsCollection(t *testing.T) {
	backend := &fakeStudentBackend{
		listItems:      []models.Student{student("s1", "Aida")},
		listPagination: models.Pagination{Total: 1},
	}
	s := NewStudents(backend, nil)
	s.Fetch(context.Background(), models.ListFilter{})
	require.Len(t, s.Snapshot().Items, 1)

	backend.mu.Lock()
	backend.listErr = appErrors.Clone(appErrors.ErrBackend, "upstream down")
	backend.mu.Unlock()

	s.Fetch(context.Background(), models.ListFilter{})

	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, models.Pagination{}, snap.Pagination)
	assert.Equal(t, "upstream down", snap.Error)
	assert.False(t, snap.Loading)
}

func TestStudentsCreateAppendsAndClosesModal(t *testing.T) {
	created := student("s9", "Nodira")
	backend := &fakeStudentBackend{
		listItems:      []models.Student{student("s1", "Aida")},
		listPagination: models.Pagination{Total: 1},
		created:        &created,
	}
	s := NewStudents(backend, nil)
	s.Fetch(context.Background(), models.ListFilter{})
	s.SetModal("create", true)

	got, err := s.Create(context.Background(), models.CreateStudentRequest{FullName: "Nodira", Phone: "998900000000"})
	require.NoError(t, err)
	assert.Equal(t, "s9", got.ID)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "s9", snap.Items[1].ID)
	assert.Equal(t, 2, snap.Pagination.Total)
	assert.False(t, snap.CreateModalOpen)
	assert.Empty(t, snap.Error)
}

func TestStudentsCreateFailureKeepsModalAndRecordsError(t *testing.T) {
	backend := &fakeStudentBackend{createErr: appErrors.Clone(appErrors.ErrValidation, "phone already registered")}
	s := NewStudents(backend, nil)
	s.SetModal("create", true)

	_, err := s.Create(context.Background(), models.CreateStudentRequest{FullName: "X", Phone: "1"})
	require.Error(t, err)

	snap := s.Snapshot()
	assert.True(t, snap.CreateModalOpen)
	assert.Equal(t, "phone already registered", snap.Error)
	assert.False(t, snap.Saving)
}

func TestStudentsUpdateReplacesById(t *testing.T) {
	updated := student("s2", "Bek Renamed")
	backend := &fakeStudentBackend{
		listItems: []models.Student{student("s1", "Aida"), student("s2", "Bek")},
		updated:   &updated,
	}
	s := NewStudents(backend, nil)
	s.Fetch(context.Background(), models.ListFilter{})

	name := "Bek Renamed"
	_, err := s.Update(context.Background(), "s2", models.UpdateStudentRequest{FullName: &name})
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Aida", snap.Items[0].FullName)
	assert.Equal(t, "Bek Renamed", snap.Items[1].FullName)
}

func TestStudentsDeleteFiltersOut(t *testing.T) {
	backend := &fakeStudentBackend{
		listItems:      []models.Student{student("s1", "Aida"), student("s2", "Bek")},
		listPagination: models.Pagination{Total: 2},
	}
	s := NewStudents(backend, nil)
	s.Fetch(context.Background(), models.ListFilter{})
	s.SetModal("confirm", true)

	require.NoError(t, s.Delete(context.Background(), "s1"))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "s2", snap.Items[0].ID)
	assert.Equal(t, 1, snap.Pagination.Total)
	assert.False(t, snap.ConfirmModalOpen)
}

func TestStudentsDeleteUncachedIdStillCallsBackend(t *testing.T) {
	backend := &fakeStudentBackend{
		listItems:      []models.Student{student("s1", "Aida")},
		listPagination: models.Pagination{Total: 1},
	}
	s := NewStudents(backend, nil)
	s.Fetch(context.Background(), models.ListFilter{})

	require.NoError(t, s.Delete(context.Background(), "ghost"))

	assert.Equal(t, []string{"ghost"}, backend.deleteIDs)
	snap := s.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Pagination.Total)
}

func TestStudentsRestoreMergesInPlace(t *testing.T) {
	restored := models.Student{ID: "s2", FullName: "Bek", IsActive: true}
	backend := &fakeStudentBackend{
		listItems: []models.Student{
			student("s1", "Aida"),
			{ID: "s2", FullName: "Bek", IsActive: false},
			student("s3", "Dana"),
		},
		restored: &restored,
	}
	s := NewStudents(backend, nil)
	s.Fetch(context.Background(), models.ListFilter{})

	_, err := s.Restore(context.Background(), "s2")
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "s2", snap.Items[1].ID)
	assert.True(t, snap.Items[1].IsActive)
}

func TestStudentsStaleFetchDiscardedAfterMutation(t *testing.T) {
	created := student("s9", "Nodira")
	gate := make(chan struct{})
	backend := &fakeStudentBackend{
		listItems: []models.Student{student("s1", "Aida")},
		listGate:  gate,
		created:   &created,
	}
	s := NewStudents(backend, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Fetch(context.Background(), models.ListFilter{})
	}()

	waitForListCalls(t, backend, 1)

	// The create lands while the fetch is still in flight, so the fetch's
	// answer is stale by the time it arrives.
	_, err := s.Create(context.Background(), models.CreateStudentRequest{FullName: "Nodira", Phone: "1"})
	require.NoError(t, err)
	close(gate)
	wg.Wait()

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "s9", snap.Items[0].ID)
}

func TestStudentsSecondFetchWins(t *testing.T) {
	gate := make(chan struct{})
	backend := &fakeStudentBackend{
		listGate: gate,
		gatePage: 1,
		pageItems: map[int][]models.Student{
			1: {student("old", "Old Page")},
			2: {student("new", "New Page")},
		},
	}
	s := NewStudents(backend, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Fetch(context.Background(), models.ListFilter{Page: 1})
	}()

	waitForListCalls(t, backend, 1)

	// The second fetch supersedes the first even though the first finishes
	// later.
	s.Fetch(context.Background(), models.ListFilter{Page: 2})

	close(gate)
	wg.Wait()

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "new", snap.Items[0].ID)
	assert.False(t, snap.Loading)
}

func TestStudentsSelectAndModals(t *testing.T) {
	s := NewStudents(&fakeStudentBackend{}, nil)

	s.Select("s1")
	s.SetModal("edit", true)
	s.SetModal("bogus", true)

	snap := s.Snapshot()
	assert.Equal(t, "s1", snap.SelectedID)
	assert.True(t, snap.EditModalOpen)
	assert.False(t, snap.CreateModalOpen)
}

func TestStudentsWatchFiresOnChange(t *testing.T) {
	s := NewStudents(&fakeStudentBackend{}, nil)
	ch := s.Watch()
	before := s.Version()

	s.Select("s1")

	select {
	case <-ch:
	default:
		t.Fatal("watch channel did not fire")
	}
	assert.Greater(t, s.Version(), before)
}

func TestStudentsErrorMessagePassthrough(t *testing.T) {
	// Structured upstream messages surface verbatim; transport failures use
	// the generic fallback.
	backend := &fakeStudentBackend{listErr: errors.New("connection refused")}
	s := NewStudents(backend, nil)
	s.Fetch(context.Background(), models.ListFilter{})
	assert.Equal(t, appErrors.ErrInternal.Message, s.Snapshot().Error)
}
