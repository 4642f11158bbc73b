package diagnosis

import (
	"fmt"
	"sort"
	"sync"
	"time"

	types "github.com/yungbote/plantdx-backend/internal/domain"
	"github.com/yungbote/plantdx-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/plantdx-backend/internal/pkg/errors"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type memoryRepo struct {
	log *logger.Logger
	now func() time.Time

	mu      sync.RWMutex
	nextID  int64
	lastTS  time.Time
	records []*types.Diagnosis
	byID    map[int64]int
}

// NewMemoryRepo keeps records in process memory; everything is lost on restart.
func NewMemoryRepo(baseLog *logger.Logger) DiagnosisRepo {
	return newMemoryRepo(baseLog, time.Now)
}

func newMemoryRepo(baseLog *logger.Logger, now func() time.Time) *memoryRepo {
	return &memoryRepo{
		log:    baseLog.With("repo", "MemoryDiagnosisRepo"),
		now:    now,
		nextID: 1,
		byID:   map[int64]int{},
	}
}

func (r *memoryRepo) List(dbc dbctx.Context) ([]*types.Diagnosis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.Diagnosis, 0, len(r.records))
	for _, d := range r.records {
		out = append(out, d.Clone())
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memoryRepo) Get(dbc dbctx.Context, id int64) (*types.Diagnosis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("diagnosis %d: %w", id, pkgerrors.ErrNotFound)
	}
	return r.records[i].Clone(), nil
}

func (r *memoryRepo) Create(dbc dbctx.Context, in types.CreateDiagnosisInput) (*types.Diagnosis, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	d := in.Build()

	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = r.nextID
	d.Timestamp = nextTimestamp(r.lastTS, r.now(), time.Nanosecond)
	r.nextID++
	r.lastTS = d.Timestamp
	r.byID[d.ID] = len(r.records)
	r.records = append(r.records, d)

	r.log.Debug("diagnosis stored", "id", d.ID, "disease", d.DiseaseName.In(types.LangEnglish))
	return d.Clone(), nil
}

func sortNewestFirst(rows []*types.Diagnosis) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Timestamp.Equal(rows[j].Timestamp) {
			return rows[i].Timestamp.After(rows[j].Timestamp)
		}
		return rows[i].ID > rows[j].ID
	})
}
