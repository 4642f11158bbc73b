package diagnosis

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/plantdx-backend/internal/domain"
	"github.com/yungbote/plantdx-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/plantdx-backend/internal/pkg/errors"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

// serializes timestamp allocation across writers on Postgres
const createLockKey int64 = 0x706c616e74647801

type gormRepo struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

// NewGormRepo stores diagnoses in the diagnoses table of a Postgres or SQLite
// database. The schema must already be migrated.
func NewGormRepo(db *gorm.DB, baseLog *logger.Logger) DiagnosisRepo {
	repoLog := baseLog.With("repo", "DiagnosisRepo")
	return &gormRepo{db: db, log: repoLog, now: time.Now}
}

func (r *gormRepo) conn(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(r.db)
}

func (r *gormRepo) List(dbc dbctx.Context) ([]*types.Diagnosis, error) {
	var results []*types.Diagnosis
	if err := r.conn(dbc).
		Order("created_at DESC").
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	for _, d := range results {
		d.Timestamp = d.Timestamp.UTC()
	}
	return results, nil
}

func (r *gormRepo) Get(dbc dbctx.Context, id int64) (*types.Diagnosis, error) {
	var d types.Diagnosis
	err := r.conn(dbc).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("diagnosis %d: %w", id, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get diagnosis %d: %w", id, err)
	}
	d.Timestamp = d.Timestamp.UTC()
	return &d, nil
}

func (r *gormRepo) Create(dbc dbctx.Context, in types.CreateDiagnosisInput) (*types.Diagnosis, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	d := in.Build()

	err := r.conn(dbc).Transaction(func(txx *gorm.DB) error {
		if txx.Dialector.Name() == "postgres" {
			if err := txx.Exec("SELECT pg_advisory_xact_lock(?)", createLockKey).Error; err != nil {
				return err
			}
		}
		var last []types.Diagnosis
		if err := txx.Select("id", "created_at").
			Order("created_at DESC").
			Limit(1).
			Find(&last).Error; err != nil {
			return err
		}
		var prev time.Time
		if len(last) > 0 {
			prev = last[0].Timestamp.UTC()
		}
		// Postgres keeps microseconds; stepping by one keeps the order strict there too.
		d.Timestamp = nextTimestamp(prev, r.now(), time.Microsecond)
		return txx.Create(d).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create diagnosis: %w", err)
	}

	r.log.Debug("diagnosis stored", "id", d.ID, "disease", d.DiseaseName.In(types.LangEnglish))
	return d.Clone(), nil
}
