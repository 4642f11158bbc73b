package diagnosis

import (
	"fmt"
	"strings"
	"time"

	types "github.com/yungbote/plantdx-backend/internal/domain"
	"github.com/yungbote/plantdx-backend/internal/pkg/dbctx"
)

// DiagnosisRepo owns diagnosis records. Implementations hand out copies and
// assign ids and timestamps atomically: ids strictly increase, and so do
// timestamps in id order.
type DiagnosisRepo interface {
	// List returns every record newest first, ties broken by id descending.
	List(dbc dbctx.Context) ([]*types.Diagnosis, error)
	// Get returns errors.ErrNotFound when id does not exist.
	Get(dbc dbctx.Context, id int64) (*types.Diagnosis, error)
	Create(dbc dbctx.Context, in types.CreateDiagnosisInput) (*types.Diagnosis, error)
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

func ValidDriver(driver string) error {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverMemory, DriverPostgres, DriverSQLite, DriverRedis:
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", driver)
	}
}

// nextTimestamp returns now, or prev+step when now would not move past prev.
func nextTimestamp(prev, now time.Time, step time.Duration) time.Time {
	now = now.UTC().Truncate(step)
	if !prev.IsZero() && !now.After(prev) {
		return prev.Add(step).UTC()
	}
	return now
}
