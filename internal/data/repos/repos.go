package repos

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/plantdx-backend/internal/data/repos/diagnosis"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type DiagnosisRepo = diagnosis.DiagnosisRepo

// Backends carries whichever connections the selected driver needs.
type Backends struct {
	DB          *gorm.DB
	Redis       *goredis.Client
	RedisPrefix string
}

func NewDiagnosisRepo(driver string, b Backends, log *logger.Logger) (DiagnosisRepo, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", diagnosis.DriverMemory:
		return diagnosis.NewMemoryRepo(log), nil
	case diagnosis.DriverPostgres, diagnosis.DriverSQLite:
		if b.DB == nil {
			return nil, fmt.Errorf("store driver %q requires a database", driver)
		}
		return diagnosis.NewGormRepo(b.DB, log), nil
	case diagnosis.DriverRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("store driver %q requires a redis client", driver)
		}
		return diagnosis.NewRedisRepo(b.Redis, b.RedisPrefix, log), nil
	default:
		return nil, diagnosis.ValidDriver(driver)
	}
}
