package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/stackdraw/pkg/errors"
)

// EnvPrefix prefixes every server environment variable.
const EnvPrefix = "STACKDRAW"

// Server configures `stackdraw serve`. Each field is read from
// STACKDRAW_<name>, for example STACKDRAW_REDIS_URL.
type Server struct {
	Addr string `envconfig:"ADDR" default:":8080"`

	// RedisURL selects the Redis artifact cache. Empty falls back to the
	// file cache in CacheDir.
	RedisURL string        `envconfig:"REDIS_URL"`
	CacheDir string        `envconfig:"CACHE_DIR"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"24h"`

	// MongoURI selects the MongoDB document store. Without it documents
	// go to StoreDir, or stay in memory when that is empty too.
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"stackdraw"`
	StoreDir      string `envconfig:"STORE_DIR"`

	MaxBodyBytes    int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	RenderTimeout   time.Duration `envconfig:"RENDER_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadServer reads the server settings from the environment.
func LoadServer() (Server, error) {
	var s Server
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Server{}, errors.Wrap(errors.ErrCodeInvalidArgument, err, "read %s_* environment", EnvPrefix)
	}
	if s.MaxBodyBytes <= 0 {
		return Server{}, errors.New(errors.ErrCodeInvalidArgument, "%s_MAX_BODY_BYTES must be positive", EnvPrefix)
	}
	return s, nil
}
