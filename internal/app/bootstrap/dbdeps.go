// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"github.com/dalemusser/shopadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/shopadmin/internal/app/system/ttlcache"
	"github.com/dalemusser/shopadmin/internal/app/system/workers"
)

// DBDeps holds the back-end dependencies for the app. ShopAdmin has no
// database; its backend is the upstream API plus in-memory state.
type DBDeps struct {
	API           *remotestore.Client
	Cache         *ttlcache.Cache
	SearchLimiter *ratelimit.Limiter // nil when search rate limiting is off
	Sweeper       *workers.Sweeper
}
