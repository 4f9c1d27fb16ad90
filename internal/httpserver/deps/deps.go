package deps

import (
	"time"

	"github.com/nikbrunner/postmark/internal/linkpreview"
	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/storage"
)

type Deps struct {
	Logger      logger.Logger
	StartTime   time.Time
	Version     string
	Storage     storage.Storage      // Folder and bookmark persistence
	Previews    *linkpreview.Service // Preview resolution with optional Redis cache
	CORSOrigins []string             // Allowed browser origins; empty disables CORS headers
}
