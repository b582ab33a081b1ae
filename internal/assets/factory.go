package assets

import (
	"context"
	"fmt"

	"github.com/publishing-api/internal/config"
	"github.com/rs/zerolog"
)

// New returns the store selected by cfg.Backend
func New(ctx context.Context, cfg config.AssetsConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case "disk", "":
		return NewDiskStore(cfg.UploadDir, log)
	case "s3":
		return NewObjectStore(ctx, cfg.S3, log)
	default:
		return nil, fmt.Errorf("unknown asset backend %q", cfg.Backend)
	}
}
