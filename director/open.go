/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package director

import (
	"context"
	"fmt"

	"github.com/mikeb26/cubeswiss/internal"
	"github.com/mikeb26/cubeswiss/roundlock"
	"github.com/mikeb26/cubeswiss/s3store"
	"github.com/mikeb26/cubeswiss/store"
	"go.uber.org/zap"
)

// Open builds a Director from configuration. Tournaments live in cfg.DataDir
// when set and in the S3 bucket otherwise; locks go through Redis when
// cfg.RedisAddr is set. The returned func releases held connections.
func Open(ctx context.Context, cfg *internal.Config,
	logger *zap.Logger) (*Director, func(), error) {

	var blob store.Blob
	if cfg.DataDir != "" {
		dir, err := store.NewDirBlob(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		blob = dir
		logger.Debug("using local storage", zap.String("dir", cfg.DataDir))
	} else {
		s3 := s3store.New(cfg.Bucket, cfg.Gzip, logger)
		if err := s3.Init(ctx); err != nil {
			return nil, nil, fmt.Errorf("director.open: %w (set %v for local storage)",
				err, internal.EnvDataDir)
		}
		blob = s3
		logger.Debug("using s3 storage", zap.String("bucket", cfg.Bucket))
	}

	closer := func() {}
	var locker roundlock.Locker = roundlock.NewLocalLocker()
	if cfg.RedisAddr != "" {
		client, err := roundlock.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("director.open: %w", err)
		}
		locker = roundlock.NewRedisLocker(client, roundlock.DefaultTTL)
		closer = func() { client.Close() }
	}

	return New(store.New(blob), locker, logger), closer, nil
}

func (d *Director) Store() *store.Store {
	return d.store
}
