/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"

	"github.com/gregjones/httpcache"
	"go.uber.org/zap"
)

const httpCachePrefix = "httpcache/"

// HTTPCache stores httpcache entries in a Blob so that fetched roster pages
// survive restarts when the Blob is S3-backed.
type HTTPCache struct {
	ctx    context.Context
	blob   Blob
	logger *zap.Logger
}

var _ httpcache.Cache = (*HTTPCache)(nil)

func NewHTTPCache(ctx context.Context, blob Blob, logger *zap.Logger) *HTTPCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPCache{ctx: ctx, blob: blob, logger: logger}
}

func (c *HTTPCache) Get(key string) ([]byte, bool) {
	objKey := c.objectKey(key)
	data, err := c.blob.Get(c.ctx, objKey)
	if err != nil {
		// no such key just indicates a cache miss
		if !IsNotExist(err) {
			c.logger.Warn("httpcache get failed", zap.String("key", objKey),
				zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (c *HTTPCache) Set(key string, data []byte) {
	objKey := c.objectKey(key)
	if err := c.blob.Put(c.ctx, objKey, data); err != nil {
		c.logger.Warn("httpcache set failed", zap.String("key", objKey),
			zap.Error(err))
	}
}

func (c *HTTPCache) Delete(key string) {
	objKey := c.objectKey(key)
	if err := c.blob.Delete(c.ctx, objKey); err != nil {
		c.logger.Warn("httpcache delete failed", zap.String("key", objKey),
			zap.Error(err))
	}
}

func (c *HTTPCache) objectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	return httpCachePrefix + hex.EncodeToString(h.Sum(nil))
}
