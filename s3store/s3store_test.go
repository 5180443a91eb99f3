/* Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package s3store

import (
	"context"
	"fmt"
	"testing"

	"github.com/mikeb26/cubeswiss/internal"
	"github.com/mikeb26/cubeswiss/store/storetest"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, gzip bool) *Store {
	s := New(internal.DefaultBucket, gzip, nil)
	err := s.Init(context.Background())
	if err != nil {
		t.Skip(fmt.Sprintf("Skipping test due to lack of access to %v: %v",
			internal.DefaultBucket, err))
	}
	return s
}

func TestS3Store(t *testing.T) {
	storetest.Blob(t, newTestStore(t, false), "test/plain/")
}

func TestS3StoreWithGzip(t *testing.T) {
	storetest.Blob(t, newTestStore(t, true), "test/gzip/")
}

func TestObjectKey(t *testing.T) {
	require.Equal(t, "a/b.json", New("bucket", false, nil).objectKey("a/b.json"))
	require.Equal(t, "a/b.json.gz", New("bucket", true, nil).objectKey("a/b.json"))
}
