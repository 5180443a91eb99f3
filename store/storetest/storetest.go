/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package storetest exercises a store.Blob implementation.
package storetest

import (
	"context"
	"testing"

	"github.com/mikeb26/cubeswiss/store"
	"github.com/stretchr/testify/require"
)

// Blob runs the behaviour every store.Blob must provide. prefix scopes the
// keys it writes so that shared backends are not disturbed.
func Blob(t *testing.T, b store.Blob, prefix string) {
	ctx := context.Background()
	key := prefix + "storetest/a.json"
	other := prefix + "storetest/b.json"
	t.Cleanup(func() {
		_ = b.Delete(ctx, key)
		_ = b.Delete(ctx, other)
	})

	_, err := b.Get(ctx, key)
	require.ErrorIs(t, err, store.ErrNotExist)

	require.NoError(t, b.Put(ctx, key, []byte(`{"v":1}`)))
	require.NoError(t, b.Put(ctx, other, []byte(`{"v":2}`)))

	data, err := b.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, `{"v":1}`, string(data))

	require.NoError(t, b.Put(ctx, key, []byte(`{"v":3}`)))
	data, err = b.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, `{"v":3}`, string(data))

	keys, err := b.List(ctx, prefix+"storetest/")
	require.NoError(t, err)
	require.Equal(t, []string{key, other}, keys)

	require.NoError(t, b.Delete(ctx, key))
	_, err = b.Get(ctx, key)
	require.ErrorIs(t, err, store.ErrNotExist)
	require.NoError(t, b.Delete(ctx, key))

	keys, err = b.List(ctx, prefix+"storetest/")
	require.NoError(t, err)
	require.Equal(t, []string{other}, keys)
}
