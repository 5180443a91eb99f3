/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 *
 * Package s3store implements store.Blob on Amazon S3 using aws-sdk-go-v2.
 */
package s3store

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/mikeb26/cubeswiss/store"
	"go.uber.org/zap"
)

const gzipSuffix = ".gz"

// Store objects store and retrieve data using Amazon S3.
type Store struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client used when interacting with S3. By default this
	// is initialized in Init() with the default Config, but callers can
	// optionally override this with their own s3 client if desired.
	Client *s3.Client

	bucketName string

	// gzip indicates whether objects should be gzipped in Put and gunzipped
	// in Get. If true, object keys get the suffix ".gz" appended.
	gzip bool

	logger *zap.Logger
}

var _ store.Blob = (*Store)(nil)

// New returns a Store backed by the named bucket. Callers should take care
// to invoke Init() on the returned Store before use.
func New(bucketName string, gzipIn bool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		bucketName: bucketName,
		gzip:       gzipIn,
		logger:     logger.With(zap.String("bucket", bucketName)),
	}
}

// Init loads the default AWS configuration and checks that the bucket can be
// read and listed. The default configuration sources are:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
func (s *Store) Init(ctx context.Context) error {
	var err error
	if s.Client == nil {
		s.Config, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
		}
		s.Client = s3.NewFromConfig(s.Config)
	}

	if _, err = s.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w",
			s.bucketName, err)
	}

	if _, err = s.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3store.init: list objects failed for %s: %w",
			s.bucketName, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	}

	resp, err := s.Client.GetObject(ctx, input)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, store.ErrNotExist
		}
		s.logger.Warn("s3 get failed", zap.String("key", *input.Key),
			zap.Error(err))
		return nil, fmt.Errorf("s3store.get: %v: %w", *input.Key, err)
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if s.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("s3store.get: failed to open compressed object %v: %w",
				*input.Key, err)
		}
		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("s3store.get: failed to read object %v: %w",
			*input.Key, err)
	}

	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}

	if s.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("s3store.put: failed to gzip data for %v: %w",
				*input.Key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("s3store.put: failed to close gzip writer for %v: %w",
				*input.Key, err)
		}
		input.Body = bytes.NewReader(buf.Bytes())
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := s.Client.PutObject(ctx, input); err != nil {
		s.logger.Warn("s3 put failed", zap.String("key", *input.Key),
			zap.Error(err))
		return fmt.Errorf("s3store.put: %v: %w", *input.Key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	}

	if _, err := s.Client.DeleteObject(ctx, input); err != nil {
		if isNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("s3store.delete: %v: %w", *input.Key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	pager := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3store.list: %v: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if s.gzip {
				if !strings.HasSuffix(key, gzipSuffix) {
					continue
				}
				key = strings.TrimSuffix(key, gzipSuffix)
			}
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (s *Store) objectKey(key string) string {
	if s.gzip {
		return key + gzipSuffix
	}
	return key
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" ||
		apiErr.ErrorCode() == "NotFound")
}
