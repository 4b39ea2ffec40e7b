// Copyright 2025 Dimitrij Drus <dadrus@gmx.de>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package blobsource reads archives directly from object storage buckets. The bucket is addressed
// the way gocloud.dev expects it, e.g. s3://bucket?endpoint=https://rgw.local&region=default,
// with the URL path naming the object key.
package blobsource

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob" // to support azure blobs
	_ "gocloud.dev/blob/gcsblob"   // to support gc storage blobs
	_ "gocloud.dev/blob/s3blob"    // to support aws s3 and ceph rgw blobs
	"gocloud.dev/gcerrors"

	"github.com/permitio/opal-fetcher-ceph/internal/endpoint"
	"github.com/permitio/opal-fetcher-ceph/internal/fetcher"
	"github.com/permitio/opal-fetcher-ceph/internal/source"
	"github.com/permitio/opal-fetcher-ceph/internal/x/errorchain"
)

// nolint: gochecknoinits
func init() {
	factory := source.FactoryFunc(NewSource)

	source.Register("s3", factory)
	source.Register("gs", factory)
	source.Register("azblob", factory)
}

type blobSource struct {
	bucketURL string
	key       string
	id        string
	timeout   time.Duration
}

func NewSource(ep endpoint.Endpoint) (source.Source, error) {
	target, err := url.Parse(ep.URL)
	if err != nil {
		return nil, errorchain.NewWithMessage(fetcher.ErrConfiguration, "failed to parse archive url").
			CausedBy(err)
	}

	key := strings.TrimPrefix(target.Path, "/")
	if len(key) == 0 {
		return nil, errorchain.NewWithMessage(fetcher.ErrConfiguration,
			"archive url does not reference an object key")
	}

	bucketURL := &url.URL{Scheme: target.Scheme, Host: target.Host, RawQuery: target.RawQuery}

	return &blobSource{
		bucketURL: bucketURL.String(),
		key:       key,
		id:        target.Scheme + "://" + target.Host + "/" + key,
		timeout:   ep.Timeout,
	}, nil
}

func (s *blobSource) ID() string { return s.id }

func (s *blobSource) Open(ctx context.Context) (io.ReadCloser, error) {
	logger := zerolog.Ctx(ctx)

	cancel := context.CancelFunc(func() {})
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	}

	bucket, err := blob.OpenBucket(ctx, s.bucketURL)
	if err != nil {
		cancel()

		return nil, errorchain.NewWithMessage(fetcher.ErrConfiguration, "failed to open bucket").
			CausedBy(err)
	}

	reader, err := bucket.NewReader(ctx, s.key, nil)
	if err != nil {
		_ = bucket.Close()
		cancel()

		return nil, classifyReadError(err)
	}

	logger.Debug().
		Str("_source", s.id).
		Int64("_content_length", reader.Size()).
		Msg("Blob opened")

	return &objectReader{Reader: reader, bucket: bucket, cancel: cancel}, nil
}

func classifyReadError(err error) error {
	switch gcerrors.Code(err) {
	case gcerrors.NotFound:
		return errorchain.NewWithMessage(fetcher.ErrCommunication, "archive object not found").CausedBy(err)
	case gcerrors.DeadlineExceeded:
		return errorchain.NewWithMessage(fetcher.ErrCommunicationTimeout,
			"reading archive object timed out").CausedBy(err)
	case gcerrors.PermissionDenied:
		return errorchain.NewWithMessage(fetcher.ErrCommunication,
			"access to archive object denied").CausedBy(err)
	default:
		return errorchain.NewWithMessage(fetcher.ErrCommunication,
			"failed reading archive object").CausedBy(err)
	}
}

// objectReader releases the reader, the bucket and the timeout context exactly once.
type objectReader struct {
	*blob.Reader

	bucket *blob.Bucket
	cancel context.CancelFunc
	once   sync.Once
	err    error
}

func (r *objectReader) Close() error {
	r.once.Do(func() {
		defer r.cancel()

		r.err = r.Reader.Close()
		if err := r.bucket.Close(); err != nil && r.err == nil {
			r.err = err
		}
	})

	return r.err
}
