// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Store backs Store with aws-sdk-go, grounded on the original's
// adapters/s3.rs (put_object / list_objects_v2 paginated by
// continuation token / head/get). AWS credentials come from the
// standard AWS environment via session.NewSession, per spec §6.
type S3Store struct {
	client *s3.S3
}

func NewS3Store() (*S3Store, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return &S3Store{client: s3.New(sess)}, nil
}

func (s *S3Store) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("failed to put_object at: %s, %w", key, err)
	}
	return nil
}

func (s *S3Store) ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error) {
	var objects []Object
	var continuationToken *string

	for {
		out, err := s.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list_objects at: %s, %w", prefix, err)
		}

		for _, obj := range out.Contents {
			var modified time.Time
			if obj.LastModified != nil {
				modified = *obj.LastModified
			}
			var size int64
			if obj.Size != nil {
				size = *obj.Size
			}
			objects = append(objects, Object{
				Key:          aws.StringValue(obj.Key),
				Size:         size,
				ModifiedTime: modified,
			})
		}

		if out.NextContinuationToken == nil {
			break
		}
		continuationToken = out.NextContinuationToken
	}

	return objects, nil
}

func (s *S3Store) DownloadObject(ctx context.Context, bucket, key string, rng *ByteRange) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if rng != nil {
		input.Range = aws.String(fmt.Sprintf("bytes=%d-%d", rng.Start, rng.End))
	}

	out, err := s.client.GetObjectWithContext(ctx, input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to download_object at: %s, %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of: %s, %w", key, err)
	}
	return body, nil
}

func (s *S3Store) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return true, nil
	}
	if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchBucket) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check bucket_exists: %s, %w", bucket, err)
}
