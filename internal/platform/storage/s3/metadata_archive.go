/*
 * Copyright (c) 2025 AgriTrust
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-21
 * Change License: AGPL-3.0
 */

package s3

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/agritrust/api-core/internal/core/ports"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MetadataArchive keeps an object-locked copy of every off-chain metadata
// document. IPFS pins are best-effort; this is the durable fallback the
// platform controls.
type MetadataArchive struct {
	client *s3.Client
	bucket string
}

var _ ports.MetadataArchiver = (*MetadataArchive)(nil)

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

func NewMetadataArchive(ctx context.Context, cfg Config) (*MetadataArchive, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				if cfg.Endpoint != "" {
					return aws.Endpoint{
						PartitionID:   "aws",
						URL:           cfg.Endpoint,
						SigningRegion: cfg.Region,
					}, nil
				}
				return aws.Endpoint{}, &aws.EndpointNotFoundError{}
			},
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &MetadataArchive{client: client, bucket: cfg.Bucket}, nil
}

func (a *MetadataArchive) ArchiveMetadata(ctx context.Context, batchID string, data []byte) (string, error) {
	key := fmt.Sprintf("metadata/%s.json", batchID)
	retentionDate := time.Now().AddDate(10, 0, 0)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:                    aws.String(a.bucket),
		Key:                       aws.String(key),
		Body:                      bytes.NewReader(data),
		ContentType:               aws.String("application/json"),
		ObjectLockMode:            types.ObjectLockModeGovernance,
		ObjectLockRetainUntilDate: &retentionDate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive metadata: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
