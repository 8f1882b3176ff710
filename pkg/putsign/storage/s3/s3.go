package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/putsign/putsign/pkg/putsign"
)

// Config options for the S3 signer
type Config struct {
	Region          string // AWS region
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	SessionToken    string // Optional session token for temporary credentials
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
}

// Signer issues SigV4 presigned URLs for objects in S3. Presigning is a
// local computation; no request is sent to S3 when a URL is produced.
type Signer struct {
	presignClient *s3.PresignClient
}

// New creates a new S3 signer. When the config carries static credentials
// they are used directly; otherwise credential resolution follows the SDK
// default chain (environment, shared config, workload identity).
func New(ctx context.Context, config Config) (*Signer, error) {
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				config.SessionToken,
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", putsign.ErrAuthentication, err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	return &Signer{
		presignClient: s3.NewPresignClient(client),
	}, nil
}

// SignPutURL returns a presigned URL authorizing a PUT of the named object.
// The request's content type is signed into the URL, so the upload must
// send an identical Content-Type header.
func (s *Signer) SignPutURL(ctx context.Context, req putsign.SignRequest) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(req.Bucket),
		Key:    aws.String(req.ObjectKey),
	}
	if req.ContentType != "" {
		input.ContentType = aws.String(req.ContentType)
	}

	result, err := s.presignClient.PresignPutObject(ctx, input, s3.WithPresignExpires(req.TTL))
	if err != nil {
		return "", &putsign.SignError{
			Backend: "s3",
			Bucket:  req.Bucket,
			Key:     req.ObjectKey,
			Op:      "sign_put",
			Err:     classify(err),
		}
	}

	return result.URL, nil
}

// SignGetURL returns a presigned URL authorizing a GET of the named object.
func (s *Signer) SignGetURL(ctx context.Context, req putsign.SignRequest) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(req.Bucket),
		Key:    aws.String(req.ObjectKey),
	}

	result, err := s.presignClient.PresignGetObject(ctx, input, s3.WithPresignExpires(req.TTL))
	if err != nil {
		return "", &putsign.SignError{
			Backend: "s3",
			Bucket:  req.Bucket,
			Key:     req.ObjectKey,
			Op:      "sign_get",
			Err:     classify(err),
		}
	}

	return result.URL, nil
}

// classify maps SDK errors onto the package taxonomy. Credential retrieval
// failures surface at presign time because SigV4 needs the secret key.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidAccessKeyId", "ExpiredToken", "InvalidToken", "AccessDenied":
			return fmt.Errorf("%w: %v", putsign.ErrAuthentication, err)
		}
	}
	if strings.Contains(err.Error(), "failed to retrieve credentials") ||
		strings.Contains(err.Error(), "no EC2 IMDS role found") {
		return fmt.Errorf("%w: %v", putsign.ErrAuthentication, err)
	}
	return err
}
