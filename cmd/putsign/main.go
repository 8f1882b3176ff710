// Command putsign prints a time-limited presigned upload URL for a single
// object. It parses four flags, builds a signer from ambient credentials,
// requests a SigV4 presigned PUT URL and prints it to standard output.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/putsign/putsign/pkg/putsign"
	"github.com/putsign/putsign/pkg/putsign/config"
	s3signer "github.com/putsign/putsign/pkg/putsign/storage/s3"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("putsign", flag.ContinueOnError)
	fs.SetOutput(stderr)
	bucket := fs.String("bucket", "", "target bucket name (required)")
	object := fs.String("object", "", "target object key (required)")
	minutes := fs.Int("minutes", 120, "signature validity duration in minutes")
	contentType := fs.String("content-type", putsign.DefaultContentType, "Content-Type header the upload must send")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *bucket == "" {
		fmt.Fprintf(stderr, "putsign: %v\n", putsign.ErrMissingBucket)
		fs.Usage()
		return exitUsage
	}
	if *object == "" {
		fmt.Fprintf(stderr, "putsign: %v\n", putsign.ErrMissingObject)
		fs.Usage()
		return exitUsage
	}
	if *minutes <= 0 {
		fmt.Fprintf(stderr, "putsign: invalid -minutes %d: %v\n", *minutes, putsign.ErrInvalidTTL)
		return exitUsage
	}

	ctx := context.Background()

	s3Cfg, err := config.LoadS3()
	if err != nil {
		fmt.Fprintf(stderr, "putsign: %v\n", err)
		return exitFailure
	}

	signer, err := s3signer.New(ctx, s3signer.Config{
		Region:          s3Cfg.Region,
		AccessKeyID:     s3Cfg.AccessKeyID,
		SecretAccessKey: s3Cfg.SecretAccessKey,
		SessionToken:    s3Cfg.SessionToken,
		Endpoint:        s3Cfg.Endpoint,
		UsePathStyle:    s3Cfg.UsePathStyle,
	})
	if err != nil {
		fmt.Fprintf(stderr, "putsign: %v\n", err)
		return exitFailure
	}

	svc, err := putsign.New(putsign.WithSigner("s3", signer))
	if err != nil {
		fmt.Fprintf(stderr, "putsign: %v\n", err)
		return exitFailure
	}

	grant, err := svc.SignURL(ctx, putsign.SignRequest{
		Bucket:      *bucket,
		ObjectKey:   *object,
		Method:      putsign.MethodPut,
		TTL:         time.Duration(*minutes) * time.Minute,
		ContentType: *contentType,
	})
	if err != nil {
		fmt.Fprintf(stderr, "putsign: %v\n", err)
		if errors.Is(err, putsign.ErrMissingBucket) ||
			errors.Is(err, putsign.ErrMissingObject) ||
			errors.Is(err, putsign.ErrInvalidTTL) {
			return exitUsage
		}
		return exitFailure
	}

	fmt.Fprintln(stdout, grant.URL)
	return 0
}
