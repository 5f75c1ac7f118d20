// Package service wires the jobly backend from a configuration. It is shared by the
// HTTP server and the lambda handler.
package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/backend"
	"github.com/relabs-tech/jobly/core/config"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/kss"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/notifications"
)

// Service is a running jobly backend
type Service struct {
	DB      *csql.DB
	Router  *mux.Router
	Backend *backend.Backend

	closers []func() error
}

// New opens the database, migrates it and creates the backend with the notifier and
// logo storage selected by cfg
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	db, err := csql.Open(ctx, cfg.Postgres, cfg.PostgresPassword, cfg.Schema)
	if err != nil {
		return nil, err
	}
	s := &Service{DB: db, Router: mux.NewRouter()}
	s.closers = append(s.closers, db.Close)

	if err := db.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	notifier, err := s.notifier(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	logos, err := logoStorage(ctx, cfg, s.Router)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.Backend = backend.New(&backend.Builder{
		DB:         db,
		Router:     s.Router,
		Tokens:     access.NewTokens(cfg.SecretKey),
		Notifier:   notifier,
		Logos:      logos,
		BcryptCost: cfg.BcryptWorkFactor,
	})
	return s, nil
}

// notifier returns the configured notifier, or nil if there is none. Kafka and SQS can be
// used together.
func (s *Service) notifier(ctx context.Context, cfg *config.Config) (core.Notifier, error) {
	var multi notifications.Multi
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		k := notifications.NewKafka(brokers, cfg.KafkaTopic)
		s.closers = append(s.closers, k.Close)
		multi = append(multi, k)
	}
	if cfg.SQSQueueURL != "" {
		q, err := notifications.NewSQS(ctx, notifications.SQSConfiguration{
			QueueURL:  cfg.SQSQueueURL,
			AWSRegion: cfg.AWSRegion,
			AccessID:  cfg.AWSAccessID,
			AccessKey: cfg.AWSAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("sqs: %w", err)
		}
		multi = append(multi, q)
	}
	switch len(multi) {
	case 0:
		return nil, nil
	case 1:
		return multi[0], nil
	}
	return multi, nil
}

// logoStorage returns S3 storage if a bucket is configured, otherwise the local filesystem
func logoStorage(ctx context.Context, cfg *config.Config, router *mux.Router) (kss.Driver, error) {
	if cfg.AWSBucketName != "" {
		logger.Default().Infoln("logos in S3 bucket", cfg.AWSBucketName)
		return kss.NewS3(ctx, kss.S3Configuration{
			AWSRegion:     cfg.AWSRegion,
			AccessID:      cfg.AWSAccessID,
			AccessKey:     cfg.AWSAccessKey,
			AWSBucketName: cfg.AWSBucketName,
			KeyPrefix:     cfg.AWSKeyPrefix,
		})
	}
	logger.Default().Infoln("logos in", cfg.LogoPath)
	return kss.NewLocalFilesystem(router, kss.LocalConfiguration{
		BasePath:  cfg.LogoPath,
		PublicURL: cfg.LogoPublicURL,
	})
}

// Handler returns the HTTP handler of the service
func (s *Service) Handler() http.Handler {
	return s.Router
}

// Close releases the notifier and the database
func (s *Service) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
