// Command postyd runs the development backend of the posty API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/blang/posty/config"
	"github.com/blang/posty/model"
	"github.com/blang/posty/model/awsdynamo"
	"github.com/blang/posty/model/memory"
	"github.com/blang/posty/server"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	listen       string
	storage      string
	createTables bool
)

var rootCmd = &cobra.Command{
	Use:           "postyd",
	Short:         "Serve the posty JSON API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&listen, "http", "", "listen address (overrides server.listen)")
	rootCmd.Flags().StringVar(&storage, "storage", "", "storage backend: memory or dynamo (overrides server.storage)")
	rootCmd.Flags().BoolVar(&createTables, "create-tables", false, "create the DynamoDB tables on start")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("http") {
		cfg.Server.Listen = listen
	}
	if cmd.Flags().Changed("storage") {
		cfg.Server.Storage = storage
	}
	if cmd.Flags().Changed("create-tables") {
		cfg.Server.Dynamo.CreateTables = createTables
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Log.ApplyLogging()

	m, err := openModel(cfg.Server)
	if err != nil {
		return err
	}

	hashKey, blockKey := []byte(cfg.Server.SessionKey), []byte(nil)
	if len(hashKey) == 0 {
		log.Warn("server.session_key is empty, using random keys; sessions end with the process")
		hashKey, blockKey = securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32)
		if hashKey == nil || blockKey == nil {
			return errors.New("could not generate session keys")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv := server.New(m, server.Config{
		SessionKey:      hashKey,
		SessionBlockKey: blockKey,
		Registry:        reg,
		BcryptCost:      cfg.Server.BcryptCost,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Server.Listen)
}

func openModel(cfg config.ServerConfig) (model.Model, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		log.Info("Using in-memory storage")
		return memory.NewModel(), nil
	case config.StorageDynamo:
		awsCfg := aws.NewConfig().WithRegion(cfg.Dynamo.Region)
		if cfg.Dynamo.Endpoint != "" {
			awsCfg = awsCfg.WithEndpoint(cfg.Dynamo.Endpoint)
		}
		if cfg.Dynamo.Profile != "" {
			awsCfg = awsCfg.WithCredentials(credentials.NewSharedCredentials("", cfg.Dynamo.Profile))
		}
		sess, err := session.NewSession(awsCfg)
		if err != nil {
			return nil, fmt.Errorf("aws session: %w", err)
		}
		if cfg.Dynamo.CreateTables {
			if err := awsdynamo.CreateTables(dynamodb.New(sess)); err != nil {
				return nil, fmt.Errorf("create tables: %w", err)
			}
		}
		log.Infof("Using DynamoDB storage in %s", cfg.Dynamo.Region)
		return awsdynamo.NewModelFromSession(sess), nil
	default:
		return nil, errors.New("unknown storage " + cfg.Storage)
	}
}
