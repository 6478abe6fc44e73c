package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evergreenbyte/keepsake/internal/config"
	"github.com/evergreenbyte/keepsake/internal/database"
	"github.com/evergreenbyte/keepsake/internal/logging"
	"github.com/evergreenbyte/keepsake/internal/media"
	"github.com/evergreenbyte/keepsake/internal/photos"
	"github.com/evergreenbyte/keepsake/internal/server"
	"github.com/evergreenbyte/keepsake/internal/stories"
	"github.com/evergreenbyte/keepsake/internal/wishes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "keepsake-api",
		Short: "Keepsake birthday gallery backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("mongo-uri", "", "MongoDB connection string (overrides env)")
	cmd.PersistentFlags().String("mongo-database", defaults.GetString("mongo.database"), "MongoDB database name")
	cmd.PersistentFlags().String("cdn-cloud-name", defaults.GetString("cdn.cloud_name"), "Image CDN cloud name")
	cmd.PersistentFlags().String("media-folder", defaults.GetString("media.folder"), "CDN folder scope for uploads")
	cmd.PersistentFlags().Duration("cache-ttl", defaults.GetDuration("cache.ttl"), "Photo listing cache TTL")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "mongo.uri", "mongo-uri")
	bindFlag(cmd, "mongo.database", "mongo-database")
	bindFlag(cmd, "cdn.cloud_name", "cdn-cloud-name")
	bindFlag(cmd, "media.folder", "media-folder")
	bindFlag(cmd, "cache.ttl", "cache-ttl")
	bindFlag(cmd, "log.level", "log-level")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	manager, err := database.NewManager(database.ManagerConfig{
		URI:      appConfig.MongoURI,
		Database: appConfig.DatabaseName,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := manager.Close(closeCtx); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	gateway, err := media.NewGateway(media.GatewayConfig{
		BaseURL:   appConfig.CDNBaseURL,
		CloudName: appConfig.CDNCloudName,
		APIKey:    appConfig.CDNAPIKey,
		APISecret: appConfig.CDNAPISecret,
		Folder:    appConfig.MediaFolder,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	wishService, err := wishes.NewService(wishes.ServiceConfig{
		Store:  wishes.NewMongoStore(manager),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	photoStore := photos.NewMongoStore(manager)
	photoService, err := photos.NewService(photos.ServiceConfig{
		Store:   photoStore,
		Gateway: gateway,
		Cache:   photos.NewListingCache(photos.ListingCacheConfig{TTL: appConfig.ListingTTL}),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	storyService, err := stories.NewService(stories.ServiceConfig{
		Store:   stories.NewMongoStore(manager),
		Catalog: photoStore,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Wishes:  wishService,
		Photos:  photoService,
		Stories: storyService,
		Health:  manager,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
