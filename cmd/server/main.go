package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/studyhub/internal/cms"
	"github.com/studyhub/internal/config"
	"github.com/studyhub/internal/contact"
	"github.com/studyhub/internal/db"
	"github.com/studyhub/internal/handler"
	"github.com/studyhub/internal/logging"
	"github.com/studyhub/internal/mapper"
	"github.com/studyhub/internal/router"
	"github.com/studyhub/internal/service"
	"go.uber.org/zap"
)

var (
	cfg    config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Marketing site content API",
	Long: `Serves homepage, FAQ, testimonial and blog content read from the headless
content store, plus the page-aware contact link.

Without a subcommand the HTTP server is started on LISTEN_ADDR.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if logger, err = logging.New(cfg.Production(), cfg.LogLevel); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServer,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	client, closeCache, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	general, err := contact.NewTarget("General enquiries", cfg.ContactDefaultPhone, cfg.ContactMessage)
	if err != nil {
		return err
	}
	abroad, err := contact.NewTarget("Study abroad", cfg.ContactStudyAbroadPhone, cfg.ContactMessage)
	if err != nil {
		return err
	}

	content := service.NewContentService(client, mapper.New(logger), logger, cfg.Production())
	api := handler.NewAPI(content, handler.Options{
		PreviewSecret:      cfg.PreviewSecret,
		DefaultContact:     general,
		StudyAbroadContact: abroad,
		Logger:             logger,
	})

	gin.SetMode(cfg.GinMode)
	r := router.SetupRouter(api, logger)

	logger.Info("server listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("env", cfg.AppEnv),
		zap.Bool("cache", cfg.CacheEnabled()))
	if err := r.Run(cfg.ListenAddr); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}

// newClient 构造内容源客户端；配置了缓存路径时挂载 sqlite 缓存并清理过期条目。
func newClient(ctx context.Context) (*cms.Client, func(), error) {
	opts := []cms.Option{cms.WithLogger(logger)}
	closeCache := func() {}

	if cfg.CacheEnabled() {
		gdb, err := db.Open(cfg.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open content cache: %w", err)
		}
		cache := db.NewQueryCache(gdb)
		purged, err := cache.Purge(ctx)
		if err != nil {
			logger.Warn("content cache purge failed", zap.Error(err))
		} else if purged > 0 {
			logger.Info("purged expired cache entries", zap.Int64("count", purged))
		}
		opts = append(opts, cms.WithCache(cache, cfg.CacheTTL))

		closeCache = func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}

	client, err := cms.NewClient(cms.Config{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		Token:      cfg.SanityAPIToken,
		UseCDN:     cfg.SanityUseCDN,
		Timeout:    cfg.SanityTimeout,
	}, opts...)
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return client, closeCache, nil
}
