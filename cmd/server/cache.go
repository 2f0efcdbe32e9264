package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/studyhub/internal/db"
	"github.com/studyhub/internal/queries"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local content cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [query]",
	Short: "Drop cached results for one query, or for every query",
	Long: `Removes cached store responses so the next request reads fresh content.

Example:
  server cache clear carousel`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if !cfg.CacheEnabled() {
		return errors.New("content cache is disabled: set CONTENT_CACHE_PATH")
	}
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	gdb, err := db.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open content cache: %w", err)
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	removed, err := clearCache(cmd.Context(), db.NewQueryCache(gdb), name)
	if err != nil {
		return err
	}
	logger.Info("content cache cleared", zap.String("query", name), zap.Int64("removed", removed))
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached entries\n", removed)
	return nil
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, queryName string) (int64, error)
}

// clearCache 按查询名清理缓存；名称为空时清理全部。
func clearCache(ctx context.Context, cache cacheInvalidator, name string) (int64, error) {
	if name != "" {
		if _, err := queries.Lookup(name); err != nil {
			return 0, err
		}
	}
	return cache.Invalidate(ctx, name)
}
