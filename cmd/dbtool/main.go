// Package main is the database maintenance tool: compressed snapshots and
// bulk clears. Messages are bilingual because the warehouse operators use
// the Chinese side.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"bintrack/internal/infrastructure/config"
	"bintrack/internal/infrastructure/storage/postgres"
	"bintrack/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg.Database))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	snapshotter, err := postgres.NewSnapshotter(txManager)
	if err != nil {
		log.Fatalw("failed to create snapshotter", "error", err)
	}

	switch command {
	case "snapshot":
		path, err := snapshotter.Dump(ctx, cfg.Backup.Dir)
		if err != nil {
			log.Fatalw("snapshot failed", "error", err)
		}
		fmt.Printf("snapshot written / 备份已保存: %s\n", path)

	case "inspect":
		if len(os.Args) < 3 {
			log.Fatal("snapshot path required, usage: dbtool inspect <file>")
		}
		snap, err := snapshotter.Read(os.Args[2])
		if err != nil {
			log.Fatalw("failed to read snapshot", "error", err)
		}
		fmt.Printf("taken at / 备份时间: %s\n", snap.TakenAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("bins / 库位: %d\n", len(snap.Bins))
		fmt.Printf("items / 商品: %d\n", len(snap.Items))
		fmt.Printf("placements / 库存记录: %d\n", len(snap.Placements))
		fmt.Printf("history / 历史记录: %d\n", len(snap.History))

	case "clear-inventory":
		if !confirm("This deletes ALL current inventory (catalogs and history stay). Continue? / 将删除全部当前库存（保留主数据与历史），是否继续？") {
			fmt.Println("cancelled / 已取消")
			return
		}
		// Snapshot first so a slip of the finger stays recoverable.
		path, err := snapshotter.Dump(ctx, cfg.Backup.Dir)
		if err != nil {
			log.Fatalw("pre-clear snapshot failed", "error", err)
		}
		fmt.Printf("snapshot written / 备份已保存: %s\n", path)

		deleted, err := snapshotter.ClearPlacements(ctx)
		if err != nil {
			log.Fatalw("clear inventory failed", "error", err)
		}
		fmt.Printf("inventory cleared, %d rows deleted / 库存已清空，删除 %d 条记录\n", deleted, deleted)

	case "clear-history":
		if !confirm("This deletes the ENTIRE audit trail. Continue? / 将删除全部历史记录，是否继续？") {
			fmt.Println("cancelled / 已取消")
			return
		}
		path, err := snapshotter.Dump(ctx, cfg.Backup.Dir)
		if err != nil {
			log.Fatalw("pre-clear snapshot failed", "error", err)
		}
		fmt.Printf("snapshot written / 备份已保存: %s\n", path)

		deleted, err := snapshotter.ClearHistory(ctx)
		if err != nil {
			log.Fatalw("clear history failed", "error", err)
		}
		fmt.Printf("history cleared, %d rows deleted / 历史已清空，删除 %d 条记录\n", deleted, deleted)

	default:
		fmt.Printf("unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printUsage() {
	fmt.Println(`bintrack database maintenance tool

Usage:
  dbtool <command>

Commands:
  snapshot          Dump all tables to a zstd-compressed JSON snapshot
  inspect <file>    Show the contents summary of a snapshot file
  clear-inventory   Snapshot, then delete all placement rows
  clear-history     Snapshot, then delete all history rows

Configuration comes from config.toml or BINTRACK_* variables.`)
}
