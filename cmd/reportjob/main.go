// reportjob 生成上个自然月的费用报告并逐个用户发送邮件，执行一次后退出。
// 由外部 cron 调度，例如每月 1 日 06:00：
//
//	0 6 1 * * /usr/local/bin/reportjob -config /etc/trip-expense/config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"trip-expense/backend/config"
	"trip-expense/backend/internal/reportjob"
	"trip-expense/backend/internal/repository"
	"trip-expense/backend/pkg/database"
	applogger "trip-expense/backend/pkg/logger"
	"trip-expense/backend/pkg/mailer"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
		month      = flag.String("month", "", "报告月份 YYYY-MM，默认上个自然月")
		dryRun     = flag.Bool("dry-run", false, "不发送邮件，改为写入 -out 目录")
		outDir     = flag.String("out", "reports", "dry-run 输出目录")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger = applogger.Named(logger, "reportjob")

	period, err := resolvePeriod(*month, &cfg.Report)
	if err != nil {
		logger.Fatal("无法确定报告月份", zap.Error(err))
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	var sender mailer.Sender = mailer.NewSMTPSender(&cfg.Mail)
	if *dryRun {
		sender = &mailer.DirSender{Dir: *outDir}
		logger.Info("dry-run 模式，邮件写入目录", zap.String("dir", *outDir))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job := reportjob.New(repository.NewRepository(db), sender, logger)
	if _, err := job.Run(ctx, period); err != nil {
		logger.Error("月度费用报告任务中止", zap.Error(err))
		// defer 不会在 os.Exit 后执行
		sqlDB.Close()
		logger.Sync()
		os.Exit(1)
	}
}

func resolvePeriod(month string, cfg *config.ReportConfig) (reportjob.Period, error) {
	if month != "" {
		return reportjob.ParsePeriod(month)
	}
	loc, err := cfg.Location()
	if err != nil {
		return reportjob.Period{}, err
	}
	return reportjob.PreviousMonth(time.Now(), loc), nil
}
