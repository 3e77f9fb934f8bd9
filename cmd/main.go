package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "inviteflow/cmd/inviteflow"
	"inviteflow/conf"
	"inviteflow/internal/dao/query"
	"inviteflow/internal/middleware"
	"inviteflow/internal/model"
	"inviteflow/internal/service"
	"inviteflow/pkg/cache"
	"inviteflow/pkg/db"
	"inviteflow/pkg/kafka"
	"inviteflow/pkg/logger"
	"inviteflow/pkg/recorder"
	"inviteflow/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// 编译时通过 -ldflags 注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

/*
测试

curl -X POST http://localhost:12180/api/v1/send-code \
  -H "Content-Type: application/json" \
  -d '{"phone_number":"+10000000001"}'

curl -X POST http://localhost:12180/api/v1/verify-code \
  -H "Content-Type: application/json" \
  -d '{"phone_number":"+10000000001","code_auth":"1234"}'

curl -X POST http://localhost:12180/api/v1/profile \
  -H "Authorization: Bearer $TOKEN" \
  -H "Content-Type: application/json" \
  -d '{"invite_code":"aB3xY9"}'
*/

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inviteflow",
		Short: "Phone number sign-in and invite code service",
		// 不带子命令时启动服务
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "conf/config.yaml", "Config file path (YAML)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(configPath); err != nil {
				return err
			}
			datasource, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err = query.AutoMigrate(datasource); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Infof("数据库表结构已更新")
			return nil
		},
	})

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account administration",
	}
	accountCmd.AddCommand(&cobra.Command{
		Use:   "delete <phone_number>",
		Short: "Soft delete an account, its invitees keep the reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(configPath); err != nil {
				return err
			}
			datasource, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			srv := service.NewAccountService(query.NewAccountDao(datasource), conf.AppConfig)
			if err = srv.AccountDelete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s deleted\n", args[0])
			return nil
		},
	})
	cmd.AddCommand(accountCmd)

	var group string
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Print invite.linked events from kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(configPath); err != nil {
				return err
			}
			return watchEvents(cmd, group)
		},
	}
	eventsCmd.Flags().StringVar(&group, "group", "inviteflow-events-cli", "Kafka consumer group id")
	cmd.AddCommand(eventsCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inviteflow version %s (build: %s)\n", Version, BuildTime)
		},
	})

	return cmd
}

// setup 加载配置并初始化日志
func setup(configPath string) error {
	if err := conf.LoadConfig(configPath); err != nil {
		return err
	}
	appCfg := conf.AppConfig
	logger.InitLogger(&appCfg.Log, appCfg.AppName)
	return nil
}

// openDB 连接数据库，启动时数据库可能还没有就绪，重试几次
func openDB(ctx context.Context) (*gorm.DB, error) {
	var datasource *gorm.DB
	err := utils.Retry(ctx, 5, time.Second, true, func() error {
		var err error
		datasource, err = db.Init(db.NewConfig(conf.AppConfig.Db))
		if err != nil {
			logger.Warnf("连接数据库失败: %v", err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return datasource, nil
}

func serve(configPath string) error {
	if err := setup(configPath); err != nil {
		return err
	}
	defer logger.Sync()
	appCfg := conf.AppConfig
	if appCfg.Auth.ExposeCode {
		logger.Warn("expose-code 已开启，验证码会直接返回给调用方")
	}
	if appCfg.Auth.CodeStorage == conf.CodeStoragePlain {
		logger.Warn("验证码以明文存储，生产环境请使用 code-storage: bcrypt")
	}

	ctx := context.Background()
	datasource, err := openDB(ctx)
	if err != nil {
		return err
	}
	if appCfg.Db.Driver == "sqlite" {
		// 本地开发使用sqlite时自动建表
		if err = query.AutoMigrate(datasource); err != nil {
			return err
		}
	}

	// 初始化redis缓存，用于token黑名单
	if err = utils.Retry(ctx, 5, time.Second, true, func() error {
		return cache.InitRedis(appCfg.Redis)
	}); err != nil {
		_ = db.Close()
		return fmt.Errorf("connect redis: %w", err)
	}

	producer, err := newProducer(appCfg.Kafka)
	if err != nil {
		_ = multierr.Combine(db.Close(), cache.CloseRedis())
		return err
	}

	// 创建并启动服务
	srv := api.NewServer(&appCfg)
	srvRouter := api.InitRouter(datasource, producer)
	runErr := srv.Run(middleware.NewMiddleware(appCfg.TrustedProxies), srvRouter)

	// 请求全部处理完后再关闭主库链接、redis和kafka
	if err = multierr.Combine(db.Close(), cache.CloseRedis(), producer.Close()); err != nil {
		logger.Errorf("释放资源失败: %v", err)
	}
	return runErr
}

// newProducer 优先使用kafka，其次写入本地文件
func newProducer(cfg conf.KafkaConfig) (kafka.ProducerService, error) {
	if cfg.Broker == "" && cfg.RecordFile != "" {
		logger.Infof("未配置kafka，邀请事件写入 %s", cfg.RecordFile)
		return recorder.NewJSONFileRecorder(cfg.RecordFile)
	}
	return kafka.NewKafkaProducer(cfg.Broker), nil
}

// watchEvents 消费邀请事件并逐行打印，Ctrl+C退出
func watchEvents(cmd *cobra.Command, group string) error {
	appCfg := conf.AppConfig
	if appCfg.Kafka.Broker == "" {
		return fmt.Errorf("kafka broker is not configured")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewKafkaConsumer(appCfg.Kafka.Broker)
	messages, err := consumer.Consume(ctx, appCfg.Kafka.Topic, group)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for m := range messages {
		var event model.InviteLinkedEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			logger.Warnf("无法解析的事件 offset=%d: %v", m.Offset, err)
			continue
		}
		fmt.Fprintf(out, "%s invitee=%d inviter=%d code=%s\n",
			event.LinkedAt.Format(time.RFC3339), event.InviteeId, event.InviterId, event.InviteCode)
	}
	return nil
}
