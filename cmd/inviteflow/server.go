package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"inviteflow/conf"
	"inviteflow/pkg/logger"
	"inviteflow/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Router 加载路由，使用侧提供接口，实现侧需要实现该接口
type Router interface {
	Load(engine *gin.Engine)
}

type Server struct {
	config *conf.Config
}

func NewServer(c *conf.Config) *Server {
	return &Server{
		config: c,
	}
}

// Run 启动服务，收到SIGINT/SIGTERM后优雅退出
// 返回时请求已经处理完，调用方再释放数据库等资源
func (s *Server) Run(rs ...Router) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.RunContext(ctx, rs...)
}

// RunContext 启动服务，ctx结束后停止接收新请求，等待处理中的请求完成再返回
func (s *Server) RunContext(ctx context.Context, rs ...Router) error {
	// 设置gin启动模式，必须在创建gin实例之前
	if s.config.Mode != "" {
		gin.SetMode(s.config.Mode)
	}
	// gin validator替换，必须在绑定请求之前
	validator.LazyInitGinValidator(s.config.Language)
	g := gin.New()
	s.routerLoad(g, rs...)

	srv := http.Server{
		Addr:              s.config.Listen,
		Handler:           g,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// health check
	go func() {
		if err := Ping(s.config.Listen, s.config.MaxPingCount); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Fatal("server no response")
		}
		logger.Infof("server started success! port: %s", s.config.Listen)
	}()

	// graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.Infof("server shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("server shutdown err %v", err)
		}
	}()

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server start failed on port %s", s.config.Listen)
		return err
	}
	<-done
	logger.Infof("server stop on port %s", s.config.Listen)
	return nil
}

// RouterLoad 加载自定义路由
func (s *Server) routerLoad(g *gin.Engine, rs ...Router) *Server {
	for _, r := range rs {
		r.Load(g)
	}
	return s
}

// Ping 用来检查是否程序正常启动
func Ping(port string, maxCount int) error {
	if len(port) == 0 {
		return errors.New("please specify the service port")
	}
	if !strings.HasPrefix(port, ":") {
		// host:port 的形式只取端口
		if i := strings.LastIndex(port, ":"); i >= 0 {
			port = port[i:]
		} else {
			port = ":" + port
		}
	}
	url := fmt.Sprintf("http://localhost%s/ping", port)
	client := http.Client{Timeout: time.Second}
	for i := 1; i <= maxCount; i++ {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		logger.Infof("等待服务在线, 已等待 %d 秒，最多等待 %d 秒", i, maxCount)
		time.Sleep(time.Second)
	}
	return fmt.Errorf("服务启动失败，端口 %s", port)
}
