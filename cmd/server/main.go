// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"support-flow-go/internal/catalog"
	"support-flow-go/internal/config"
	"support-flow-go/internal/handler"
	"support-flow-go/internal/middleware"
	"support-flow-go/internal/model"
	"support-flow-go/internal/repository"
	"support-flow-go/internal/service"
	"support-flow-go/pkg/database"
	"support-flow-go/pkg/es"
	"support-flow-go/pkg/kafka"
	"support-flow-go/pkg/llm"
	"support-flow-go/pkg/log"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 启动前校验问题树与决议路径表的完整性，配置有误直接拒绝启动
	if err := catalog.Validate(); err != nil {
		log.Fatal("问题目录完整性校验失败", err)
	}
	log.Info("问题目录完整性校验通过")

	// 4. 初始化可选的外部依赖：MySQL、Redis、Elasticsearch、Kafka
	var ticketRepo repository.TicketRepository
	if cfg.Database.MySQL.DSN != "" {
		database.InitMySQL(cfg.Database.MySQL.DSN)
		if err := database.DB.AutoMigrate(&model.Ticket{}); err != nil {
			log.Fatal("工单表迁移失败", err)
		}
		ticketRepo = repository.NewTicketRepository(database.DB)
	} else {
		log.Warnf("未配置 MySQL DSN，升级工单将不会持久化")
	}

	if cfg.Database.Redis.Addr != "" {
		database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	}

	esIndex := ""
	if cfg.Elasticsearch.Addresses != "" {
		if err := es.InitES(cfg.Elasticsearch); err != nil {
			log.Errorf("es 初始化失败 %s", err)
			return
		}
		esIndex = cfg.Elasticsearch.IndexName
	} else {
		log.Warnf("未配置 Elasticsearch，已决议对话将不会归档")
	}

	if cfg.Kafka.Brokers != "" {
		kafka.InitProducer(cfg.Kafka)
	} else {
		log.Warnf("未配置 Kafka，决议事件将不会发布")
	}

	// 5. 初始化会话存储，两种后端都挂上周期清扫
	var sessionRepo repository.SessionRepository
	switch cfg.Session.Backend {
	case "redis":
		if database.RDB == nil {
			log.Fatalf("会话后端配置为 redis 但未配置 Redis 连接")
		}
		sessionRepo = repository.NewRedisSessionRepository(database.RDB, cfg.Session)
		log.Info("会话存储使用 Redis 后端")
	default:
		sessionRepo = repository.NewMemorySessionRepository(cfg.Session)
		log.Info("会话存储使用内存后端")
	}
	stopSweeper := repository.StartSweeper(sessionRepo, cfg.Session.SweepInterval)
	defer stopSweeper()

	// 6. 初始化 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	classifyService := service.NewClassificationService(llmClient, cfg.Chat.ClassifyTimeout)
	phrasingService := service.NewPhrasingService(llmClient, cfg.Chat.PhraseTimeout, cfg.Chat.PhrasingEnabled)
	resolutionService := service.NewResolutionService(ticketRepo, cfg.Ticket, esIndex)
	chatService := service.NewChatService(sessionRepo, classifyService, phrasingService, resolutionService, cfg.Chat)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	conversationHandler := handler.NewConversationHandler(chatService)
	wsHandler := handler.NewWSHandler(chatService)
	adminHandler := handler.NewAdminHandler(ticketRepo, esIndex)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/categories", conversationHandler.ListCategories)

		conversations := apiV1.Group("/conversations")
		{
			conversations.POST("", conversationHandler.StartConversation)
			conversations.POST("/:id/messages", conversationHandler.SendMessage)
			conversations.GET("/:id", conversationHandler.GetConversation)
			conversations.DELETE("/:id", conversationHandler.EndConversation)
		}

		admin := apiV1.Group("/admin")
		{
			admin.GET("/conversations/search", adminHandler.SearchConversations)
			admin.GET("/tickets", adminHandler.ListRecentTickets)
			admin.GET("/tickets/:number", adminHandler.GetTicket)
		}
	}

	// Chat 路由 (WebSocket)
	r.GET("/ws/conversations/:id", wsHandler.Handle)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
