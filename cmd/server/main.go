package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notebooklm-go/internal/config"
	"notebooklm-go/internal/handler"
	"notebooklm-go/internal/model"
	"notebooklm-go/internal/pipeline"
	"notebooklm-go/internal/repository"
	"notebooklm-go/internal/service"
	"notebooklm-go/pkg/database"
	"notebooklm-go/pkg/embedding"
	"notebooklm-go/pkg/kafka"
	"notebooklm-go/pkg/llm"
	"notebooklm-go/pkg/log"
	"notebooklm-go/pkg/milvus"
	"notebooklm-go/pkg/storage"
	"notebooklm-go/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	rebuildCollection := flag.Bool("rebuild-collection", false, "删除并重建向量集合（会清空全部向量数据）")
	flag.Parse()

	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	database.InitMySQL(cfg.Database.MySQL.DSN)
	if err := database.DB.AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.FileItem{},
		&model.ContentItem{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	kafka.InitProducer(cfg.Kafka)

	ctx := context.Background()
	store, err := milvus.NewStore(ctx, cfg.Milvus)
	if err != nil {
		log.Fatalf("初始化 Milvus 失败: %v", err)
	}
	defer store.Close()

	if *rebuildCollection {
		if err := store.RebuildCollection(ctx); err != nil {
			log.Fatalf("重建向量集合失败: %v", err)
		}
	}

	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)

	userRepo := repository.NewUserRepository(database.DB)
	topicRepo := repository.NewTopicRepository(database.DB)
	fileRepo := repository.NewFileRepository(database.DB)
	contentRepo := repository.NewContentRepository(database.DB)
	conversationRepo := repository.NewConversationRepository(database.RDB)

	embedder := embedding.NewClient(cfg.Embedding)
	llmClient := llm.NewClient(cfg.LLM)

	ingestor := pipeline.NewIngestor(embedder, store, cfg.Milvus.BatchSize)
	retriever := pipeline.NewRetriever(embedder, store, cfg.Retrieval.TopK, float32(cfg.Retrieval.ScoreThreshold))
	processor := pipeline.NewProcessor(
		ingestor,
		&pipeline.MinioFetcher{Bucket: cfg.MinIO.BucketName},
		fileRepo,
		cfg.Splitter,
	)

	userService := service.NewUserService(userRepo, jwtManager, database.RDB, cfg.JWT.RefreshTokenExpireDays)
	fileService := service.NewFileService(fileRepo, topicRepo, store, cfg.MinIO.BucketName)
	topicService := service.NewTopicService(topicRepo, fileRepo, contentRepo, conversationRepo, store, fileService)
	noteService := service.NewNoteService(contentRepo, topicRepo)
	askService := service.NewAskService(retriever, llmClient)
	chatService := service.NewChatService(llmClient, conversationRepo, database.RDB)

	go kafka.StartConsumer(cfg.Kafka, processor)

	if cfg.Seed.Enabled {
		seedService := service.NewSeedService(userRepo, topicRepo, fileRepo, ingestor)
		go func() {
			report, err := seedService.Import(context.Background(), cfg.Seed.Dir)
			if err != nil {
				log.Errorf("导入本地知识库失败: %v", err)
				return
			}
			log.Infof("本地知识库导入完成: documents=%d, chunks=%d, skipped=%d",
				report.Documents, report.Chunks, len(report.Skipped))
		}()
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:  handler.NewAuthHandler(userService),
		User:  handler.NewUserHandler(userService),
		Topic: handler.NewTopicHandler(topicService),
		File:  handler.NewFileHandler(fileService),
		Note:  handler.NewNoteHandler(noteService),
		Ask:   handler.NewAskHandler(askService),
		Chat:  handler.NewChatHandler(chatService),
	}, jwtManager)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Infof("服务启动, 监听端口 %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("收到退出信号，正在优雅关闭...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("服务关闭异常: %v", err)
	}
	log.Info("服务已退出")
}
