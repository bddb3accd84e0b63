package app

import (
	"ForestEdu/internal/app/server"
	"ForestEdu/internal/config"
	"ForestEdu/internal/delivery/http"
	"ForestEdu/internal/service"
	"ForestEdu/internal/service/examfile"
	"ForestEdu/internal/service/keyword"
	"ForestEdu/internal/service/lesson"
	"ForestEdu/internal/service/quiz/attempt"
	"ForestEdu/internal/service/quiz/management"
	"ForestEdu/internal/service/quiz/query"
	"ForestEdu/internal/service/stats"
	"ForestEdu/internal/service/topic"
	"ForestEdu/internal/storage/elastic"
	"ForestEdu/internal/storage/minio_storage"
	"ForestEdu/internal/storage/postgres"
	"ForestEdu/pkg/logger"
	"context"
	"os"
	"os/signal"
	"syscall"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	minioStorage, err := minio_storage.NewMinioStorage(ctx, cfg.Minio)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	papers, err := minio_storage.NewExamPaperStorage(minioStorage, config.ExamPapersBucket)
	if err != nil {
		log.FatalErr("exam paper storage", err)
	}

	topicRepo := postgres.NewTopicPostgres(pg.Pool)
	lessonRepo := postgres.NewLessonPostgres(pg.Pool)
	quizRepo := postgres.NewQuizPostgres(pg.Pool)
	keywordRepo := postgres.NewKeywordPostgres(pg.Pool)
	examFileRepo := postgres.NewExamFilePostgres(pg.Pool)
	statsRepo := postgres.NewStatsPostgres(pg.Pool)

	keywordService := keyword.NewKeywordService(log, keywordRepo, topicRepo)
	if len(cfg.ES.Hosts) > 0 {
		esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
		if err != nil {
			log.FatalErr("error connecting to elasticsearch", err)
		}
		searchRepo := elastic.NewKeywordSearchRepository(esClient, cfg.ES.Index)
		if err := searchRepo.CreateIndexIfNotExist(ctx); err != nil {
			log.FatalErr("error creating keyword index", err)
		}
		keywordService.UseSearchIndex(searchRepo)
		if n, err := keywordService.Reindex(ctx); err != nil {
			log.ErrorErr("keyword reindex failed", err)
		} else {
			log.Info("keywords indexed", "count", n)
		}
	} else {
		log.Info("elasticsearch not configured, keyword search uses postgres")
	}

	attemptService := attempt.NewAttemptService(log, quizRepo, postgres.NewAttemptPostgres(pg.Pool), cfg.Attempts.TTL)
	go attemptService.RunSweeper(ctx, cfg.Attempts.SweepInterval)

	u := service.Collection{
		TopicService:          topic.NewTopicService(log, topicRepo),
		LessonService:         lesson.NewLessonService(log, lessonRepo, topicRepo),
		QuizQueryService:      query.NewQuizQueryService(log, quizRepo, topicRepo, lessonRepo),
		QuizManagementService: management.NewQuizManagementService(log, quizRepo, topicRepo, lessonRepo),
		AttemptService:        attemptService,
		KeywordService:        keywordService,
		ExamFileService: examfile.NewExamFileService(
			log, examFileRepo, topicRepo, papers, cfg.ExamFiles.MaxSizeBytes, minio_storage.ExamPaperKey,
		),
		StatsService: stats.NewStatsService(log, statsRepo),
	}

	r := http.InitRoutes(log, u, cfg.CORS, pg.Pool)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	log.Info("http server started", "address", cfg.HTTPServer.Address)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("http server stopped", err)
	}

	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("shutdown", err)
	}
}
