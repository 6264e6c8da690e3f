package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/famquest/backend/config"
	"github.com/famquest/backend/internal/domain"
	"github.com/famquest/backend/internal/domain/notification"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/migration"
	"github.com/famquest/backend/pkg/logger"
	"github.com/famquest/backend/pkg/router"
	"github.com/famquest/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	userRepo           repository.UserRepository
	taskRepo           repository.TaskSubmissionRepository
	drawingRepo        repository.DrawingRepository
	adminOperationRepo repository.AdminOperationRepository

	ledgerDomain  domain.LedgerDomain
	taskDomain    domain.TaskDomain
	drawingDomain domain.DrawingDomain
	userDomain    domain.UserDomain

	notifier notification.Notifier

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	catalog, err := config.LoadCatalog(os.Getenv("CATALOG_PATH"))
	if err != nil {
		log.Fatalf("cannot load catalog: %v", err)
	}

	cfg := config.Configs{
		Env:      getEnv("ENV", "local"),
		AdminIDs: parseAdminIDs(os.Getenv("ADMIN_IDS")),
		Database: config.DatabaseConfigs{
			Driver:   getEnv("DATABASE_DRIVER", "sqlite"),
			Path:     getEnv("DATABASE_PATH", "famquest.db"),
			Host:     os.Getenv("MYSQL_HOST"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: os.Getenv("MYSQL_DATABASE"),
			User:     os.Getenv("MYSQL_USER"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			LogLevel: getEnv("DATABASE_LOG_LEVEL", "error"),
		},
		ApiServer: config.ServerConfigs{
			Host:   getEnv("HOST", "0.0.0.0"),
			Port:   getEnv("PORT", "8080"),
			ApiKey: os.Getenv("API_KEY"),
		},
		Quest: config.QuestConfigs{
			DailySubmissionLimit: getEnvInt("DAILY_SUBMISSION_LIMIT", 10),
			PendingListLimit:     getEnvInt("PENDING_LIST_LIMIT", 20),
			MaxDrawingWindow:     getEnvDuration("MAX_DRAWING_WINDOW", 30*24*time.Hour),
		},
		Catalog: catalog,
	}

	level := logger.INFO
	if cfg.Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.ConnectionString())
	default:
		dialector = sqlite.Open(cfg.ConnectionString())
	}

	logLevel := gormlogger.Error
	if cfg.LogLevel == "info" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("cannot open database: %v", err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		log.Fatalf("cannot migrate database: %v", err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.taskRepo = repository.NewTaskSubmissionRepository()
	s.drawingRepo = repository.NewDrawingRepository()
	s.adminOperationRepo = repository.NewAdminOperationRepository()
}

func (s *srv) loadDomains() {
	s.notifier = notification.NewLogNotifier()

	s.ledgerDomain = domain.NewLedgerDomain(s.userRepo, s.adminOperationRepo)
	s.taskDomain = domain.NewTaskDomain(s.taskRepo, s.userRepo, s.adminOperationRepo, s.notifier)
	s.drawingDomain = domain.NewDrawingDomain(
		s.drawingRepo, s.userRepo, s.adminOperationRepo, s.notifier)
	s.userDomain = domain.NewUserDomain(
		s.userRepo, s.taskRepo, s.drawingRepo, s.adminOperationRepo)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}

	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}

	return v
}

func parseAdminIDs(s string) []int64 {
	ids := []int64{}
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}

		ids = append(ids, id)
	}

	return ids
}
