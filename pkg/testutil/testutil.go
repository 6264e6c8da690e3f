package testutil

import (
	"context"
	"time"

	"github.com/famquest/backend/config"
	"github.com/famquest/backend/migration"
	"github.com/famquest/backend/pkg/logger"
	"github.com/famquest/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const AdminID int64 = 900001

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env:      "testing",
		AdminIDs: []int64{AdminID},
		Quest: config.QuestConfigs{
			DailySubmissionLimit: 10,
			PendingListLimit:     20,
			MaxDrawingWindow:     30 * 24 * time.Hour,
		},
		Catalog: config.DefaultCatalog(),
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID int64) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
