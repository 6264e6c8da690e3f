package migration

import (
	"context"

	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.TaskSubmission{},
		&entity.AdminOperation{},
		&entity.Drawing{},
		&entity.DrawingParticipation{},
	)
}
