package migration

import (
	"context"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.Checkin{},
		&entity.Quiz{},
		&entity.Friendship{},
		&entity.WeeklyReport{},
	)
}
