package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	// AdminIDs lists the user ids allowed to call admin-only operations.
	AdminIDs []int64

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Quest     QuestConfigs
	Catalog   CatalogConfigs
}

type DatabaseConfigs struct {
	// Driver is either "sqlite" or "mysql".
	Driver   string
	Path     string // sqlite file path
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.Path
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string

	// ApiKey authenticates the chat gateway. The gateway verifies end users
	// itself and forwards their id in a header.
	ApiKey string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type QuestConfigs struct {
	// DailySubmissionLimit caps the number of submissions any user can make
	// per calendar day, across all task types.
	DailySubmissionLimit int

	// PendingListLimit bounds the admin review queue page size.
	PendingListLimit int

	// MaxDrawingWindow bounds the drawing end time relative to its start.
	MaxDrawingWindow time.Duration
}
