package entity

import (
	"time"
)

// User is keyed by the external chat identity id, not a generated one. Users
// are never hard-deleted; banning is a soft state.
type User struct {
	Base

	Name        string
	CustomEmoji string

	// Balance only changes through the ledger.
	Balance int64

	Badges Array[string]

	// DailyTotal counts every submission made today regardless of its later
	// outcome. DailyByType counts non-rejected submissions per task type;
	// pending submissions reserve quota optimistically and release it on
	// rejection.
	DailyTotal  int
	DailyByType Dict[string, int]
	LastTaskDay string

	DrawingsWon    int
	LastDrawingWin time.Time

	IsBanned  bool
	BanReason string
}
