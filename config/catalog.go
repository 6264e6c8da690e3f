package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// TaskTypeConfigs describes one entry of the task catalog. The unit point
// value is snapshotted onto submissions at submit time, so editing the
// catalog never changes already-awarded points.
type TaskTypeConfigs struct {
	Name             string `toml:"name"`
	Emoji            string `toml:"emoji"`
	Description      string `toml:"description"`
	Points           int64  `toml:"points"`
	MaxPerSubmission int    `toml:"max_per_submission"`
	MaxPerDay        int    `toml:"max_per_day"` // 0 means unlimited
	RequiresEvidence bool   `toml:"requires_evidence"`
}

type BadgeConfigs struct {
	Name        string `toml:"name"`
	Emoji       string `toml:"emoji"`
	Description string `toml:"description"`
}

type CatalogConfigs struct {
	TaskTypes map[string]TaskTypeConfigs `toml:"task_types"`
	Badges    map[string]BadgeConfigs    `toml:"badges"`
}

// LoadCatalog decodes a TOML catalog file. An empty path falls back to the
// built-in default catalog.
func LoadCatalog(path string) (CatalogConfigs, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	var catalog CatalogConfigs
	if _, err := toml.DecodeFile(path, &catalog); err != nil {
		return CatalogConfigs{}, err
	}

	for tag, taskType := range catalog.TaskTypes {
		if taskType.Points <= 0 {
			return CatalogConfigs{}, fmt.Errorf("task type %s: points must be positive", tag)
		}

		if taskType.MaxPerSubmission <= 0 {
			return CatalogConfigs{}, fmt.Errorf("task type %s: max_per_submission must be positive", tag)
		}

		if taskType.MaxPerDay < 0 {
			return CatalogConfigs{}, fmt.Errorf("task type %s: max_per_day cannot be negative", tag)
		}
	}

	return catalog, nil
}

func DefaultCatalog() CatalogConfigs {
	return CatalogConfigs{
		TaskTypes: map[string]TaskTypeConfigs{
			"contracts": {
				Name:             "Contracts",
				Emoji:            "📜",
				Description:      "Complete in-game contracts (16 per submission)",
				Points:           5,
				MaxPerSubmission: 16,
				RequiresEvidence: true,
			},
			"family_contracts": {
				Name:             "Family contracts",
				Emoji:            "👨‍👩‍👧‍👦",
				Description:      "Complete family contracts (1 contract = 5 points)",
				Points:           5,
				MaxPerSubmission: 10,
				MaxPerDay:        10,
				RequiresEvidence: true,
			},
			"pass_tasks": {
				Name:             "Pass tasks",
				Emoji:            "🎫",
				Description:      "Complete battle pass tasks (10 per submission)",
				Points:           5,
				MaxPerSubmission: 10,
				RequiresEvidence: true,
			},
			"woodcutting": {
				Name:             "Woodcutting",
				Emoji:            "🌳",
				Description:      "Cut down trees (10 per submission)",
				Points:           5,
				MaxPerSubmission: 10,
				RequiresEvidence: true,
			},
			"find_players": {
				Name:             "Find players",
				Emoji:            "🔍",
				Description:      "Find players with ID 100-200 (5 per submission)",
				Points:           5,
				MaxPerSubmission: 5,
				RequiresEvidence: true,
			},
			"auction_containers": {
				Name:             "Auction containers",
				Emoji:            "📦",
				Description:      "Open auction containers worth 100k+ (5 per submission)",
				Points:           5,
				MaxPerSubmission: 5,
				RequiresEvidence: true,
			},
			"repair_cars": {
				Name:             "Car repairs",
				Emoji:            "🚗",
				Description:      "Repair cars on the server (10 per submission)",
				Points:           5,
				MaxPerSubmission: 10,
				RequiresEvidence: true,
			},
			"fireman_missions": {
				Name:             "Fireman missions",
				Emoji:            "🚒",
				Description:      "Complete fireman callouts (10 per submission)",
				Points:           5,
				MaxPerSubmission: 10,
				RequiresEvidence: true,
			},
			"help_newbies": {
				Name:             "Help newbies",
				Emoji:            "🆘",
				Description:      "Help newcomers with money (5 times, 10k each)",
				Points:           5,
				MaxPerSubmission: 5,
				RequiresEvidence: true,
			},
			"congratulations": {
				Name:             "Congratulations",
				Emoji:            "🎉",
				Description:      "Congratulate players (15 per submission)",
				Points:           5,
				MaxPerSubmission: 15,
				RequiresEvidence: true,
			},
		},
		Badges: map[string]BadgeConfigs{
			"star":           {Name: "Star", Emoji: "⭐", Description: "Granted by an administrator"},
			"crown":          {Name: "King", Emoji: "👑", Description: "Community leader"},
			"fire":           {Name: "On fire", Emoji: "🔥", Description: "Incredible activity"},
			"diamond":        {Name: "Diamond", Emoji: "💎", Description: "Valued member"},
			"rocket":         {Name: "Rocket", Emoji: "🚀", Description: "Rapid growth"},
			"heart":          {Name: "Kind heart", Emoji: "❤️", Description: "Helping others"},
			"trophy":         {Name: "Champion", Emoji: "🏆", Description: "Drawing winner"},
			"moderator":      {Name: "Moderator", Emoji: "⚔️", Description: "Admin team helper"},
			"streamer":       {Name: "Streamer", Emoji: "🎥", Description: "Active streamer"},
			"creator":        {Name: "Creator", Emoji: "🎨", Description: "Creative member"},
			"drawing_winner": {Name: "Drawing winner", Emoji: "🎉", Description: "Prize drawing winner"},
		},
	}
}
