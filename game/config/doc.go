// Package config provides rule preset management for the rabbit chase game.
//
// The config package handles:
//   - Loading presets from JSON files in the configs directory
//   - Validation through engine.ValidateGameConfig
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
// A preset is an engine.GameConfig serialised as JSON. Only name is
// required; every other field falls back to the classic rules:
//
//	{
//	  "name": "trio",
//	  "description": "Wolf against two rabbits",
//	  "player_count": 3,
//	  "victory_threshold": 4,
//	  "human_roles": ["redRabbit"],
//	  "delays": {"ai_think_ms": 600, "feedback_ms": 1200, "trivia_reveal_ms": 1500}
//	}
//
// Default Preset:
//
// classic.json is the default. When it is missing or invalid the first valid
// file in the directory is used, and when there is none the built-in
// engine.DefaultConfig rules apply.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	trio, err := manager.LoadConfig("trio")
//	presets, err := manager.ListConfigs()
package config
