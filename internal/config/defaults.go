package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the built-in tuning. It mirrors
// defaults/flappy.yaml and is used when the embedded file cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: WorldConfig{
			Width:        500,
			Height:       700,
			GroundHeight: 20,
		},
		Player: PlayerConfig{
			Size:       100,
			StartY:     250,
			SlotLeft:   50,
			SlotRight:  80,
			DrawX:      65,
			FlapFrames: 25,
		},
		Physics: PhysicsConfig{
			Gravity:     0.6,
			JumpImpulse: -10,
		},
		Obstacles: ObstacleConfig{
			Width:              80,
			Gap:                200,
			CapHeight:          30,
			Speed:              3,
			SpawnIntervalMs:    2000,
			MinTop:             80,
			MinBottomClearance: 100,
			EvictMargin:        50,
		},
		Clock: ClockConfig{
			ReferenceFrameMs: 16.67,
			MinFrameMs:       8,
			MaxDeltaMs:       50,
			Smoothing:        0.8,
		},
		Leaderboard: LeaderboardConfig{
			TopN:       10,
			DailyN:     3,
			NameMaxLen: 12,
			TimeoutMs:  5000,
		},
		Gate: GateConfig{
			TargetScore:   14,
			UnlockDelayMs: 2000,
		},
		Decor: DecorConfig{
			Clouds:        4,
			MinY:          20,
			MaxY:          170,
			MinWidth:      60,
			MaxWidth:      100,
			MinSpeed:      0.2,
			MaxSpeed:      0.7,
			OffscreenWrap: 20,
		},
		Input: InputConfig{
			FlapKey:        " ",
			DedupeWindowMs: 300,
		},
		Assets: AssetsConfig{
			RestSprite: "embed:bird.png",
			FlapSprite: "embed:bird_flap.png",
		},
	}
}

// DefaultYAML returns the embedded default configuration file, for
// `flappy config` style dumps and as the base layer of Load.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
