package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the flappy tuning.
// Search order: customPath -> ~/.flappy/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default.
// Files only need to set the keys they change; everything else keeps the
// embedded default. The result is validated before it is returned.
func Load(customPath string) (FlappyConfig, error) {
	base := embeddedConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return base, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := overlay(base, data)
		if err != nil {
			return base, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath("flappy.yaml"), filepath.Join("configs", "flappy.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := overlay(base, data); err == nil {
			return cfg, cfg.Validate()
		}
	}

	return base, base.Validate()
}

// embeddedConfig parses the embedded defaults, falling back to the
// hardcoded values if the embed is unusable.
func embeddedConfig() FlappyConfig {
	cfg, err := overlay(DefaultFlappyConfig(), defaultFlappyYAML)
	if err != nil {
		return DefaultFlappyConfig()
	}
	return cfg
}

// overlay decodes data on top of a copy of base.
func overlay(base FlappyConfig, data []byte) (FlappyConfig, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flappy", "configs", filename)
}

// Validate reports every setting that would make the game unplayable or
// the simulation ill-defined.
func (c FlappyConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("config: "+format, args...))
		}
	}

	check(c.World.Width > 0 && c.World.Height > 0, "world must have a positive size, got %vx%v", c.World.Width, c.World.Height)
	check(c.Player.Size > 0 && c.Player.Size < c.World.Height, "player.size %v must be in (0, world.height)", c.Player.Size)
	check(c.Player.SlotLeft < c.Player.SlotRight, "player slot [%v, %v] is empty", c.Player.SlotLeft, c.Player.SlotRight)
	check(c.Player.FlapFrames >= 0, "player.flap_frames must not be negative")
	check(c.Physics.Gravity > 0, "physics.gravity must be positive")
	check(c.Physics.JumpImpulse < 0, "physics.jump_impulse must be negative (up)")
	check(c.Obstacles.Width > 0, "obstacles.width must be positive")
	check(c.Obstacles.Gap > c.Player.Size, "obstacles.gap %v must exceed player.size %v", c.Obstacles.Gap, c.Player.Size)
	check(c.Obstacles.Speed > 0, "obstacles.speed must be positive")
	check(c.Obstacles.SpawnIntervalMs > 0, "obstacles.spawn_interval_ms must be positive")
	check(c.Obstacles.MinTop > 0 && c.Obstacles.MinBottomClearance > 0, "obstacle clearances must be positive")
	check(c.Obstacles.MinTop <= c.MaxGapTop(), "obstacles.min_top %v exceeds the largest possible gap top %v", c.Obstacles.MinTop, c.MaxGapTop())
	check(c.Obstacles.EvictMargin >= 0, "obstacles.evict_margin must not be negative")
	check(c.Clock.ReferenceFrameMs > 0, "clock.reference_frame_ms must be positive")
	check(c.Clock.MinFrameMs > 0 && c.Clock.MinFrameMs <= c.Clock.MaxDeltaMs, "clock bounds [%v, %v] are invalid", c.Clock.MinFrameMs, c.Clock.MaxDeltaMs)
	check(c.Clock.Smoothing >= 0 && c.Clock.Smoothing < 1, "clock.smoothing %v must be in [0, 1)", c.Clock.Smoothing)
	check(c.Leaderboard.TopN > 0, "leaderboard.top_n must be positive")
	check(c.Leaderboard.DailyN >= 0, "leaderboard.daily_n must not be negative")
	check(c.Leaderboard.NameMaxLen > 0, "leaderboard.name_max_len must be positive")
	check(c.Leaderboard.TimeoutMs > 0, "leaderboard.timeout_ms must be positive")
	check(c.Gate.TargetScore >= 0, "gate.target_score must not be negative")
	check(c.Gate.UnlockDelayMs >= 0, "gate.unlock_delay_ms must not be negative")
	check(c.Decor.Clouds >= 0, "decor.clouds must not be negative")
	check(c.Decor.MinWidth <= c.Decor.MaxWidth && c.Decor.MinSpeed <= c.Decor.MaxSpeed && c.Decor.MinY <= c.Decor.MaxY, "decor ranges must have min <= max")
	check(c.Input.FlapKey != "", "input.flap_key must be set")
	check(c.Input.DedupeWindowMs >= 0, "input.dedupe_window_ms must not be negative")

	return errors.Join(errs...)
}
