// Package config provides YAML-based tuning for the flappy engine and the
// viper-backed process settings shared by the CLI commands.
package config

// FlappyConfig contains all tuning for the flappy engine. Distances are in
// world units on a fixed world (500x700 by default); speeds and
// accelerations are per reference frame (1/60 s).
type FlappyConfig struct {
	World       WorldConfig       `yaml:"world"`
	Player      PlayerConfig      `yaml:"player"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Obstacles   ObstacleConfig    `yaml:"obstacles"`
	Clock       ClockConfig       `yaml:"clock"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Gate        GateConfig        `yaml:"gate"`
	Decor       DecorConfig       `yaml:"decor"`
	Input       InputConfig       `yaml:"input"`
	Assets      AssetsConfig      `yaml:"assets"`
}

// WorldConfig defines the fixed simulation world.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundHeight float64 `yaml:"ground_height"` // Drawn only; collision uses Height
}

// PlayerConfig defines the player body and its fixed horizontal slot.
type PlayerConfig struct {
	Size       float64 `yaml:"size"`
	StartY     float64 `yaml:"start_y"`
	SlotLeft   float64 `yaml:"slot_left"`  // Left edge of the collision slot
	SlotRight  float64 `yaml:"slot_right"` // Right edge of the collision slot
	DrawX      float64 `yaml:"draw_x"`     // Horizontal center of the sprite
	FlapFrames float64 `yaml:"flap_frames"`
}

// PhysicsConfig defines gravity and the flap impulse.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	JumpImpulse float64 `yaml:"jump_impulse"` // Negative = up
}

// ObstacleConfig defines the obstacle stream.
type ObstacleConfig struct {
	Width              float64 `yaml:"width"`
	Gap                float64 `yaml:"gap"`
	CapHeight          float64 `yaml:"cap_height"`
	Speed              float64 `yaml:"speed"`
	SpawnIntervalMs    float64 `yaml:"spawn_interval_ms"`
	MinTop             float64 `yaml:"min_top"`
	MinBottomClearance float64 `yaml:"min_bottom_clearance"`
	EvictMargin        float64 `yaml:"evict_margin"`
}

// ClockConfig defines the frame pacer.
type ClockConfig struct {
	ReferenceFrameMs float64 `yaml:"reference_frame_ms"`
	MinFrameMs       float64 `yaml:"min_frame_ms"`
	MaxDeltaMs       float64 `yaml:"max_delta_ms"`
	Smoothing        float64 `yaml:"smoothing"` // Weight kept on history, in [0, 1)
}

// LeaderboardConfig defines qualification and name rules.
type LeaderboardConfig struct {
	TopN       int `yaml:"top_n"`
	DailyN     int `yaml:"daily_n"`
	NameMaxLen int `yaml:"name_max_len"`
	TimeoutMs  int `yaml:"timeout_ms"`
}

// GateConfig defines the score-gated variant.
type GateConfig struct {
	TargetScore   int     `yaml:"target_score"`
	UnlockDelayMs float64 `yaml:"unlock_delay_ms"`
}

// DecorConfig defines the parallax cloud layer.
type DecorConfig struct {
	Clouds        int     `yaml:"clouds"`
	MinY          float64 `yaml:"min_y"`
	MaxY          float64 `yaml:"max_y"`
	MinWidth      float64 `yaml:"min_width"`
	MaxWidth      float64 `yaml:"max_width"`
	MinSpeed      float64 `yaml:"min_speed"`
	MaxSpeed      float64 `yaml:"max_speed"`
	OffscreenWrap float64 `yaml:"offscreen_wrap"`
}

// InputConfig defines the input adapter.
type InputConfig struct {
	FlapKey        string `yaml:"flap_key"`
	DedupeWindowMs int    `yaml:"dedupe_window_ms"`
}

// AssetsConfig lists the two player sprite frames. Values are http(s)
// URLs, file paths, or embed: names of the bundled sprites.
type AssetsConfig struct {
	RestSprite string `yaml:"rest_sprite"`
	FlapSprite string `yaml:"flap_sprite"`
}

// FlapDurationMs returns how long the flap animation lasts.
func (c FlappyConfig) FlapDurationMs() float64 {
	return c.Player.FlapFrames * c.Clock.ReferenceFrameMs
}

// MaxGapTop returns the largest gap top the stream may draw.
func (c FlappyConfig) MaxGapTop() float64 {
	return c.World.Height - c.Obstacles.Gap - c.Obstacles.MinBottomClearance
}
