package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	ServerPort int

	StorageRoot    string
	MaxUploadBytes int64

	FFmpegPath   string
	FFprobePath  string
	FFmpegPreset string

	EventBuffer          int
	EventDeliveryTimeout time.Duration
	SSEHeartbeat         time.Duration

	JobRetention    time.Duration
	JanitorSchedule string

	RedisAddr     string
	RedisPassword string
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	v.SetDefault("STORAGE_ROOT", "./data")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(1)<<30)
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("FFPROBE_PATH", "ffprobe")
	v.SetDefault("FFMPEG_PRESET", "medium")
	v.SetDefault("EVENT_BUFFER", 64)
	v.SetDefault("EVENT_DELIVERY_TIMEOUT", "2s")
	v.SetDefault("SSE_HEARTBEAT", "15s")
	v.SetDefault("JOB_RETENTION", "0")
	v.SetDefault("JANITOR_SCHEDULE", "@every 10m")

	if !v.IsSet("SERVER_PORT") {
		return nil, fmt.Errorf("SERVER_PORT is required")
	}
	if v.GetInt("SERVER_PORT") <= 0 {
		return nil, fmt.Errorf("SERVER_PORT must be a positive integer")
	}

	deliveryTimeout, err := duration(v, "EVENT_DELIVERY_TIMEOUT")
	if err != nil {
		return nil, err
	}
	heartbeat, err := duration(v, "SSE_HEARTBEAT")
	if err != nil {
		return nil, err
	}
	retention, err := duration(v, "JOB_RETENTION")
	if err != nil {
		return nil, err
	}

	return &Settings{
		ServerPort:           v.GetInt("SERVER_PORT"),
		StorageRoot:          v.GetString("STORAGE_ROOT"),
		MaxUploadBytes:       v.GetInt64("MAX_UPLOAD_BYTES"),
		FFmpegPath:           v.GetString("FFMPEG_PATH"),
		FFprobePath:          v.GetString("FFPROBE_PATH"),
		FFmpegPreset:         v.GetString("FFMPEG_PRESET"),
		EventBuffer:          v.GetInt("EVENT_BUFFER"),
		EventDeliveryTimeout: deliveryTimeout,
		SSEHeartbeat:         heartbeat,
		JobRetention:         retention,
		JanitorSchedule:      v.GetString("JANITOR_SCHEDULE"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
	}, nil
}

// duration accepts Go duration strings ("90s") and bare integers as seconds.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	if secs := v.GetInt(key); secs > 0 || raw == "0" {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("%s must be a duration, got %q", key, raw)
}
