package config

import (
	"os"
	"sync"
)

type NotifierConfig struct {
	WebhookURL string
}

var (
	notifierConfig *NotifierConfig
	notifierOnce   sync.Once
)

func LoadNotifierConfig() *NotifierConfig {
	notifierOnce.Do(func() {
		notifierConfig = &NotifierConfig{
			WebhookURL: os.Getenv("TRAINING_WEBHOOK_URL"),
		}
	})
	return notifierConfig
}
