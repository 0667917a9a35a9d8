package service

import (
	"time"

	"github.com/admitra/admission-engine/internal/config"
	"github.com/admitra/admission-engine/internal/model"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookNotifier posts a training-run summary to a configured URL when a
// run reaches a terminal state. Disabled when no URL is configured;
// fire-and-forget either way, a webhook failure never affects the run.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	log    *zap.Logger
}

func NewWebhookNotifier(log *zap.Logger) *WebhookNotifier {
	cfg := config.LoadNotifierConfig()
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	return &WebhookNotifier{client: client, url: cfg.WebhookURL, log: log}
}

func (n *WebhookNotifier) TrainingFinished(run *model.TrainingRun) {
	if n.url == "" {
		return
	}
	payload := map[string]any{
		"run_id":    run.ID.String(),
		"status":    run.Status,
		"stage":     run.Stage,
		"model_ids": run.ModelIDs,
		"error":     run.Error,
	}
	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(n.url)
	if err != nil {
		n.log.Warn("training webhook failed", zap.String("run_id", run.ID.String()), zap.Error(err))
		return
	}
	if resp.IsError() {
		n.log.Warn("training webhook rejected",
			zap.String("run_id", run.ID.String()),
			zap.Int("status", resp.StatusCode()))
	}
}
