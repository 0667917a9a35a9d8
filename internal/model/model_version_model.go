package model

import (
	"time"

	"github.com/google/uuid"
)

// Tuning methods.
const (
	TuningNone   = "none"
	TuningGrid   = "grid"
	TuningRandom = "random"
)

// TrainingConfig is supplied by the caller of a training run. It is persisted
// only as part of the run's and the resulting versions' metadata.
type TrainingConfig struct {
	Algorithms         []string `json:"algorithms"`
	TuningMethod       string   `json:"tuning_method"`
	CVFolds            int      `json:"cv_folds"`
	TestFraction       float64  `json:"test_fraction"`
	ValidationFraction float64  `json:"validation_fraction"`
	TargetMetric       string   `json:"target_metric"`
	ScaleFeatures      bool     `json:"scale_features"`
	VerifiedOnly       bool     `json:"verified_only"`
	MinSamples         int      `json:"min_samples"`
	RandomIterations   int      `json:"random_iterations"`
	Seed               int64    `json:"seed"`
}

type ClassReport struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

type ConfusionMatrix struct {
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
	TruePositives  int `json:"true_positives"`
}

// TrainingMetrics is everything measured about one trained classifier.
type TrainingMetrics struct {
	Accuracy        float64                `json:"accuracy"`
	Precision       float64                `json:"precision"`
	Recall          float64                `json:"recall"`
	F1              float64                `json:"f1"`
	AUCROC          float64                `json:"auc_roc"`
	ConfusionMatrix ConfusionMatrix        `json:"confusion_matrix"`
	PerClass        map[string]ClassReport `json:"per_class"`
	CVScores        []float64              `json:"cv_scores,omitempty"`
	CVMean          float64                `json:"cv_mean"`
	CVStd           float64                `json:"cv_std"`
	ValidationScore float64                `json:"validation_score"`
	TrainingSeconds float64                `json:"training_seconds"`
}

type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ModelVersion is one row of the model registry. At most one version is
// active at any moment; activation clears the previous holder's flag but
// keeps its record.
type ModelVersion struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Version         string              `gorm:"type:varchar(100)" json:"version"`
	Algorithm       string              `gorm:"type:varchar(100)" json:"algorithm"`
	TrainingSamples int                 `json:"training_samples"`
	Config          TrainingConfig      `gorm:"type:jsonb;serializer:json" json:"config"`
	Metrics         TrainingMetrics     `gorm:"type:jsonb;serializer:json" json:"metrics"`
	Importances     []FeatureImportance `gorm:"type:jsonb;serializer:json" json:"feature_importances"`
	Hyperparameters map[string]any      `gorm:"type:jsonb;serializer:json" json:"hyperparameters"`
	ClassifierPath  string              `gorm:"type:text" json:"classifier_path"`
	ScalerPath      string              `gorm:"type:text" json:"scaler_path,omitempty"`
	Active          bool                `gorm:"index" json:"active"`
	CreatedAt       time.Time           `json:"created_at"`
}

func (m *ModelVersion) TableName() string {
	return "model_versions"
}
