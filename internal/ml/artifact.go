package ml

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

func init() {
	gob.Register(&LogisticRegression{})
	gob.Register(&DecisionTree{})
	gob.Register(&RandomForest{})
	gob.Register(&GradientBoosting{})
	gob.Register(&TreeNode{})
	gob.Register(&RegNode{})
}

// classifierEnvelope wraps the interface value so gob records the concrete
// type alongside the data.
type classifierEnvelope struct {
	Classifier Classifier
}

// ArtifactStore writes trained artifacts under <dir>/<model_id>/ as gob
// files, one for the classifier and one for the optional scaler.
type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

func (s *ArtifactStore) SaveClassifier(modelID string, clf Classifier) (string, error) {
	path := filepath.Join(s.dir, modelID, "classifier.gob")
	if err := encodeGob(path, classifierEnvelope{Classifier: clf}); err != nil {
		return "", fmt.Errorf("save classifier: %w", err)
	}
	return path, nil
}

func (s *ArtifactStore) SaveScaler(modelID string, scaler *Scaler) (string, error) {
	path := filepath.Join(s.dir, modelID, "scaler.gob")
	if err := encodeGob(path, scaler); err != nil {
		return "", fmt.Errorf("save scaler: %w", err)
	}
	return path, nil
}

func (s *ArtifactStore) LoadClassifier(path string) (Classifier, error) {
	var env classifierEnvelope
	if err := decodeGob(path, &env); err != nil {
		return nil, err
	}
	return env.Classifier, nil
}

func (s *ArtifactStore) LoadScaler(path string) (*Scaler, error) {
	var scaler Scaler
	if err := decodeGob(path, &scaler); err != nil {
		return nil, err
	}
	return &scaler, nil
}

func encodeGob(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(v)
}

func decodeGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}
