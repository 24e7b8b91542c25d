package diagnox

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ClassifierFactory builds the classifier once the catalog width and class
// order are known.
type ClassifierFactory func(cfg ModelConfig, width int, classes []string) (Classifier, error)

// OrtClassifierFactory loads the classifier with onnxruntime.
func OrtClassifierFactory(cfg ModelConfig, width int, classes []string) (Classifier, error) {
	return NewOrtClassifier(cfg, width, classes)
}

// Load reads every startup artifact and returns a ready Service. Nothing is
// returned unless all of them load.
func Load(ctx context.Context, cfg Config, logger zerolog.Logger, opts ...Option) (*Service, error) {
	return LoadWith(ctx, cfg, logger, OrtClassifierFactory, opts...)
}

// LoadWith is Load with a caller supplied classifier factory.
func LoadWith(ctx context.Context, cfg Config, logger zerolog.Logger, factory ClassifierFactory, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Artifact: ArtifactConfig, Err: err}
	}

	training, err := ParseTrainingTable(cfg.TrainingPath, TrainingParseOptions{
		LabelColumn: cfg.LabelColumn,
		DropColumns: cfg.DropColumns,
	})
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactTraining, Path: cfg.TrainingPath, Err: err}
	}
	catalog, err := NewCatalog(training.Symptoms)
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactTraining, Path: cfg.TrainingPath, Err: err}
	}
	if cfg.CatalogFingerprint != "" && cfg.CatalogFingerprint != catalog.Fingerprint() {
		return nil, &LoadError{
			Artifact: ArtifactTraining,
			Path:     cfg.TrainingPath,
			Err:      fmt.Errorf("catalog fingerprint %s does not match pinned %s", catalog.Fingerprint(), cfg.CatalogFingerprint),
		}
	}
	logger.Info().Int("symptoms", catalog.Len()).Str("fingerprint", catalog.Fingerprint()).Msg("symptom catalog loaded")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := ParseSuggestionTable(cfg.SuggestionsPath, SuggestionParseOptions{
		DiseaseColumn:    cfg.DiseaseColumn,
		SuggestionColumn: cfg.SuggestionColumn,
	})
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactSuggestions, Path: cfg.SuggestionsPath, Err: err}
	}
	table := NewSuggestionTable(rows)
	logger.Info().Int("rows", table.Len()).Int("diseases", table.Diseases()).Msg("suggestion table loaded")

	classes, err := resolveClasses(cfg, training)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	classifier, err := factory(cfg.Model, catalog.Len(), classes)
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactModel, Path: cfg.Model.Path, Err: err}
	}
	logger.Info().Int("classes", len(classes)).Str("model", cfg.Model.Path).Msg("classifier loaded")

	svc, err := NewService(catalog, classifier, table, cfg, logger, opts...)
	if err != nil {
		_ = classifier.Close()
		return nil, &LoadError{Artifact: ArtifactModel, Path: cfg.Model.Path, Err: err}
	}
	return svc, nil
}

func resolveClasses(cfg Config, training TrainingTable) ([]string, error) {
	if cfg.Model.ClassesPath != "" {
		classes, err := ParseClassList(cfg.Model.ClassesPath)
		if err != nil {
			return nil, &LoadError{Artifact: ArtifactClasses, Path: cfg.Model.ClassesPath, Err: err}
		}
		return classes, nil
	}
	classes := training.Classes()
	if len(classes) == 0 {
		return nil, &LoadError{
			Artifact: ArtifactClasses,
			Path:     cfg.TrainingPath,
			Err:      fmt.Errorf("column %q has no labels", cfg.LabelColumn),
		}
	}
	return classes, nil
}
