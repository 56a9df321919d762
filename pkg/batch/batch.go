package batch

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rahulwagh60/actions/pkg/detect"
	"github.com/rahulwagh60/actions/pkg/log"
	"github.com/rahulwagh60/actions/pkg/validate"
)

// Mode selects which check an [Evaluator] runs.
type Mode string

const (
	// ModeEncryption requires every file's content to be encrypted.
	ModeEncryption Mode = "encryption"

	// ModeManifests requires every file that classifies as a Kubernetes
	// manifest to pass schema validation.
	ModeManifests Mode = "manifests"
)

// Evaluator runs one check mode over a list of files.
//
// Evaluation is sequential and preserves input order, so two runs over the
// same inputs produce identical summaries.
type Evaluator struct {
	encryption *detect.EncryptionClassifier
	manifests  *detect.ManifestClassifier
	validator  validate.Validator
	tracer     trace.Tracer
	mode       Mode
}

// NewEncryptionEvaluator creates an [Evaluator] that checks files for
// encryption.
func NewEncryptionEvaluator(c *detect.EncryptionClassifier) *Evaluator {
	return &Evaluator{
		tracer:     otel.Tracer("batch"),
		mode:       ModeEncryption,
		encryption: c,
	}
}

// NewManifestEvaluator creates an [Evaluator] that validates Kubernetes
// manifests against their schemas.
func NewManifestEvaluator(c *detect.ManifestClassifier, v validate.Validator) *Evaluator {
	return &Evaluator{
		tracer:    otel.Tracer("batch"),
		mode:      ModeManifests,
		manifests: c,
		validator: v,
	}
}

// Mode returns the evaluator's check mode.
func (e *Evaluator) Mode() Mode {
	return e.mode
}

// Evaluate runs the check over paths in order.
//
// Unreadable paths are skipped and recorded, never failed: a missing or
// special file says nothing about its content. An environment fault, such as
// a missing probe or validator binary, aborts the whole run with an error.
// Every input path lands in exactly one of Passing, Failing, or Skipped.
func (e *Evaluator) Evaluate(ctx context.Context, paths []string) (*Summary, error) {
	ctx, span := e.tracer.Start(ctx, "evaluate", trace.WithAttributes(
		attribute.String("mode", string(e.mode)),
		attribute.Int("files", len(paths)),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	summary := &Summary{}

	for _, path := range paths {
		sample, err := detect.CaptureSample(path)
		if err != nil {
			logger.WarnContext(ctx, "skipping unreadable file",
				slog.String("path", path),
				slog.Any("error", err),
			)
			summary.Skipped = append(summary.Skipped, path)

			continue
		}

		summary.Total++

		if err := e.evaluateSample(ctx, sample, summary); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.Int("passed", len(summary.Passing)),
		attribute.Int("failed", len(summary.Failing)),
		attribute.Int("skipped", len(summary.Skipped)),
	)

	return summary, nil
}

func (e *Evaluator) evaluateSample(ctx context.Context, sample *detect.Sample, summary *Summary) error {
	switch e.mode {
	case ModeEncryption:
		return e.evaluateEncryption(ctx, sample, summary)
	case ModeManifests:
		return e.evaluateManifest(ctx, sample, summary)
	}

	return fmt.Errorf("unknown mode %q", e.mode)
}

// evaluateEncryption passes files whose content is encrypted and fails the
// rest. Every readable file counts as matched since the check applies to all
// of them.
func (e *Evaluator) evaluateEncryption(ctx context.Context, sample *detect.Sample, summary *Summary) error {
	verdict, err := e.encryption.Classify(ctx, sample)
	if err != nil {
		return fmt.Errorf("classify %s: %w", sample.Path(), err)
	}

	summary.Matched++

	if verdict.Positive {
		log.WithContext(ctx).DebugContext(ctx, "file is encrypted",
			slog.String("path", sample.Path()),
			slog.String("reason", string(verdict.Reason)),
		)
		summary.Passing = append(summary.Passing, sample.Path())

		return nil
	}

	summary.Failing = append(summary.Failing, Failure{
		Path:       sample.Path(),
		Reason:     verdict.Reason,
		Diagnostic: "content is not encrypted",
	})

	return nil
}

// evaluateManifest validates files that classify as manifests and waves the
// rest through. Matched counts manifests only.
func (e *Evaluator) evaluateManifest(ctx context.Context, sample *detect.Sample, summary *Summary) error {
	verdict := e.manifests.Classify(sample.Path(), sample.Bytes())
	if !verdict.Positive {
		summary.Passing = append(summary.Passing, sample.Path())

		return nil
	}

	summary.Matched++

	outcome, err := e.validator.Validate(ctx, sample.Path())
	if err != nil {
		return fmt.Errorf("validate %s: %w", sample.Path(), err)
	}

	if outcome.Valid {
		summary.Passing = append(summary.Passing, sample.Path())

		return nil
	}

	diagnostic := outcome.Diagnostic
	if resources := validate.DescribeResources(sample.Bytes()); resources != "" {
		diagnostic = fmt.Sprintf("%s (%s)", diagnostic, resources)
	}

	summary.Failing = append(summary.Failing, Failure{
		Path:       sample.Path(),
		Reason:     verdict.Reason,
		Diagnostic: diagnostic,
	})

	return nil
}
