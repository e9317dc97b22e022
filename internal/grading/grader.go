// Package grading asks a second model how well an annotation captures the
// original description and pulls a numeric 0-10 score out of its free-text
// reply.
package grading

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dungscout96/prompt-experiment/internal/logger"
	"github.com/dungscout96/prompt-experiment/internal/models"
)

// SkipMessage is recorded in place of a grader reply when there was no
// annotation to grade. No completion call is made in that case.
const SkipMessage = "No annotation was produced; nothing to grade."

const gradingPromptFormat = `Please rate the quality of the following HED annotation on a scale of 0 to 10, based on two criteria: how clear the annotation is, and how well the original description could be reconstructed from the annotation alone.

Original description:
%s

Annotation:
%s

Provide your rating as a number between 0 and 10 (for example "Score: 7/10"), followed by a brief justification.`

// Completer dispatches a prompt to a backend. Satisfied by llm.Gateway, so
// the grader model goes through the same routing as the annotation run and
// may itself be hosted or local.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (string, time.Duration, error)
}

// Grader issues a single grading completion per annotation.
type Grader struct {
	gateway Completer
}

// New creates a grader over the given completion gateway
func New(gateway Completer) *Grader {
	return &Grader{gateway: gateway}
}

// Grade scores how well annotation reconstructs description. It never
// returns an error: a failed or ungradable reply degrades to an absent
// score, with the failure text kept in the Response field.
func (g *Grader) Grade(ctx context.Context, description, annotation, graderModel string) *models.QualityGrade {
	grade := &models.QualityGrade{Model: graderModel}

	if strings.TrimSpace(annotation) == "" {
		grade.Response = SkipMessage
		return grade
	}

	gradingPrompt := fmt.Sprintf(gradingPromptFormat, description, annotation)

	text, _, err := g.gateway.Complete(ctx, graderModel, gradingPrompt)
	if err != nil {
		logger.Warning("Grading call failed: %v", err)
		grade.Response = err.Error()
		return grade
	}

	grade.Response = text
	if score, ok := ExtractScore(text); ok {
		grade.Score = &score
	} else {
		logger.Debug("No usable score in grader reply (length %d)", len(text))
	}

	return grade
}
