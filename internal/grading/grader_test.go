package grading

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeCompleter struct {
	reply string
	err   error
	calls int

	lastModel  string
	lastPrompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, model, prompt string) (string, time.Duration, error) {
	f.calls++
	f.lastModel = model
	f.lastPrompt = prompt
	return f.reply, 10 * time.Millisecond, f.err
}

func TestGrade_ScoredReply(t *testing.T) {
	completer := &fakeCompleter{reply: "Score: 8/10. Clear and reconstructable."}
	grader := New(completer)

	grade := grader.Grade(context.Background(), "a red circle appears", "(Sensory-event, Red)", "gemini-1.5-flash")

	if grade.Score == nil {
		t.Fatal("expected a score")
	}
	if *grade.Score != 8 {
		t.Errorf("expected score 8, got %v", *grade.Score)
	}
	if grade.Response != completer.reply {
		t.Errorf("expected grader reply stored verbatim, got %q", grade.Response)
	}
	if grade.Model != "gemini-1.5-flash" {
		t.Errorf("expected grader model recorded, got %q", grade.Model)
	}
	if completer.lastModel != "gemini-1.5-flash" {
		t.Errorf("expected completion sent to grader model, got %q", completer.lastModel)
	}
}

func TestGrade_EmptyAnnotationSkipsCall(t *testing.T) {
	completer := &fakeCompleter{reply: "should never be used"}
	grader := New(completer)

	grade := grader.Grade(context.Background(), "a red circle appears", "   ", "llama3")

	if completer.calls != 0 {
		t.Errorf("expected no completion call for empty annotation, got %d", completer.calls)
	}
	if grade.Response != SkipMessage {
		t.Errorf("expected skip message, got %q", grade.Response)
	}
	if grade.Score != nil {
		t.Errorf("expected absent score, got %v", *grade.Score)
	}
}

func TestGrade_CompleterErrorDegradesToAbsentScore(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection refused")}
	grader := New(completer)

	grade := grader.Grade(context.Background(), "a tone plays", "(Sensory-event, Auditory-presentation)", "llama3")

	if grade.Score != nil {
		t.Errorf("expected absent score on completer error, got %v", *grade.Score)
	}
	if grade.Response != "connection refused" {
		t.Errorf("expected error text kept as response, got %q", grade.Response)
	}
}

func TestGrade_UnparseableReplyKeepsText(t *testing.T) {
	completer := &fakeCompleter{reply: "The annotation is excellent but I refuse to give numbers."}
	grader := New(completer)

	grade := grader.Grade(context.Background(), "desc", "(Event)", "llama3")

	if grade.Score != nil {
		t.Errorf("expected absent score, got %v", *grade.Score)
	}
	if grade.Response != completer.reply {
		t.Errorf("expected reply preserved, got %q", grade.Response)
	}
}

func TestGrade_PromptContainsInputs(t *testing.T) {
	completer := &fakeCompleter{reply: "7/10"}
	grader := New(completer)

	grader.Grade(context.Background(), "a dog barks twice", "(Agent-action, Bark)", "llama3")

	for _, fragment := range []string{"a dog barks twice", "(Agent-action, Bark)", "0 to 10"} {
		if !strings.Contains(completer.lastPrompt, fragment) {
			t.Errorf("grading prompt missing %q", fragment)
		}
	}
}
