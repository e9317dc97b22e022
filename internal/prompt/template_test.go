package prompt

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	template := "Vocabulary:\n{{hed_vocab}}\n\nDescribe: {{description}}"
	rendered := Render(template, "Event\n\tSensory-event", "a red circle appears")

	if !strings.Contains(rendered, "Event\n\tSensory-event") {
		t.Error("vocabulary not substituted")
	}
	if !strings.Contains(rendered, "Describe: a red circle appears") {
		t.Error("description not substituted")
	}
	if strings.Contains(rendered, "{{") {
		t.Errorf("placeholders left in rendered prompt: %q", rendered)
	}
}

func TestRender_RepeatedPlaceholders(t *testing.T) {
	rendered := Render("{{description}} and again {{description}}", "vocab", "x")
	if rendered != "x and again x" {
		t.Errorf("got %q", rendered)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		wantErr  bool
	}{
		{"both placeholders", "{{hed_vocab}} {{description}}", false},
		{"missing vocab", "annotate {{description}}", true},
		{"missing description", "vocab: {{hed_vocab}}", true},
		{"neither", "just text", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.template)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.template, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultTemplate(t *testing.T) {
	if err := Validate(DefaultTemplate); err != nil {
		t.Fatalf("built-in template invalid: %v", err)
	}

	// The extractor depends on the reply echoing these marker pairs, so the
	// instructions must name them verbatim.
	for _, marker := range []string{
		"--- ANNOTATION START ---",
		"--- ANNOTATION END ---",
		"--- REASONING PROCESS START ---",
		"--- REASONING PROCESS END ---",
	} {
		if !strings.Contains(DefaultTemplate, marker) {
			t.Errorf("built-in template missing marker %q", marker)
		}
	}
}
