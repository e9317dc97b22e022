package prompt

import (
	"fmt"
	"strings"
)

// Placeholder names a template must carry. Templates are plain text with
// jinja-style substitution sites so the files stay editable outside this
// tool.
const (
	VocabPlaceholder       = "{{hed_vocab}}"
	DescriptionPlaceholder = "{{description}}"
)

// Render substitutes the vocabulary text and description into the template.
// The template itself is never mutated; a rendered copy is returned.
func Render(template, vocab, description string) string {
	replacer := strings.NewReplacer(
		VocabPlaceholder, vocab,
		DescriptionPlaceholder, description,
	)
	return replacer.Replace(template)
}

// Validate reports whether the template carries both substitution sites.
// Callers should reject a template before spending a model call on it.
func Validate(template string) error {
	if !strings.Contains(template, VocabPlaceholder) {
		return fmt.Errorf("template is missing the %s placeholder", VocabPlaceholder)
	}
	if !strings.Contains(template, DescriptionPlaceholder) {
		return fmt.Errorf("template is missing the %s placeholder", DescriptionPlaceholder)
	}
	return nil
}

// DefaultTemplate is the built-in annotation instruction prompt. The marker
// pairs inside it must survive rendering verbatim so the extractor can find
// the annotation block in the model's reply.
const DefaultTemplate = `
You are an expert in converting natural language descriptions of events into structured annotations using a predefined Hierarchical Event Descriptor (HED) vocabulary. Your task is to extract relevant concepts from the input description and represent them as a comma-separated list of HED tags, strictly adhering to the provided vocabulary.

**Crucial Constraints:**
* **Vocabulary Adherence:** You MUST ONLY use tags (single terms) found in the provided HED vocabulary schema. Do not introduce any new words, synonyms, or full hierarchical paths in the annotation. When a concept maps to a hierarchical tag, use only the **most specific (leaf) tag** from the hierarchy.
* **Output Format:** Your output must be a comma-separated list of HED tags. Each tag or nested group of tags should be enclosed in parentheses ` + "`()`" + `. For tags that take a value (indicated by ` + "`#`" + ` in the schema), replace ` + "`#`" + ` with the appropriate value from the description.
* **Completeness:** Capture all relevant information from the input description using the vocabulary.
* **Conciseness:** Avoid redundant tags.
* **No Explanations:** Do not provide any conversational filler, explanations, or additional text beyond the annotations themselves, *except for the reasoning process requested below*.
* **Handling Unmappable Concepts:** If a concept in the description cannot be mapped to any tag in the vocabulary, omit it. Do not invent tags or try to approximate.

**Reasoning Process (Output this first, then the Annotation):**
Before providing the final annotation, detail your thought process in the following steps:
1.  **Breakdown:** Identify the key elements or phrases in the description that represent distinct concepts.
2.  **Mapping:** For each key element, find the most specific corresponding tag in the provided HED vocabulary schema. If a concept cannot be mapped, note it as unmappable.
3.  **Structuring:** Determine how the identified tags should be grouped or nested according to HED conventions (e.g., (Object, Action, Object) or (Main_Event, (Property, Value))).

**HED Vocabulary Schema:**
{{hed_vocab}}

**Examples:**

Description: The foreground view consists of a large number of ingestible objects, indicating a high quantity. The background view includes an adult human body, outdoors in a setting that includes furnishings, natural features such as the sky, and man-made objects in an urban environment

--- REASONING PROCESS START ---
1.  **Breakdown**: The description includes elements about visual perspective (foreground/background), quantity, types of objects, human characteristics, environmental setting, and urban features.
2.  **Mapping**:
    * "foreground view": ` + "`Foreground-view`" + `
    * "large number": ` + "`Item-count`, `High`" + `
    * "ingestible objects": ` + "`Ingestible-object`" + `
    * "background view": ` + "`Background-view`" + `
    * "adult human body": ` + "`Human`, `Body`" + `
    * "outdoors": ` + "`Outdoors`" + `
    * "furnishings": ` + "`Furnishing`" + `
    * "natural features": ` + "`Natural-feature`" + ` (since "sky" isn't a leaf tag, use parent)
    * "man-made objects": ` + "`Man-made-object`" + `
    * "urban environment": ` + "`Urban`" + `
3.  **Structuring**: Group related visual elements, quantify, specify human attributes, and categorize environmental aspects.
--- REASONING PROCESS END ---

--- ANNOTATION START ---
(Foreground-view, (Item-count, High), Ingestible-object), (Background-view, (Human, Body, Outdoors, Furnishing, Natural-feature, Urban, Man-made-object)
--- ANNOTATION END ---

Description from user:
{{description}}

--- REASONING PROCESS START ---
--- REASONING PROCESS END ---

--- ANNOTATION START ---
--- ANNOTATION END ---
`
