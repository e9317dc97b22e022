package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungscout96/prompt-experiment/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir())
}

func testRecord(model, description string) *models.ExperimentRecord {
	return &models.ExperimentRecord{
		Model:          model,
		PromptTemplate: "annotate {{description}} with {{hed_vocab}}",
		Description:    description,
		ModelResponse:  "--- ANNOTATION START ---\n(Event)\n--- ANNOTATION END ---",
		Annotation:     "(Event)",
		InferenceTime:  1.5,
		Timestamp:      time.Now().UTC(),
	}
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	st := newTestStore(t)

	for want := 0; want < 3; want++ {
		key, id, err := st.Create(testRecord("llama3", "a tone plays"))
		require.NoError(t, err)
		assert.Equal(t, want, id)
		assert.Equal(t, filename(want), key)
	}
}

func TestCreate_FillsGaps(t *testing.T) {
	st := newTestStore(t)

	for i := 0; i < 4; i++ {
		_, _, err := st.Create(testRecord("llama3", "desc"))
		require.NoError(t, err)
	}

	// Delete experiment 2 and verify the next create reuses its slot.
	require.NoError(t, os.Remove(filepath.Join(st.Dir(), filename(2))))

	_, id, err := st.Create(testRecord("llama3", "reused slot"))
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	_, id, err = st.Create(testRecord("llama3", "next fresh slot"))
	require.NoError(t, err)
	assert.Equal(t, 4, id)
}

func TestGet_AcceptsKeyAndBareID(t *testing.T) {
	st := newTestStore(t)

	key, id, err := st.Create(testRecord("gemini-1.5-flash", "a red circle appears"))
	require.NoError(t, err)

	byKey, err := st.Get(key)
	require.NoError(t, err)

	byID, err := st.Get("0")
	require.NoError(t, err)

	assert.Equal(t, id, byKey.ExperimentID)
	assert.Equal(t, byKey.ExperimentID, byID.ExperimentID)
	assert.Equal(t, "a red circle appears", byID.Description)
}

func TestGet_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Get("7")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.Get("not-a-key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_SortedNewestFirst(t *testing.T) {
	st := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, _, err := st.Create(testRecord("llama3", "desc"))
		require.NoError(t, err)
	}

	summaries, err := st.List()
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, 2, summaries[0].ExperimentID)
	assert.Equal(t, 1, summaries[1].ExperimentID)
	assert.Equal(t, 0, summaries[2].ExperimentID)
}

func TestList_TruncatesLongDescriptions(t *testing.T) {
	st := newTestStore(t)

	exact := strings.Repeat("a", 100)
	long := strings.Repeat("b", 101)

	_, _, err := st.Create(testRecord("llama3", exact))
	require.NoError(t, err)
	_, _, err = st.Create(testRecord("llama3", long))
	require.NoError(t, err)

	summaries, err := st.List()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Newest first, so the long description is summaries[0].
	assert.Equal(t, strings.Repeat("b", 100)+"...", summaries[0].Description)
	assert.Equal(t, exact, summaries[1].Description)
}

func TestList_EmptyWhenDirMissing(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))

	summaries, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestRename_ChangesOnlyName(t *testing.T) {
	st := newTestStore(t)

	key, _, err := st.Create(testRecord("llama3", "a dog barks"))
	require.NoError(t, err)

	before, err := st.Get(key)
	require.NoError(t, err)

	require.NoError(t, st.Rename(key, "baseline run"))

	after, err := st.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "baseline run", after.ExperimentName)

	after.ExperimentName = before.ExperimentName
	assert.Equal(t, before, after)
}

func TestRename_NotFound(t *testing.T) {
	st := newTestStore(t)

	err := st.Rename("3", "whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_LegacyRecordWithoutID(t *testing.T) {
	st := newTestStore(t)

	// Records written before identifiers were introduced have no
	// experiment_id field; the ordinal comes from the filename.
	legacy := map[string]any{
		"model":          "llama3",
		"prompt":         "full prompt text",
		"description":    "legacy run",
		"model_response": "reply",
		"annotation":     "(Event)",
		"inference_time": 2.0,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), filename(5)), data, 0644))

	record, err := st.Get("5")
	require.NoError(t, err)
	assert.Equal(t, 5, record.ExperimentID)
	assert.Equal(t, "legacy run", record.Description)
}

func TestPath(t *testing.T) {
	st := newTestStore(t)

	key, _, err := st.Create(testRecord("llama3", "desc"))
	require.NoError(t, err)

	path, err := st.Path("0")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(st.Dir(), key), path)

	_, err = st.Path("9")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	st := newTestStore(t)

	_, _, err := st.Create(testRecord("llama3", "desc"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), "notes.txt"), []byte("scratch"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), "experiment_x.json"), []byte("{}"), 0644))

	summaries, err := st.List()
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}
