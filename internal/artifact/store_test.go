package artifact

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toldwithlove/toldwithlove/internal/intake"
)

func TestStorePutGetRoundTrip(t *testing.T) {
	store := NewStore(8)
	in := &Artifact{
		ID:        "abc123",
		Title:     "A Tale of Two Names",
		Text:      "Once upon a time...",
		Kind:      "love_story",
		Fields:    intake.FieldSet{intake.KeyName1: "Alex"},
		CreatedAt: time.Now(),
	}
	store.Put(in)

	out, ok := store.Get("abc123")
	require.True(t, ok)
	require.Equal(t, in.Title, out.Title)
	require.Equal(t, in.Text, out.Text)
	require.Equal(t, in.Fields, out.Fields)
}

func TestStoreGetUnknownID(t *testing.T) {
	store := NewStore(8)
	_, ok := store.Get("missing")
	require.False(t, ok)
}

func TestStoreCopiesOnPutAndGet(t *testing.T) {
	store := NewStore(8)
	in := &Artifact{ID: "x", Text: "original", Fields: intake.FieldSet{intake.KeyName1: "Alex"}}
	store.Put(in)
	in.Text = "mutated"
	in.Fields[intake.KeyName1] = "Mallory"

	out, ok := store.Get("x")
	require.True(t, ok)
	require.Equal(t, "original", out.Text)
	require.Equal(t, "Alex", out.Fields.Get(intake.KeyName1))

	out.Text = "mutated again"
	again, _ := store.Get("x")
	require.Equal(t, "original", again.Text)
}

func TestStoreEvictsOldestWhenFull(t *testing.T) {
	store := NewStore(3)
	for i := 0; i < 4; i++ {
		store.Put(&Artifact{ID: fmt.Sprintf("id%d", i), Text: "t"})
	}

	require.Equal(t, 3, store.Len())
	_, ok := store.Get("id0")
	require.False(t, ok)
	for i := 1; i < 4; i++ {
		_, ok := store.Get(fmt.Sprintf("id%d", i))
		require.True(t, ok)
	}
}

func TestStoreReplaceDoesNotEvict(t *testing.T) {
	store := NewStore(2)
	store.Put(&Artifact{ID: "a", Text: "one"})
	store.Put(&Artifact{ID: "b", Text: "two"})
	store.Put(&Artifact{ID: "a", Text: "one-updated"})

	require.Equal(t, 2, store.Len())
	out, ok := store.Get("a")
	require.True(t, ok)
	require.Equal(t, "one-updated", out.Text)
	_, ok = store.Get("b")
	require.True(t, ok)
}

func TestStoreUnboundedWhenCapacityZero(t *testing.T) {
	store := NewStore(0)
	for i := 0; i < 100; i++ {
		store.Put(&Artifact{ID: fmt.Sprintf("id%d", i)})
	}
	require.Equal(t, 100, store.Len())
}

func TestSanitizeIDStripsNonAlphanumeric(t *testing.T) {
	require.Equal(t, "abc123", SanitizeID("abc#123!"))
	require.Equal(t, "ResponseID42", SanitizeID("Response-ID_42"))
}

func TestSanitizeIDFallsBackForEmptyResult(t *testing.T) {
	got := SanitizeID("!!##--")
	require.NotEmpty(t, got)
	require.Regexp(t, `^gen\d+$`, got)
}

func TestTitleFromText(t *testing.T) {
	require.Equal(t, "The Meeting", TitleFromText("# The Meeting\n\nOnce upon...", "fallback"))
	require.Equal(t, "Plain Title", TitleFromText("\n\nPlain Title\nBody", "fallback"))
	require.Equal(t, "fallback", TitleFromText("   \n\n", "fallback"))
}
