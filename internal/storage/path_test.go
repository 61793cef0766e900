package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publicBase = "https://abc.supabase.co/storage/v1/object/public"

func TestExtractPath(t *testing.T) {
	tcases := []struct {
		name     string
		category Category
		url      string
		want     string
	}{
		{name: "avatar", category: CategoryAvatar, url: publicBase + "/avatars/u1/me.png", want: "u1/me.png"},
		{name: "comment", category: CategoryComment, url: publicBase + "/comments/c/file.pdf", want: "c/file.pdf"},
		{name: "message", category: CategoryMessage, url: publicBase + "/messages/class/x.jpg", want: "class/x.jpg"},
		{name: "stream", category: CategoryStream, url: publicBase + "/streams/s.docx", want: "s.docx"},
		{name: "classwork", category: CategoryClasswork, url: publicBase + "/classworks/a/b/c.zip", want: "a/b/c.zip"},
		{name: "note", category: CategoryNote, url: publicBase + "/notes/n.txt", want: "n.txt"},
		{name: "query string is dropped", category: CategoryAvatar, url: publicBase + "/avatars/me.png?t=123", want: "me.png"},
		{name: "fragment is dropped", category: CategoryAvatar, url: publicBase + "/avatars/me.png#top", want: "me.png"},
		{name: "first segment wins", category: CategoryNote, url: publicBase + "/notes/old/notes/n.txt", want: "old/notes/n.txt"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractPath(tc.category, tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractPathFailures(t *testing.T) {
	tcases := []struct {
		name     string
		category Category
		url      string
	}{
		{name: "wrong category", category: CategoryAvatar, url: publicBase + "/comments/x.png"},
		{name: "oauth avatar", category: CategoryAvatar, url: "https://lh3.googleusercontent.com/a/xyz"},
		{name: "nothing after segment", category: CategoryMessage, url: publicBase + "/messages/"},
		{name: "empty", category: CategoryNote, url: ""},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractPath(tc.category, tc.url)
			assert.ErrorIs(t, err, ErrSegmentMissing)
		})
	}
}

func TestCategoryHelpers(t *testing.T) {
	helpers := map[Category]func(string) (string, error){
		CategoryAvatar:    AvatarPath,
		CategoryComment:   CommentPath,
		CategoryMessage:   MessagePath,
		CategoryStream:    StreamPath,
		CategoryClasswork: ClassworkPath,
		CategoryNote:      NotePath,
	}

	for c, fn := range helpers {
		got, err := fn(publicBase + "/" + string(c) + "/file.bin")
		require.NoError(t, err, c)
		assert.Equal(t, "file.bin", got, c)
	}
}

func TestExtractPaths(t *testing.T) {
	got, err := ExtractPaths(CategoryMessage, []string{publicBase + "/messages/a", publicBase + "/messages/b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = ExtractPaths(CategoryMessage, []string{publicBase + "/messages/a", publicBase + "/avatars/b"})
	assert.ErrorIs(t, err, ErrSegmentMissing)

	got, err = ExtractPaths(CategoryMessage, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
