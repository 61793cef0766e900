package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Category names a kind of uploaded file. Its value is also the path segment
// that precedes the object path in a stored URL and the bucket the file
// lives in.
type Category string

const (
	CategoryAvatar    Category = "avatars"
	CategoryComment   Category = "comments"
	CategoryMessage   Category = "messages"
	CategoryStream    Category = "streams"
	CategoryClasswork Category = "classworks"
	CategoryNote      Category = "notes"
)

var ErrSegmentMissing = errors.New("url doesn't contain the expected storage segment")

// ExtractPath returns everything after the first "/<category>/" segment of
// rawURL, without query string or fragment. Callers must only pass URLs that
// belong to the category.
func ExtractPath(c Category, rawURL string) (string, error) {
	_, rest, found := strings.Cut(rawURL, "/"+string(c)+"/")
	if !found {
		return "", fmt.Errorf("%w: %q has no /%s/ segment", ErrSegmentMissing, rawURL, c)
	}

	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}

	if rest == "" {
		return "", fmt.Errorf("%w: %q has nothing after /%s/", ErrSegmentMissing, rawURL, c)
	}

	return rest, nil
}

// ExtractPaths runs ExtractPath over every URL and stops at the first failure.
func ExtractPaths(c Category, urls []string) ([]string, error) {
	paths := make([]string, 0, len(urls))
	for _, u := range urls {
		p, err := ExtractPath(c, u)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	return paths, nil
}

func AvatarPath(u string) (string, error)    { return ExtractPath(CategoryAvatar, u) }
func CommentPath(u string) (string, error)   { return ExtractPath(CategoryComment, u) }
func MessagePath(u string) (string, error)   { return ExtractPath(CategoryMessage, u) }
func StreamPath(u string) (string, error)    { return ExtractPath(CategoryStream, u) }
func ClassworkPath(u string) (string, error) { return ExtractPath(CategoryClasswork, u) }
func NotePath(u string) (string, error)      { return ExtractPath(CategoryNote, u) }
