// Package validation checks request payloads at the API boundary.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"collabfeed/internal/models"
)

const (
	MaxPostContentLen    = 5000
	MaxCommentContentLen = 2000
	MaxMediaURLs         = 10
	MaxCollectionNameLen = 100
	MaxCollectionDescLen = 500
	MaxSearchQueryLen    = 100
)

// ValidatePostContent requires non-blank content within the length limit.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content is required")
	}
	if utf8.RuneCountInString(content) > MaxPostContentLen {
		return fmt.Errorf("content too long (max %d characters)", MaxPostContentLen)
	}
	return nil
}

// NormalizePostType defaults an empty type to update and rejects unknown ones.
func NormalizePostType(raw string) (models.PostType, error) {
	if raw == "" {
		return models.PostTypeUpdate, nil
	}
	t := models.PostType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("invalid post_type %q", raw)
	}
	return t, nil
}

// ValidateMediaURLs allows up to MaxMediaURLs absolute http(s) URLs.
func ValidateMediaURLs(urls []string) error {
	if len(urls) > MaxMediaURLs {
		return fmt.Errorf("too many media urls (max %d)", MaxMediaURLs)
	}
	for i, raw := range urls {
		u, err := url.ParseRequestURI(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("media_urls[%d] must be an absolute http(s) URL", i)
		}
	}
	return nil
}

// ValidateCommentContent requires non-blank content within the length limit.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("comment content is required")
	}
	if utf8.RuneCountInString(content) > MaxCommentContentLen {
		return fmt.Errorf("comment too long (max %d characters)", MaxCommentContentLen)
	}
	return nil
}

// ValidateCollectionName requires a non-blank name within the length limit.
func ValidateCollectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("collection name is required")
	}
	if utf8.RuneCountInString(name) > MaxCollectionNameLen {
		return fmt.Errorf("collection name too long (max %d characters)", MaxCollectionNameLen)
	}
	return nil
}

// ValidateCollectionDescription bounds the optional description.
func ValidateCollectionDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxCollectionDescLen {
		return fmt.Errorf("description too long (max %d characters)", MaxCollectionDescLen)
	}
	return nil
}

// ParseReactionType accepts one of the six reaction types.
func ParseReactionType(raw string) (models.ReactionType, error) {
	rt := models.ReactionType(strings.ToLower(strings.TrimSpace(raw)))
	if !rt.Valid() {
		return "", fmt.Errorf("invalid reaction type %q", raw)
	}
	return rt, nil
}

// ParseShareType accepts one of the share channels.
func ParseShareType(raw string) (models.ShareType, error) {
	st := models.ShareType(strings.ToLower(strings.TrimSpace(raw)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid share type %q", raw)
	}
	return st, nil
}

// ValidateSearchQuery requires a non-blank query of bounded length.
func ValidateSearchQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return errors.New("search query is required")
	}
	if utf8.RuneCountInString(q) > MaxSearchQueryLen {
		return fmt.Errorf("search query too long (max %d characters)", MaxSearchQueryLen)
	}
	return nil
}
