package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"collabfeed/internal/cache"
	"collabfeed/internal/featureflags"
	"collabfeed/internal/middleware"
	"collabfeed/internal/models"
	"collabfeed/internal/notifications"
	"collabfeed/internal/observability"
	"collabfeed/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const excerptLen = 140

// Result captures one extraction run. Err is set when the side records could
// not be written; the post itself is unaffected.
type Result struct {
	Hashtags   []models.PostHashtag
	Mentions   []models.Mention
	Unresolved []string
	Err        error
}

// Extractor derives and persists the hashtag and mention records of a post.
type Extractor struct {
	users    repository.UserRepository
	entities repository.EntityRepository
	cache    *cache.Store
	notifier *notifications.Notifier
	flags    *featureflags.Manager
}

// NewExtractor wires an Extractor. store, notifier and flags may be nil.
func NewExtractor(
	users repository.UserRepository,
	entities repository.EntityRepository,
	store *cache.Store,
	notifier *notifications.Notifier,
	flags *featureflags.Manager,
) *Extractor {
	return &Extractor{
		users:    users,
		entities: entities,
		cache:    store,
		notifier: notifier,
		flags:    flags,
	}
}

// Extract scans the post content, resolves mentions and writes every side
// record in one transaction. Unresolvable mentions are dropped.
func (e *Extractor) Extract(ctx context.Context, post *models.Post) (*Result, error) {
	span, ctx := observability.NewSpan(ctx, "extract.Extract")
	defer span.End()

	var tags []repository.HashtagOccurrence
	var mentions []repository.MentionOccurrence
	res := &Result{}

	resolved := make(map[string]uint)
	for _, tok := range Scan(post.Content) {
		switch tok.Kind {
		case KindHashtag:
			tags = append(tags, repository.HashtagOccurrence{Name: tok.Text, Start: tok.Start, End: tok.End})
		case KindMention:
			key := strings.ToLower(tok.Text)
			userID, seen := resolved[key]
			if !seen {
				user, err := e.users.ResolveHandlePrefix(ctx, tok.Text)
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					// dropped below
				case err != nil:
					span.SetError(err)
					return nil, fmt.Errorf("resolve mention %q: %w", tok.Text, err)
				default:
					userID = user.ID
				}
				resolved[key] = userID
			}
			if userID == 0 {
				res.Unresolved = append(res.Unresolved, tok.Text)
				continue
			}
			mentions = append(mentions, repository.MentionOccurrence{UserID: userID, Start: tok.Start, End: tok.End})
		}
	}
	span.AddAttributes(
		attribute.Int("extract.hashtags", len(tags)),
		attribute.Int("extract.mentions", len(mentions)),
		attribute.Int("extract.unresolved", len(res.Unresolved)),
	)

	set, err := e.entities.SaveEntities(ctx, post.ID, post.AuthorID, tags, mentions)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("save entities: %w", err)
	}
	res.Hashtags = set.Hashtags
	res.Mentions = set.Mentions

	if len(res.Hashtags) > 0 {
		e.cache.InvalidatePrefix(ctx, cache.TrendingHashtagsPrefix)
	}
	e.notifyMentions(ctx, post, res.Mentions)
	return res, nil
}

// ExtractSafely runs Extract behind a failure boundary: errors and panics
// are logged, counted and returned in the Result instead of propagating.
func (e *Extractor) ExtractSafely(ctx context.Context, post *models.Post) (out Result) {
	defer func() {
		if r := recover(); r != nil {
			out = Result{Err: fmt.Errorf("extraction panic: %v", r)}
			observability.ExtractionOutcomes.WithLabelValues("panic").Inc()
			middleware.Logger.WarnContext(ctx, "Post entity extraction panicked",
				slog.Uint64("post_id", uint64(post.ID)),
				slog.String("error", out.Err.Error()),
			)
		}
	}()

	res, err := e.Extract(ctx, post)
	if err != nil {
		observability.ExtractionOutcomes.WithLabelValues("failed").Inc()
		middleware.Logger.WarnContext(ctx, "Post entity extraction failed",
			slog.Uint64("post_id", uint64(post.ID)),
			slog.String("error", err.Error()),
		)
		return Result{Err: err}
	}

	observability.ExtractionOutcomes.WithLabelValues("ok").Inc()
	observability.ExtractedEntities.WithLabelValues("hashtag").Add(float64(len(res.Hashtags)))
	observability.ExtractedEntities.WithLabelValues("mention").Add(float64(len(res.Mentions)))
	observability.UnresolvedMentions.Add(float64(len(res.Unresolved)))
	return *res
}

// notifyMentions publishes one event per distinct mentioned user. Self
// mentions are not announced. Publish failures are logged only.
func (e *Extractor) notifyMentions(ctx context.Context, post *models.Post, mentions []models.Mention) {
	if e.notifier == nil || len(mentions) == 0 {
		return
	}
	excerpt := Excerpt(post.Content, excerptLen)
	notified := make(map[uint]struct{}, len(mentions))
	for _, m := range mentions {
		if m.MentionedUserID == post.AuthorID {
			continue
		}
		if _, done := notified[m.MentionedUserID]; done {
			continue
		}
		notified[m.MentionedUserID] = struct{}{}
		if !e.flags.EnabledOr(featureflags.MentionNotifications, m.MentionedUserID, true) {
			continue
		}
		err := e.notifier.PublishMention(ctx, notifications.MentionEvent{
			PostID:          post.ID,
			MentionID:       m.ID,
			MentionedUserID: m.MentionedUserID,
			MentionerUserID: post.AuthorID,
			Excerpt:         excerpt,
			CreatedAt:       m.CreatedAt,
		})
		if err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to publish mention notification",
				slog.Uint64("post_id", uint64(post.ID)),
				slog.Uint64("user_id", uint64(m.MentionedUserID)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Excerpt truncates content to at most n characters, adding an ellipsis
// when it cuts.
func Excerpt(content string, n int) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	return Slice(content, 0, n) + "…"
}
