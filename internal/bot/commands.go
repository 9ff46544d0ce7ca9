package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reelvault/internal/apperr"
	"reelvault/internal/category"
	"reelvault/internal/domain"
	"reelvault/internal/library"
	"reelvault/internal/session"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

const helpText = `Send me a reel link or a short description and I'll title, summarize and file it.
Prefix your text with a hint like "recipe: ..." to pick the category.

/list [n] - show your reels (current filter and search)
/filter <category|All> - filter by category
/search <text> - search titles and summaries (no text clears)
/categories - list categories
/fav <id> - toggle favorite
/favorites - show favorites
/title <id> <text> - rename a reel
/summary <id> <text> - edit a summary
/delete <id> - move a reel to the trash
/trash [newest|oldest] - show the trash
/restore <id> - restore from the trash
/purge <id> - delete from the trash forever
/emptytrash - empty the trash
/forget yes - delete your whole library, trash included`

// Commands turns chat text into library operations and formats the replies.
// It does not depend on Telegram, so every command can be exercised directly.
type Commands struct {
	sessions *session.Manager
	now      func() time.Time
}

// NewCommands creates the command set over a session manager.
func NewCommands(sessions *session.Manager) *Commands {
	return &Commands{sessions: sessions, now: time.Now}
}

// Handle executes one chat message for userID and returns the reply text.
// Messages that are not commands are saved as reels.
func (c *Commands) Handle(ctx context.Context, userID, text string) string {
	store, err := c.sessions.Library(ctx, userID)
	if err != nil {
		return replyError(err)
	}

	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return c.save(ctx, store, text)
	}

	name, args, _ := strings.Cut(text, " ")
	// "/list@ReelVaultBot" -> "/list"
	name, _, _ = strings.Cut(strings.ToLower(name), "@")
	args = strings.TrimSpace(args)

	switch name {
	case "/start", "/help":
		return helpText
	case "/list":
		return c.list(store, args)
	case "/filter":
		return c.filter(store, args)
	case "/search":
		return c.search(store, args)
	case "/categories":
		return categoriesText()
	case "/fav":
		return c.withID(args, func(id string) string { return c.toggleFavorite(store, id) })
	case "/favorites":
		return c.favorites(store)
	case "/title", "/summary":
		return c.edit(store, name, args)
	case "/delete":
		return c.withID(args, func(id string) string { return c.delete(store, id) })
	case "/trash":
		return c.trash(store, args)
	case "/restore":
		return c.withID(args, func(id string) string { return c.restore(store, id) })
	case "/purge":
		return c.withID(args, func(id string) string { return c.purge(store, id) })
	case "/forget":
		return c.forget(ctx, userID, args)
	case "/emptytrash":
		snap := store.EmptyTrash()
		return fmt.Sprintf("Trash emptied. %d reels in your library.", len(snap.Active))
	default:
		return "Unknown command. Send /help for the list of commands."
	}
}

func (c *Commands) save(ctx context.Context, store *library.Store, text string) string {
	reel, err := store.SaveReel(ctx, text)
	if err != nil {
		return replyError(err)
	}
	return "Reel saved!\n\n" + formatReel(reel)
}

func (c *Commands) list(store *library.Store, args string) string {
	limit := defaultListLimit
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n <= 0 {
			return "Usage: /list [n]"
		}
		limit = min(n, maxListLimit)
	}

	snap := store.Snapshot()
	if len(snap.Visible) == 0 {
		if len(snap.Active) == 0 {
			return "Your library is empty. Send me a reel link or description to get started."
		}
		return viewHeader(snap) + "\n\nNo reels match."
	}
	return viewHeader(snap) + "\n\n" + formatReels(snap.Visible, limit)
}

func (c *Commands) filter(store *library.Store, args string) string {
	if args == "" {
		return "Usage: /filter <category|All>. Send /categories for the list."
	}
	cat, err := category.ParseFilter(args)
	if err != nil {
		return replyError(err)
	}
	snap, err := store.FilterByCategory(cat)
	if err != nil {
		return replyError(err)
	}
	return viewHeader(snap) + "\n\n" + formatReels(snap.Visible, defaultListLimit)
}

func (c *Commands) search(store *library.Store, args string) string {
	snap := store.SearchReels(args)
	if args == "" {
		return "Search cleared. " + viewHeader(snap)
	}
	if len(snap.Visible) == 0 {
		return viewHeader(snap) + "\n\nNo reels match."
	}
	return viewHeader(snap) + "\n\n" + formatReels(snap.Visible, defaultListLimit)
}

func (c *Commands) toggleFavorite(store *library.Store, reelID string) string {
	snap, err := store.ToggleFavorite(reelID)
	if err != nil {
		return replyError(err)
	}
	reel, _ := snap.Find(reelID)
	if reel.Favorite {
		return fmt.Sprintf("Added %q to favorites.", reel.Title)
	}
	return fmt.Sprintf("Removed %q from favorites.", reel.Title)
}

func (c *Commands) favorites(store *library.Store) string {
	favs := store.Snapshot().Favorites()
	if len(favs) == 0 {
		return "No favorites yet. Use /fav <id> to add one."
	}
	return fmt.Sprintf("Favorites (%d)\n\n%s", len(favs), formatReels(favs, maxListLimit))
}

func (c *Commands) edit(store *library.Store, name, args string) string {
	reelID, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	if reelID == "" || value == "" {
		return fmt.Sprintf("Usage: %s <id> <text>", name)
	}

	var patch library.Patch
	if name == "/title" {
		patch.Title = &value
	} else {
		patch.Summary = &value
	}
	snap, err := store.UpdateReel(reelID, patch)
	if err != nil {
		return replyError(err)
	}
	reel, _ := snap.Find(reelID)
	return "Reel updated.\n\n" + formatReel(reel)
}

func (c *Commands) delete(store *library.Store, reelID string) string {
	snap, err := store.DeleteReel(reelID)
	if err != nil {
		return replyError(err)
	}
	trashed, _ := snap.FindTrashed(reelID)
	return fmt.Sprintf("Moved %q to the trash. Restore it with /restore %s before %s.",
		trashed.Title, reelID, trashed.ExpiresAt.Format(domain.DateLayout))
}

func (c *Commands) trash(store *library.Store, args string) string {
	order, ok := library.ParseTrashOrder(args)
	if !ok {
		return "Usage: /trash [newest|oldest]"
	}
	items := store.Snapshot().TrashSorted(order)
	if len(items) == 0 {
		return "Trash is empty. Items you delete stay here for 30 days before being permanently removed."
	}

	now := c.now()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Trash (%d)\n", len(items))
	for _, t := range items {
		status := fmt.Sprintf("expires in %d days", t.DaysLeft(now))
		if t.Expired(now) {
			status = "past the 30-day window, purge it with /purge " + t.ID
		}
		fmt.Fprintf(&sb, "\n%s\nDeleted %s, %s\n",
			formatReel(t.SavedReel), t.DeletedAt.Format(domain.DateLayout), status)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (c *Commands) restore(store *library.Store, reelID string) string {
	snap, err := store.RestoreFromTrash(reelID)
	if err != nil {
		return replyError(err)
	}
	reel, _ := snap.Find(reelID)
	return fmt.Sprintf("Restored %q.", reel.Title)
}

func (c *Commands) purge(store *library.Store, reelID string) string {
	if _, err := store.PermanentlyDeleteReel(reelID); err != nil {
		return replyError(err)
	}
	return "Reel permanently deleted."
}

func (c *Commands) forget(ctx context.Context, userID, args string) string {
	if !strings.EqualFold(args, "yes") {
		return "This deletes every reel in your library and trash for good. Send /forget yes to confirm."
	}
	if err := c.sessions.Forget(ctx, userID); err != nil {
		return replyError(err)
	}
	return "Your library was deleted."
}

func (c *Commands) withID(args string, fn func(id string) string) string {
	reelID, _, _ := strings.Cut(args, " ")
	if reelID == "" {
		return "Please give the reel id, e.g. /fav reel-abc123."
	}
	return fn(reelID)
}

func viewHeader(snap library.Snapshot) string {
	header := fmt.Sprintf("Showing %d of %d reels (category: %s", len(snap.Visible), len(snap.Active), snap.Filter)
	if snap.Query != "" {
		header += fmt.Sprintf(", search: %q", snap.Query)
	}
	return header + ")"
}

func categoriesText() string {
	names := make([]string, 0, len(category.List())+1)
	names = append(names, string(category.All))
	for _, c := range category.List() {
		names = append(names, c.String())
	}
	return "Categories: " + strings.Join(names, ", ")
}

func formatReels(reels []domain.SavedReel, limit int) string {
	parts := make([]string, 0, min(len(reels), limit)+1)
	for i, reel := range reels {
		if i == limit {
			parts = append(parts, moreHint(len(reels)-limit, len(reels), limit))
			break
		}
		parts = append(parts, formatReel(reel))
	}
	return strings.Join(parts, "\n\n")
}

// moreHint points at the rest of a cut list. /list never shows more than
// maxListLimit reels, so past that only narrowing the view helps.
func moreHint(more, total, shown int) string {
	if shown >= maxListLimit {
		return fmt.Sprintf("...and %d more. Use /filter or /search to narrow the list.", more)
	}
	return fmt.Sprintf("...and %d more. Use /list %d to see more.", more, min(total, maxListLimit))
}

func formatReel(reel domain.SavedReel) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", reel.Category, reel.Title)
	if reel.Favorite {
		sb.WriteString(" ★")
	}
	fmt.Fprintf(&sb, "\n%s", reel.Summary)
	if reel.SourceURL != "" {
		fmt.Fprintf(&sb, "\n%s", reel.SourceURL)
	}
	fmt.Fprintf(&sb, "\nid: %s, saved %s", reel.ID, reel.Timestamp)
	return sb.String()
}

func replyError(err error) string {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return "No reel with that id. Use /list or /trash to find it."
	case errors.Is(err, session.ErrNoUser):
		return "I could not tell who you are."
	case errors.Is(err, apperr.ErrInvalidInput):
		msg := strings.TrimSuffix(err.Error(), ": "+apperr.ErrInvalidInput.Error())
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	case errors.Is(err, library.ErrProcessingFailed):
		return "Failed to process reel. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
