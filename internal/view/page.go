package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/feed"
)

const dateLayout = "January 2, 2006 03:04 PM"

type Item struct {
	Story domain.Story
	// Tags are the story's tags that still exist, in the story's order.
	Tags     []domain.Tag
	Expanded bool
	// Body is every paragraph when expanded, otherwise a single preview line.
	Body []string
}

type Page struct {
	Number       int
	TotalPages   int
	TotalItems   int
	Items        []Item
	Search       string
	SelectedTags []domain.Tag
	MirrorEmpty  bool
}

// Compute filters, sorts and paginates the mirror.
func (s *State) Compute(stories []domain.Story, tags []domain.Tag) Page {
	byID := make(map[string]domain.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	q := s.Query()
	filtered := feed.Apply(stories, q)

	total := len(filtered)
	pages := max((total+PageSize-1)/PageSize, 1)
	number := min(max(s.page, 1), pages)

	start := (number - 1) * PageSize
	end := min(start+PageSize, total)

	p := Page{
		Number:       number,
		TotalPages:   pages,
		TotalItems:   total,
		Items:        make([]Item, 0, end-start),
		Search:       q.Search,
		SelectedTags: resolveTags(q.TagIDs, byID),
		MirrorEmpty:  len(stories) == 0,
	}

	for _, st := range filtered[start:end] {
		item := Item{
			Story:    st,
			Tags:     resolveTags(st.Tags, byID),
			Expanded: s.IsExpanded(st.ID),
		}
		if item.Expanded {
			item.Body = st.Paragraphs()
		} else {
			item.Body = []string{Preview(strings.Join(st.Paragraphs(), " "))}
		}
		p.Items = append(p.Items, item)
	}

	return p
}

// resolveTags skips ids without a matching tag.
func resolveTags(ids []string, byID map[string]domain.Tag) []domain.Tag {
	out := make([]domain.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Render writes p as plain text.
func Render(w io.Writer, p Page) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Page %d of %d, %d stories\n", p.Number, p.TotalPages, p.TotalItems)
	if p.Search != "" {
		fmt.Fprintf(&b, "Search: %q\n", p.Search)
	}
	if len(p.SelectedTags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(tagNames(p.SelectedTags), ", "))
	}

	if len(p.Items) == 0 {
		if p.MirrorEmpty {
			b.WriteString("\nNo stories yet\n")
		} else {
			b.WriteString("\nNo stories match your filters\n")
		}
	}

	for _, it := range p.Items {
		b.WriteString("\n")
		b.WriteString(it.Story.Title + "\n")
		fmt.Fprintf(&b, "  %s by %s\n", it.Story.CreatedAt.UTC().Format(dateLayout), it.Story.Author)
		if len(it.Tags) > 0 {
			fmt.Fprintf(&b, "  [%s]\n", strings.Join(tagNames(it.Tags), "] ["))
		}
		for _, para := range it.Body {
			b.WriteString("  " + para + "\n")
		}
		if it.Story.Website != "" {
			label := it.Story.WebsiteButtonText
			if label == "" {
				label = domain.DefaultWebsiteButtonText
			}
			fmt.Fprintf(&b, "  %s: %s\n", label, it.Story.Website)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func tagNames(tags []domain.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}
