package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/daniilsolovey/newsfeed/internal/client"
	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/view"
)

type WatchOptions struct {
	Server string
	Search string
	Tags   []string
	Page   int
	Once   bool
}

// NewWatchCommand renders the live feed of a server and re-renders it on every change.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the feed of a newsfeed server",
		Long: `Connect to the server's real-time channel, load the current stories and tags,
and print the filtered page every time the feed changes.

Tags may be given by id or by name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lg := newLogger(cmd.ErrOrStderr(), rootOpts.Debug)
			c := client.New(client.WebSocketURL(opts.Server),
				client.NewAPIFetcher(opts.Server, &http.Client{Timeout: 10 * time.Second}), lg)
			return runWatch(cmd.Context(), c, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Server, "server", "http://localhost:3000", "server base URL")
	cmd.Flags().StringVar(&opts.Search, "search", "", "only stories whose title or content contains this text")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "only stories with at least one of these tags")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page to show")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "exit after the first synced render")

	return cmd
}

type watcher struct {
	opts     *WatchOptions
	out      io.Writer
	state    *view.State
	resolved bool
	stop     context.CancelFunc
}

func runWatch(ctx context.Context, c *client.Client, opts *WatchOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := &watcher{opts: opts, out: out, state: view.NewState(), stop: cancel}
	w.state.SetSearch(opts.Search)

	c.Subscribe(w.observe)
	return c.Run(ctx)
}

func (w *watcher) observe(state client.State, snap client.Snapshot) {
	if state != client.StateSynced {
		fmt.Fprintf(w.out, "[%s]\n", state)
		return
	}

	if !w.resolved {
		w.selectTags(snap.Tags)
		w.state.SetPage(w.opts.Page)
		w.resolved = true
	}

	w.state.Prune(snap.Stories, snap.Tags)

	fmt.Fprintf(w.out, "[%s]\n", state)
	if err := view.Render(w.out, w.state.Compute(snap.Stories, snap.Tags)); err != nil {
		w.stop()
		return
	}

	if w.opts.Once {
		w.stop()
	}
}

func (w *watcher) selectTags(tags []domain.Tag) {
	for _, want := range w.opts.Tags {
		for _, t := range tags {
			if t.ID == want || strings.EqualFold(t.Name, want) {
				if !w.state.IsSelected(t.ID) {
					w.state.ToggleTag(t.ID)
				}
				break
			}
		}
	}
}
