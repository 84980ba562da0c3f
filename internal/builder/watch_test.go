package builder

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type buildCounter struct {
	mu      sync.Mutex
	reports []*Report
}

func (c *buildCounter) callback(r *Report, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.reports = append(c.reports, r)
	}
}

func (c *buildCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reports)
}

func (c *buildCounter) last() *Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.reports) == 0 {
		return nil
	}
	return c.reports[len(c.reports)-1]
}

func startWatch(t *testing.T, site Site, c *buildCounter) {
	t.Helper()
	b := newTestBuilder(site)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go Watch(ctx, site, 50*time.Millisecond, quietLogger(), b.Build, c.callback)
	time.Sleep(100 * time.Millisecond)
}

func TestWatch_NewPostRebuilds(t *testing.T) {
	site := testSite(t, nil)
	var c buildCounter
	startWatch(t, site, &c)

	_ = os.WriteFile(filepath.Join(site.PostsDir, "fresh.md"), []byte("---\ntitle: Fresh\n---\nhi"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		r := c.last()
		return r != nil && len(r.Posts) == 1
	}, "new post did not trigger a rebuild")

	if _, err := os.Stat(filepath.Join(site.OutputDir, "fresh.html")); err != nil {
		t.Errorf("fresh.html missing: %v", err)
	}
}

func TestWatch_TemplateChangeRebuilds(t *testing.T) {
	site := testSite(t, map[string]string{"a.md": "---\ntitle: A\n---\n"})
	var c buildCounter
	startWatch(t, site, &c)

	_ = os.WriteFile(site.TemplateFile, []byte("<b>{{TITLE}}</b>"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		data, err := os.ReadFile(filepath.Join(site.OutputDir, "a.html"))
		return err == nil && string(data) == "<b>A</b>"
	}, "template change did not trigger a rebuild")
}

func TestWatch_BurstDebounced(t *testing.T) {
	site := testSite(t, nil)
	var c buildCounter
	startWatch(t, site, &c)

	for i := 0; i < 5; i++ {
		name := filepath.Join(site.PostsDir, string(rune('a'+i))+".md")
		_ = os.WriteFile(name, []byte("---\ntitle: T\n---\n"), 0o644)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return c.count() >= 1
	}, "burst did not trigger a rebuild")
	time.Sleep(300 * time.Millisecond)
	if n := c.count(); n > 2 {
		t.Errorf("burst of 5 writes caused %d rebuilds", n)
	}
}

func TestRelevant(t *testing.T) {
	posts := "/site/_posts"
	tpl := "/site/blog-template.html"
	cases := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"/site/_posts/a.md", fsnotify.Write, true},
		{"/site/_posts/a.md", fsnotify.Remove, true},
		{"/site/_posts/a.md", fsnotify.Chmod, false},
		{"/site/_posts/posts.json", fsnotify.Write, false},
		{"/site/_posts/nested/a.md", fsnotify.Create, false},
		{"/site/blog-template.html", fsnotify.Rename, true},
		{"/site/blog/a.html", fsnotify.Write, false},
	}
	for _, tc := range cases {
		if got := relevant(fsnotify.Event{Name: tc.name, Op: tc.op}, posts, tpl); got != tc.want {
			t.Errorf("relevant(%s %s) = %v, want %v", tc.op, tc.name, got, tc.want)
		}
	}
}
