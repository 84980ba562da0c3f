package compose

import (
	"strings"
	"testing"
)

func TestCompose_AllTokens(t *testing.T) {
	tpl := "<title>{{TITLE}}</title><time>{{DATE}}</time><p>{{DESCRIPTION}}</p>" +
		"<em>{{CATEGORY}}</em><div>{{TAGS}}</div><main>{{CONTENT}}</main>"
	got := Compose(tpl, Fields{
		Title:       "Hello",
		Date:        "September 15, 2024",
		Description: "desc",
		Category:    "Go",
		Tags:        []string{"a", "b"},
		Content:     "<p>body</p>",
	}, Simultaneous)
	want := `<title>Hello</title><time>September 15, 2024</time><p>desc</p>` +
		`<em>Go</em><div><span class="tag">a</span><span class="tag">b</span></div><main><p>body</p></main>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestCompose_TokenRepeated(t *testing.T) {
	tpl := `<title>{{TITLE}}</title><meta content="{{TITLE}}"><h1>{{TITLE}}</h1>`
	for _, mode := range []Mode{Simultaneous, Sequential} {
		got := Compose(tpl, Fields{Title: "Twice"}, mode)
		if strings.Count(got, "Twice") != 3 || strings.Contains(got, TokenTitle) {
			t.Errorf("%s: got %q", mode, got)
		}
	}
}

func TestCompose_MissingTagsTokenUnaffected(t *testing.T) {
	tpl := "<h1>{{TITLE}}</h1>"
	got := Compose(tpl, Fields{Title: "T", Tags: []string{"x", "y"}}, Simultaneous)
	if got != "<h1>T</h1>" {
		t.Errorf("got %q", got)
	}
}

func TestCompose_NoTokens(t *testing.T) {
	tpl := "<html>static</html>"
	if got := Compose(tpl, Fields{Title: "x"}, Sequential); got != tpl {
		t.Errorf("got %q", got)
	}
}

func TestCompose_ValueContainingLaterToken(t *testing.T) {
	tpl := "{{TITLE}}|{{CONTENT}}"
	f := Fields{Title: "About {{CONTENT}}", Content: "body"}

	if got := Compose(tpl, f, Simultaneous); got != "About {{CONTENT}}|body" {
		t.Errorf("simultaneous = %q", got)
	}
	if got := Compose(tpl, f, Sequential); got != "About body|body" {
		t.Errorf("sequential = %q", got)
	}
}

func TestCompose_ValueContainingEarlierToken(t *testing.T) {
	tpl := "{{TITLE}}|{{CONTENT}}"
	f := Fields{Title: "T", Content: "literal {{TITLE}}"}
	if got := Compose(tpl, f, Sequential); got != "T|literal {{TITLE}}" {
		t.Errorf("sequential = %q", got)
	}
}

func TestTagsHTML_NoEscaping(t *testing.T) {
	if got := TagsHTML(nil); got != "" {
		t.Errorf("empty tags = %q", got)
	}
	got := TagsHTML([]string{"<b>bold</b>", "C&C"})
	want := `<span class="tag"><b>bold</b></span><span class="tag">C&C</span>`
	if got != want {
		t.Errorf("got %q", got)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"": Simultaneous, "Sequential": Sequential, " simultaneous ": Simultaneous}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("parallel"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
