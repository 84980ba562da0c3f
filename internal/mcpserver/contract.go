package mcpserver

// PostFormatContract describes the Markdown post format that LLM consumers
// should follow when writing posts.
const PostFormatContract = `# Quire Post Format Contract

Every post is one Markdown file directly inside the posts directory.

## Structure

` + "```" + `markdown
---
title: Getting Started with RAG Systems   # REQUIRED - posts without it are skipped
date: 2024-09-15                          # OPTIONAL - YYYY-MM-DD, defaults to the build date
description: One-line summary             # OPTIONAL
category: RAG & LLMs                      # OPTIONAL - defaults to Uncategorized
tags: [RAG, LLMs, "Vector Databases"]     # OPTIONAL - bracketed, comma separated
pinned: true                              # OPTIONAL - only "true" (any case) pins
published: false                          # OPTIONAL - anything but "true" hides the post from the preview API
slug: custom-slug                         # OPTIONAL - defaults to the slugified title
---

Body text in Markdown.
` + "```" + `

## Rules

1. **The header comes first.** The file must start with ` + "`" + `---` + "`" + ` on the first
   line and the header ends at the next ` + "`" + `---` + "`" + `. Without both, the whole file
   is treated as body and the post has no title.
2. **One ` + "`" + `key: value` + "`" + ` per line.** Only the first colon separates key from value,
   so values may contain colons. Lines without a colon are ignored.
3. **No YAML.** Nested maps, multi-line values and YAML lists with ` + "`" + `-` + "`" + ` items are
   not understood. Lists are written ` + "`" + `[a, b, c]` + "`" + ` on one line; items cannot
   contain commas.
4. **Quotes** around a value or list item are removed once when both ends match.
5. **The slug** is the title lowercased, with every run of characters outside
   ` + "`" + `a-z0-9` + "`" + ` replaced by one hyphen. The page is written to ` + "`" + `<slug>.html` + "`" + `.
   Two posts with the same slug overwrite each other.
6. **Dates** that are not valid ` + "`" + `YYYY-MM-DD` + "`" + ` calendar dates are shown as written and
   sort as plain strings.
7. **Body Markdown** supports tables, fenced code blocks with syntax highlighting and
   hard line breaks. Raw HTML is passed through.

## Example

` + "```" + `markdown
---
title: Weekly notes on Go tooling
date: 2025-01-20
category: Go
tags: [go, tooling]
---

## What changed

- ` + "`" + `go vet` + "`" + ` caught a loop variable bug.
` + "```" + `
`
