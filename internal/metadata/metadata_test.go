package metadata

import (
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/parser"
)

var today = time.Date(2026, time.March, 7, 15, 4, 5, 0, time.UTC)

func normalize(t *testing.T, doc string) (string, error) {
	t.Helper()
	fm, _ := parser.Parse(doc)
	p, err := Normalize(fm, today)
	return p.Slug, err
}

func TestNormalize_MissingTitle(t *testing.T) {
	fm, _ := parser.Parse("---\ndate: 2024-01-01\n---\nbody")
	_, err := Normalize(fm, today)
	if !errors.Is(err, apperr.ErrMissingTitle) {
		t.Fatalf("err = %v, want ErrMissingTitle", err)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	fm, _ := parser.Parse("---\ntitle: Hello World\n---\nbody")
	p, err := Normalize(fm, today)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Slug != "hello-world" {
		t.Errorf("slug = %q, want hello-world", p.Slug)
	}
	if p.Date != "2026-03-07" {
		t.Errorf("date = %q, want today", p.Date)
	}
	if p.DateFormatted != "March 07, 2026" {
		t.Errorf("dateFormatted = %q", p.DateFormatted)
	}
	if p.Category != DefaultCategory {
		t.Errorf("category = %q", p.Category)
	}
	if p.Description != "" {
		t.Errorf("description = %q", p.Description)
	}
	if p.Tags == nil || len(p.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil", p.Tags)
	}
	if p.Pinned {
		t.Error("pinned should default to false")
	}
	if !p.Published {
		t.Error("published should default to true")
	}
}

func TestNormalize_Published(t *testing.T) {
	for raw, want := range map[string]bool{"false": false, "False": false, "no": false, "true": true, "TRUE": true} {
		fm, _ := parser.Parse("---\ntitle: x\npublished: " + raw + "\n---\n")
		p, _ := Normalize(fm, today)
		if p.Published != want {
			t.Errorf("published %q = %v, want %v", raw, p.Published, want)
		}
	}
}

func TestNormalize_AllFields(t *testing.T) {
	fm, _ := parser.Parse(`---
title: Getting Started with RAG Systems
date: 2024-09-15
description: A guide
category: RAG & LLMs
tags: [RAG, LLMs, Python, Vector Databases]
pinned: true
author: Sam
---
body`)
	p, err := Normalize(fm, today)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Slug != "getting-started-with-rag-systems" {
		t.Errorf("slug = %q", p.Slug)
	}
	if p.DateFormatted != "September 15, 2024" {
		t.Errorf("dateFormatted = %q", p.DateFormatted)
	}
	if !reflect.DeepEqual(p.Tags, []string{"RAG", "LLMs", "Python", "Vector Databases"}) {
		t.Errorf("tags = %#v", p.Tags)
	}
	if !p.Pinned {
		t.Error("pinned = false, want true")
	}
	if p.Category != "RAG & LLMs" || p.Author != "Sam" || p.Description != "A guide" {
		t.Errorf("unexpected fields: %+v", p)
	}
}

func TestNormalize_Pinned(t *testing.T) {
	cases := map[string]bool{
		"TRUE":  true,
		"True":  true,
		"true":  true,
		"yes":   false,
		"1":     false,
		"false": false,
		"":      false,
	}
	for raw, want := range cases {
		fm, _ := parser.Parse("---\ntitle: x\npinned: " + raw + "\n---\n")
		p, _ := Normalize(fm, today)
		if p.Pinned != want {
			t.Errorf("pinned %q = %v, want %v", raw, p.Pinned, want)
		}
	}
}

func TestNormalize_ScalarTagsIgnored(t *testing.T) {
	fm, _ := parser.Parse("---\ntitle: x\ntags: golang\n---\n")
	p, _ := Normalize(fm, today)
	if len(p.Tags) != 0 {
		t.Errorf("tags = %#v, want empty", p.Tags)
	}
}

func TestNormalize_ExplicitSlug(t *testing.T) {
	slug, err := normalize(t, "---\ntitle: Some Title\nslug: custom-slug\n---\n")
	if err != nil {
		t.Fatal(err)
	}
	if slug != "custom-slug" {
		t.Errorf("slug = %q", slug)
	}

	slug, _ = normalize(t, "---\ntitle: Some Title\nslug: Not Safe/Slug\n---\n")
	if slug != "not-safe-slug" {
		t.Errorf("unsafe explicit slug = %q, want not-safe-slug", slug)
	}

	slug, _ = normalize(t, "---\ntitle: Some Title\nslug:\n---\n")
	if slug != "some-title" {
		t.Errorf("empty explicit slug = %q, want title-derived", slug)
	}
}

func TestNormalize_EmptySlugFallback(t *testing.T) {
	a, _ := normalize(t, "---\ntitle: !!!\n---\n")
	b, _ := normalize(t, "---\ntitle: ???\n---\n")
	again, _ := normalize(t, "---\ntitle: !!!\n---\n")

	re := regexp.MustCompile(`^post-[0-9a-f]{12}$`)
	if !re.MatchString(a) {
		t.Errorf("fallback slug = %q", a)
	}
	if a == b {
		t.Errorf("different titles produced the same fallback slug %q", a)
	}
	if a != again {
		t.Errorf("fallback slug not stable: %q vs %q", a, again)
	}
}

func TestFormatDate_InvalidFallsBack(t *testing.T) {
	for _, in := range []string{"2024-13-40", "2024-02-30", "yesterday", "", "15/09/2024"} {
		if got := FormatDate(in); got != in {
			t.Errorf("FormatDate(%q) = %q, want raw input", in, got)
		}
	}
}

func TestFormatDate_UnpaddedParts(t *testing.T) {
	cases := map[string]string{
		"2024-9-5":   "September 05, 2024",
		"2024-09-5":  "September 05, 2024",
		"2024-12-31": "December 31, 2024",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Errorf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":                 "hello-world",
		"  --Go 1.25: What's New?-- ": "go-1-25-what-s-new",
		"Ünïcode Café":                "n-code-caf",
		"already-a-slug":              "already-a-slug",
		"***":                         "",
	}
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	for in, want := range cases {
		got := Slugify(in)
		if got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
		if got != "" && !valid.MatchString(got) {
			t.Errorf("Slugify(%q) = %q breaks the slug pattern", in, got)
		}
	}
}
