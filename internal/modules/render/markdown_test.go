package render

import (
	"reflect"
	"testing"
)

func TestSectionFromMarkdownHeading(t *testing.T) {
	md := "## The Rise of Automation\n\nFirst paragraph here.\n\nSecond paragraph\nwith a soft break."
	sec := SectionFromMarkdown("Fallback", md)

	if sec.Heading != "The Rise of Automation" {
		t.Fatalf("heading = %q", sec.Heading)
	}
	want := []string{
		"First paragraph here.",
		"Second paragraph with a soft break.",
	}
	if !reflect.DeepEqual(sec.Paragraphs, want) {
		t.Fatalf("paragraphs = %#v", sec.Paragraphs)
	}
}

func TestSectionFromMarkdownFallbackHeading(t *testing.T) {
	sec := SectionFromMarkdown("Chapter 3", "Just prose, no heading at all.")
	if sec.Heading != "Chapter 3" {
		t.Fatalf("heading = %q", sec.Heading)
	}
	if len(sec.Paragraphs) != 1 || sec.Paragraphs[0] != "Just prose, no heading at all." {
		t.Fatalf("paragraphs = %#v", sec.Paragraphs)
	}
}

func TestSectionFromMarkdownLists(t *testing.T) {
	md := "## Methods\n\n- alpha\n- beta with `code`\n\n1. first\n2. second"
	sec := SectionFromMarkdown("", md)

	want := []string{
		"• alpha",
		"• beta with code",
		"• first",
		"• second",
	}
	if !reflect.DeepEqual(sec.Paragraphs, want) {
		t.Fatalf("paragraphs = %#v", sec.Paragraphs)
	}
}

func TestSectionFromMarkdownCodeBlock(t *testing.T) {
	md := "## Setup\n\nInstall it:\n\n```sh\napt install thing\n```\n"
	sec := SectionFromMarkdown("", md)

	if len(sec.Paragraphs) != 2 {
		t.Fatalf("paragraphs = %#v", sec.Paragraphs)
	}
	if sec.Paragraphs[1] != "apt install thing" {
		t.Fatalf("code paragraph = %q", sec.Paragraphs[1])
	}
}

func TestSectionFromMarkdownSubHeadings(t *testing.T) {
	md := "## Main\n\nIntro.\n\n### Detail\n\nMore."
	sec := SectionFromMarkdown("", md)

	if sec.Heading != "Main" {
		t.Fatalf("heading = %q", sec.Heading)
	}
	want := []string{"Intro.", "Detail", "More."}
	if !reflect.DeepEqual(sec.Paragraphs, want) {
		t.Fatalf("paragraphs = %#v", sec.Paragraphs)
	}
}
