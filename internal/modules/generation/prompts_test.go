package generation

import (
	"strings"
	"testing"
)

func TestParseOutlineValid(t *testing.T) {
	raw := `{"title":"Deep Work in Practice","chapters":["One","Two","Three","Four","Five"]}`
	out := parseOutline(raw, "a book about focus", 5)

	if out.Title != "Deep Work in Practice" {
		t.Fatalf("title = %q", out.Title)
	}
	if len(out.Chapters) != 5 || out.Chapters[2] != "Three" {
		t.Fatalf("chapters = %#v", out.Chapters)
	}
}

func TestParseOutlineFenced(t *testing.T) {
	raw := "```json\n{\"title\":\"T\",\"chapters\":[\"A\",\"B\"]}\n```"
	out := parseOutline(raw, "topic", 2)
	if out.Title != "T" || len(out.Chapters) != 2 {
		t.Fatalf("out = %#v", out)
	}
}

func TestParseOutlineGarbageFallsBack(t *testing.T) {
	out := parseOutline("I will not produce JSON today.", "A history of clocks", 5)

	if out.Title != "A history of clocks" {
		t.Fatalf("title = %q", out.Title)
	}
	if len(out.Chapters) != 5 {
		t.Fatalf("got %d chapters", len(out.Chapters))
	}
	if out.Chapters[0] != "Chapter 1" || out.Chapters[4] != "Chapter 5" {
		t.Fatalf("chapters = %#v", out.Chapters)
	}
}

func TestParseOutlinePadsAndTruncates(t *testing.T) {
	short := parseOutline(`{"title":"T","chapters":["A","B"]}`, "topic", 5)
	if len(short.Chapters) != 5 || short.Chapters[4] != "Chapter 5" {
		t.Fatalf("padded = %#v", short.Chapters)
	}

	long := parseOutline(`{"title":"T","chapters":["A","B","C","D"]}`, "topic", 2)
	if len(long.Chapters) != 2 || long.Chapters[1] != "B" {
		t.Fatalf("truncated = %#v", long.Chapters)
	}
}

func TestParseOutlineDropsBlankTitles(t *testing.T) {
	out := parseOutline(`{"title":"T","chapters":["A","  ","B"]}`, "topic", 3)
	if out.Chapters[0] != "A" || out.Chapters[1] != "B" || out.Chapters[2] != "Chapter 3" {
		t.Fatalf("chapters = %#v", out.Chapters)
	}
}

func TestBuildChapterPrompt(t *testing.T) {
	chapters := []string{"Origins", "Growth", "Decline"}
	sys, prompt := buildChapterPrompt("", "Empires", chapters, "", "topic text", 2, 3)

	if !strings.Contains(sys, "Write one full chapter") {
		t.Fatalf("unexpected system prompt: %q", sys)
	}
	if !strings.Contains(prompt, "CHAPTER 2 of 3: Growth") {
		t.Fatalf("prompt missing chapter line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "TARGET_LANGUAGE: English") {
		t.Fatalf("prompt missing default language:\n%s", prompt)
	}
	if !strings.Contains(prompt, "(nothing yet, this is the first chapter)") {
		t.Fatalf("prompt missing summary placeholder:\n%s", prompt)
	}
}

func TestBuildSectionPromptUsesRollingSummary(t *testing.T) {
	_, prompt := buildSectionPrompt("German", "Paper", researchSections, "covered so far", "topic", 3, 7)
	if !strings.Contains(prompt, "SECTION 3 of 7: Literature Review") {
		t.Fatalf("prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "PREVIOUS_SUMMARY: covered so far") {
		t.Fatalf("prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "TARGET_LANGUAGE: German") {
		t.Fatalf("prompt:\n%s", prompt)
	}
}

func TestResearchPlanShape(t *testing.T) {
	p := plans["research_long"]
	if !p.Research || p.Units != 7 {
		t.Fatalf("plan = %#v", p)
	}
	if researchSections[0] != "Abstract" || researchSections[6] != "Conclusion and References" {
		t.Fatalf("sections = %#v", researchSections)
	}
}
