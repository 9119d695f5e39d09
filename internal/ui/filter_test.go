package ui

import (
	"testing"

	"spellcast/internal/spell"
)

func triggers(infos []spell.Info) []string {
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.Trigger
	}
	return out
}

func TestRankSpellsRecencyFirst(t *testing.T) {
	infos := []spell.Info{
		{Trigger: "lowercase"},
		{Trigger: "uppercase"},
		{Trigger: "uuid"},
	}
	got := triggers(rankSpells(infos, "", []string{"uuid", "lowercase"}))
	want := []string{"uuid", "lowercase", "uppercase"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRankSpellsFuzzyQuery(t *testing.T) {
	infos := []spell.Info{
		{Trigger: "uppercase", Description: "Uppercase the selection"},
		{Trigger: "uuid", Description: "Generate an identifier"},
	}
	got := rankSpells(infos, "upc", []string{"uuid"})
	if len(got) == 0 || got[0].Trigger != "uppercase" {
		t.Fatalf("query ignored recency wrongly, got %v", triggers(got))
	}
	if len(rankSpells(infos, "zzz", nil)) != 0 {
		t.Fatal("expected no matches")
	}
}

func TestRankSpellsMatchesDescription(t *testing.T) {
	infos := []spell.Info{
		{Trigger: "uuid", Description: "Generate an identifier"},
	}
	if got := rankSpells(infos, "identifier", nil); len(got) != 1 {
		t.Fatalf("description not matched, got %v", triggers(got))
	}
}
