package ui

import (
	"github.com/sahilm/fuzzy"

	"spellcast/internal/spell"
)

// infoSource adapts the catalog snapshot to the fuzzy matcher. Matching
// runs over the trigger and the description together so either can hit.
type infoSource []spell.Info

func (s infoSource) Len() int { return len(s) }

func (s infoSource) String(i int) string {
	return s[i].Trigger + " " + s[i].Description
}

// rankSpells orders the palette rows. With a query the fuzzy score wins;
// without one the most recently used triggers float to the top and the
// rest keep catalog order.
func rankSpells(infos []spell.Info, query string, recent []string) []spell.Info {
	if query != "" {
		matches := fuzzy.FindFrom(query, infoSource(infos))
		out := make([]spell.Info, 0, len(matches))
		for _, m := range matches {
			out = append(out, infos[m.Index])
		}
		return out
	}

	pos := make(map[string]int, len(recent))
	for i, r := range recent {
		pos[r] = i
	}
	front := make([]spell.Info, 0, len(infos))
	rest := make([]spell.Info, 0, len(infos))
	for _, info := range infos {
		if _, ok := pos[info.Trigger]; ok {
			front = append(front, info)
		} else {
			rest = append(rest, info)
		}
	}
	for i := 1; i < len(front); i++ {
		for j := i; j > 0 && pos[front[j].Trigger] < pos[front[j-1].Trigger]; j-- {
			front[j], front[j-1] = front[j-1], front[j]
		}
	}
	return append(front, rest...)
}
