package hints

// ordinalLexicon maps folded replies to a disambiguation list onto 1-based
// positions. Keys are in textutil.CleanTitle form.
var ordinalLexicon = buildOrdinalLexicon()

func buildOrdinalLexicon() map[string]int {
	type entry struct {
		index    int
		english  []string
		spanish  []string
		numerals []string
	}
	entries := []entry{
		{1, []string{"first"}, []string{"primero", "primera", "primer"}, []string{"1", "1st", "1o", "1a", "1ro", "1ra"}},
		{2, []string{"second"}, []string{"segundo", "segunda"}, []string{"2", "2nd", "2o", "2a", "2do", "2da"}},
		{3, []string{"third"}, []string{"tercero", "tercera", "tercer"}, []string{"3", "3rd", "3o", "3a", "3ro", "3ra"}},
		{4, []string{"fourth"}, []string{"cuarto", "cuarta"}, []string{"4", "4th", "4o", "4a", "4to", "4ta"}},
		{5, []string{"fifth"}, []string{"quinto", "quinta"}, []string{"5", "5th", "5o", "5a", "5to", "5ta"}},
	}
	cardinalsEN := map[int]string{1: "one", 2: "two", 3: "three", 4: "four", 5: "five"}
	cardinalsES := map[int]string{1: "uno", 2: "dos", 3: "tres", 4: "cuatro", 5: "cinco"}

	lexicon := make(map[string]int, len(entries)*24)
	add := func(key string, index int) {
		if _, exists := lexicon[key]; !exists {
			lexicon[key] = index
		}
	}
	for _, e := range entries {
		for _, word := range e.english {
			add(word, e.index)
			add("the "+word, e.index)
			add(word+" one", e.index)
			add("the "+word+" one", e.index)
			add(word+" option", e.index)
			add("the "+word+" option", e.index)
		}
		for _, word := range e.spanish {
			add(word, e.index)
			add("el "+word, e.index)
			add("la "+word, e.index)
			add("la "+word+" opcion", e.index)
			add(word+" opcion", e.index)
		}
		for _, numeral := range e.numerals {
			add(numeral, e.index)
		}
		number := e.numerals[0]
		for _, prefix := range []string{"option", "number", "opcion", "la opcion", "numero", "el numero"} {
			add(prefix+" "+number, e.index)
		}
		add("option "+cardinalsEN[e.index], e.index)
		add("number "+cardinalsEN[e.index], e.index)
		add("opcion "+cardinalsES[e.index], e.index)
		add("la opcion "+cardinalsES[e.index], e.index)
		add("el "+cardinalsES[e.index], e.index)
		add("la "+cardinalsES[e.index], e.index)
	}
	return lexicon
}
