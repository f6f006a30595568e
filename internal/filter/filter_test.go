package filter

import (
	"testing"

	"github.com/sadopc/dayboard/internal/store"
	"github.com/stretchr/testify/assert"
)

func titles[T any](items []T, title func(T) string) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, title(it))
	}
	return out
}

func taskTitle(t store.Task) string         { return t.Title }
func recTitle(r store.RecurringTask) string { return r.Title }

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		name        string
		title, desc string
		query       string
		want        bool
	}{
		{"empty query", "Anything", "", "", true},
		{"title case-insensitive", "Estudar Go", "", "go", true},
		{"description match", "Ler", "Capítulo sobre CANAIS", "canais", true},
		{"no match", "Ler", "livro", "correr", false},
		{"substring", "Relatório", "", "lat", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesQuery(tt.title, tt.desc, tt.query))
		})
	}
}

func TestTasksByTab(t *testing.T) {
	tasks := []store.Task{
		{Title: "Ler livro", Category: "Estudos", Completed: true},
		{Title: "Lavar louça", Category: "Casa"},
		{Title: "Ler artigo", Category: "Estudos"},
		{Title: "Pagar contas"},
	}

	tests := []struct {
		tab   string
		query string
		want  []string
	}{
		{TabAll, "", []string{"Ler livro", "Lavar louça", "Ler artigo", "Pagar contas"}},
		{TabAll, "ler", []string{"Ler livro", "Ler artigo"}},
		{TabCompleted, "", []string{"Ler livro"}},
		{TabPending, "ler", []string{"Ler artigo"}},
		{CategoryTab("Estudos"), "", []string{"Ler livro", "Ler artigo"}},
		{CategoryTab("Casa"), "ler", []string{}},
		{CategoryTab(store.NoCategory), "", []string{"Pagar contas"}},
		{"bogus", "", []string{"Ler livro", "Lavar louça", "Ler artigo", "Pagar contas"}},
	}
	for _, tt := range tests {
		t.Run(tt.tab+"/"+tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Tasks(tasks, tt.query, tt.tab), taskTitle))
		})
	}
}

func TestRecurringExcludesInactiveFirst(t *testing.T) {
	list := []store.RecurringTask{
		{ID: "1", Title: "Meditar", Category: "Saúde", Active: true},
		{ID: "2", Title: "Meditar à noite", Category: "Saúde", Active: false},
		{ID: "3", Title: "Correr", Category: "Saúde", Active: true},
	}
	doneToday := func(id string) bool { return id == "3" }

	assert.Equal(t, []string{"Meditar", "Correr"}, titles(Recurring(list, "", TabAll, doneToday), recTitle))
	assert.Equal(t, []string{"Meditar"}, titles(Recurring(list, "meditar", TabAll, doneToday), recTitle))
	assert.Equal(t, []string{"Correr"}, titles(Recurring(list, "", TabCompleted, doneToday), recTitle))
	assert.Equal(t, []string{"Meditar"}, titles(Recurring(list, "", TabPending, doneToday), recTitle))
	assert.Equal(t, []string{"Meditar", "Correr"}, titles(Recurring(list, "", CategoryTab("Saúde"), nil), recTitle))
}

func TestTabsAndLabels(t *testing.T) {
	tabs := Tabs([]string{"Estudos"})
	assert.Equal(t, []string{TabAll, TabPending, TabCompleted, "category-Estudos"}, tabs)
	assert.Equal(t, "Estudos", TabLabel(tabs[3]))
	assert.Equal(t, TabAll, TabLabel(TabAll))
}
