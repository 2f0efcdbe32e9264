package mapper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/studyhub/internal/model"
)

func TestGroupFAQPreservesOrderWithinCategory(t *testing.T) {
	items := []model.FAQItem{
		{ID: "1", Question: "a", Category: strPtr("visa"), Order: intPtr(1)},
		{ID: "2", Question: "b", Category: strPtr("fees"), Order: intPtr(2)},
		{ID: "3", Question: "c", Order: intPtr(3)},
		{ID: "4", Question: "d", Category: strPtr("visa"), Order: intPtr(4)},
		{ID: "5", Question: "e", Category: strPtr("fees"), Order: intPtr(5)},
	}

	groups := GroupFAQ(items)

	got := map[string][]string{}
	var order []string
	for _, g := range groups {
		order = append(order, g.Category)
		for _, item := range g.Items {
			got[g.Category] = append(got[g.Category], item.ID)
		}
	}

	if diff := cmp.Diff([]string{"visa", "fees", ""}, order); diff != "" {
		t.Fatalf("unexpected group order (-want +got):\n%s", diff)
	}
	want := map[string][]string{"visa": {"1", "4"}, "fees": {"2", "5"}, "": {"3"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected grouping (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"fees", "visa"}, SortedCategories(items)); diff != "" {
		t.Fatalf("unexpected categories (-want +got):\n%s", diff)
	}
}
