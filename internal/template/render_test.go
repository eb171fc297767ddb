package template

import "testing"

func TestRenderRollup(t *testing.T) {
	data := RollupData{Date: "2026-03-15", Count: 3, Username: "daybook"}

	if got := RenderRollup(DefaultRollupTitle, data); got != "End of day: 2026-03-15" {
		t.Fatalf("title = %q", got)
	}
	if got := RenderRollup(DefaultRollupBody, data); got != "Todos collected for 2026-03-15 (3 items)." {
		t.Fatalf("body = %q", got)
	}
	if got := RenderRollup("{{username}} x {{unknown}}", data); got != "daybook x {{unknown}}" {
		t.Fatalf("unknown placeholder must pass through, got %q", got)
	}
}
