package result

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/kailas-cloud/osintinfo/internal/domain/payload"
)

func TestNormalizeValue_Primitives(t *testing.T) {
	if v := NormalizeValue(nil, nil); !v.IsNull() {
		t.Errorf("nil → %s, want null", v.Kind())
	}
	if v := NormalizeValue("  bob  ", nil); v.Kind() != KindString || v.Text() != "bob" {
		t.Errorf("string → %s %q, want trimmed string", v.Kind(), v.Text())
	}
	if v := NormalizeValue(true, nil); v.Kind() != KindBool || !v.Bool() {
		t.Errorf("bool → %s", v.Kind())
	}
	if v := NormalizeValue(int64(42), nil); v.Kind() != KindNumber || v.Num() != 42 {
		t.Errorf("int64 → %s %v", v.Kind(), v.Num())
	}
	if v := NormalizeValue(json.Number("3.5"), nil); v.Kind() != KindNumber || v.Num() != 3.5 {
		t.Errorf("json.Number → %s %v", v.Kind(), v.Num())
	}
	if v := NormalizeValue((*payload.Object)(nil), nil); !v.IsNull() {
		t.Errorf("nil object → %s, want null", v.Kind())
	}
}

func TestNormalizeValue_FallbackStringifies(t *testing.T) {
	type point struct{ X, Y int }
	v := NormalizeValue(point{1, 2}, nil)
	if v.Kind() != KindString || v.Text() != "{1 2}" {
		t.Errorf("struct → %s %q, want string %q", v.Kind(), v.Text(), "{1 2}")
	}
}

func TestNormalizeValue_DropsNoiseAndEmptyMembers(t *testing.T) {
	obj := payload.NewObject().
		Set("city", " Paris ").
		Set("Search_Time", "0.2s").
		Set("price", 1).
		Set("phone", nil).
		Set("tags", []any{}).
		Set("meta", payload.NewObject().Set("x", "n/a")).
		Set("", "blank key")

	v := NormalizeValue(obj, NewSeen())
	if v.Kind() != KindMapping {
		t.Fatalf("kind = %s, want mapping", v.Kind())
	}
	entries := v.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1: %+v", len(entries), entries)
	}
	if entries[0].Key != "city" || entries[0].Value.Text() != "Paris" {
		t.Errorf("entry = %+v, want city=Paris", entries[0])
	}
}

func TestNormalizeValue_KeepsOriginalKeys(t *testing.T) {
	obj := payload.NewObject().Set(" Full_Name ", "Bob")
	v := NormalizeValue(obj, nil)
	if _, ok := v.Lookup(" Full_Name "); !ok {
		t.Errorf("Lookup original key failed: %+v", v.Entries())
	}
}

func TestNormalizeValue_ListsKeepNullElements(t *testing.T) {
	v := NormalizeValue([]any{nil, "a"}, nil)
	if v.Kind() != KindList || len(v.Items()) != 2 {
		t.Fatalf("list = %s len %d, want list len 2", v.Kind(), len(v.Items()))
	}
	if !v.Items()[0].IsNull() {
		t.Errorf("first item = %s, want null", v.Items()[0].Kind())
	}
}

func TestNormalizeValue_SelfReference(t *testing.T) {
	a := payload.NewObject().Set("name", "loop")
	a.Set("self", a)

	v := NormalizeValue(a, NewSeen())
	self, ok := v.Lookup("self")
	if !ok {
		t.Fatal("self member missing")
	}
	if self.Kind() != KindString || self.Text() != CircularReference {
		t.Errorf("self = %s %q, want %q", self.Kind(), self.Text(), CircularReference)
	}
	if name, _ := v.Lookup("name"); name.Text() != "loop" {
		t.Errorf("name = %q, want loop", name.Text())
	}
}

func TestNormalizeValue_CycleThroughList(t *testing.T) {
	a := payload.NewObject().Set("id", "a")
	a.Set("children", []any{a, "leaf"})

	v := NormalizeValue(a, nil)
	children, _ := v.Lookup("children")
	items := children.Items()
	if len(items) != 2 {
		t.Fatalf("children = %d, want 2", len(items))
	}
	if items[0].Text() != CircularReference {
		t.Errorf("children[0] = %q, want %q", items[0].Text(), CircularReference)
	}
}

func TestNormalizeValue_MapCycle(t *testing.T) {
	m := map[string]any{"name": "m"}
	m["self"] = m

	v := NormalizeValue(m, nil)
	self, _ := v.Lookup("self")
	if self.Text() != CircularReference {
		t.Errorf("self = %s %q, want %q", self.Kind(), self.Text(), CircularReference)
	}
}

// The same object reached through two siblings is not a cycle.
func TestNormalizeValue_SharedSiblingIsNotCycle(t *testing.T) {
	shared := payload.NewObject().Set("city", "Oslo")
	root := payload.NewObject().Set("home", shared).Set("work", shared)

	v := NormalizeValue(root, nil)
	for _, key := range []string{"home", "work"} {
		sub, ok := v.Lookup(key)
		if !ok || sub.Kind() != KindMapping {
			t.Fatalf("%s = %s, want mapping", key, sub.Kind())
		}
		if city, _ := sub.Lookup("city"); city.Text() != "Oslo" {
			t.Errorf("%s.city = %q, want Oslo", key, city.Text())
		}
	}
}

func TestNormalizeValue_SortsGoMapKeys(t *testing.T) {
	v := NormalizeValue(map[string]string{"b": "2", "a": "1"}, nil)
	entries := v.Entries()
	if len(entries) != 2 || entries[0].Key != "a" || entries[1].Key != "b" {
		t.Errorf("entries = %+v, want a then b", entries)
	}
}

func TestHasMeaningfulValue(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null(), false},
		{"empty string", String(""), false},
		{"n/a", String("N/A"), false},
		{"na", String("na"), false},
		{"none", String(" None "), false},
		{"null text", String("null"), false},
		{"undefined", String("undefined"), false},
		{"unknown", String("Unknown"), false},
		{"no data", String("No Data"), false},
		{"sentinel", String(CircularReference), false},
		{"text", String("bob"), true},
		{"zero", Number(0), true},
		{"nan", Number(math.NaN()), false},
		{"false", Bool(false), true},
		{"empty list", List(), false},
		{"list of blanks", List(String("n/a"), Null()), false},
		{"list with text", List(Null(), String("x")), true},
		{"empty mapping", Mapping(), false},
		{"nested mapping", Mapping(Entry{Key: "a", Value: Mapping(Entry{Key: "b", Value: Number(1)})}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasMeaningfulValue(tt.v); got != tt.want {
				t.Errorf("HasMeaningfulValue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNoiseKey(t *testing.T) {
	noise := []string{"num of results", "Num_Of_Results", "num-results", "NumResults", "price", " PRICE ", "search_time", "Search-Time", "", "  "}
	for _, k := range noise {
		if !IsNoiseKey(k) {
			t.Errorf("IsNoiseKey(%q) = false, want true", k)
		}
	}
	for _, k := range []string{"name", "prices", "time", "results"} {
		if IsNoiseKey(k) {
			t.Errorf("IsNoiseKey(%q) = true, want false", k)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  Leak__Name\t-x "); got != "leak name x" {
		t.Errorf("NormalizeKey = %q, want %q", got, "leak name x")
	}
}
