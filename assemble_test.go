package unfmt

import (
	"encoding/json"
	"testing"
)

func TestMapInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3) // update must not duplicate the key

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("Expected keys [b a], got %v", keys)
	}
	if v, ok := m.Get("b"); !ok || v != 3 {
		t.Errorf("Expected b=3, got %v (ok=%v)", v, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Expected len 2, got %d", m.Len())
	}
}

func TestMapMarshalJSONOrder(t *testing.T) {
	m := NewMap()
	m.Set("z", "last?no,first")
	m.Set("a", 1)

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	expected := `{"z":"last?no,first","a":1}`
	if string(b) != expected {
		t.Errorf("Expected %s, got %s", expected, b)
	}
}

func TestRecordAttrs(t *testing.T) {
	r := NewRecord()
	r.SetAttr("name", "a")
	r.SetAttr("value", 1)

	attrs := r.Attrs()
	if len(attrs) != 2 || attrs[0] != "name" || attrs[1] != "value" {
		t.Errorf("Expected attrs [name value], got %v", attrs)
	}
	if v, ok := r.Attr("name"); !ok || v != "a" {
		t.Errorf("Expected name=a, got %v (ok=%v)", v, ok)
	}
	if _, ok := r.Attr("missing"); ok {
		t.Error("Expected missing attr to report !ok")
	}
}

func TestCloneIsDeep(t *testing.T) {
	inner := NewRecord()
	inner.SetAttr("x", nil)

	m := NewMap()
	m.Set("rec", inner)
	m.Set("seq", []any{nil, nil})

	clone := m.Clone()

	// Mutating the clone must not leak into the original.
	cv, _ := clone.Get("rec")
	cv.(*Record).SetAttr("x", 42)
	sv, _ := clone.Get("seq")
	sv.([]any)[0] = "boo"

	ov, _ := m.Get("rec")
	if x, _ := ov.(*Record).Attr("x"); x != nil {
		t.Errorf("Expected original record untouched, got x=%v", x)
	}
	os, _ := m.Get("seq")
	if os.([]any)[0] != nil {
		t.Errorf("Expected original slice untouched, got %v", os.([]any)[0])
	}
}

func TestFinishTemplateSequenceConversion(t *testing.T) {
	m := NewMap()
	m.Set("0", nil)
	m.Set("1", nil)
	if _, ok := finishTemplate(m).([]any); !ok {
		t.Error("Expected contiguous integer keys to convert to a sequence")
	}

	gap := NewMap()
	gap.Set("0", nil)
	gap.Set("2", nil)
	if _, ok := finishTemplate(gap).(*Map); !ok {
		t.Error("Expected gapped integer keys to stay a Map")
	}

	named := NewMap()
	named.Set("0", nil)
	named.Set("a", nil)
	if _, ok := finishTemplate(named).(*Map); !ok {
		t.Error("Expected mixed keys to stay a Map")
	}

	empty := NewMap()
	if _, ok := finishTemplate(empty).(*Map); !ok {
		t.Error("Expected the empty Map to stay a Map")
	}
}
