package delta

import "testing"

func TestCompose(t *testing.T) {
	tests := []struct {
		name string
		a, b *Delta
		want *Delta
	}{
		{
			"insert then retain formatting",
			New().Insert("A", nil),
			New().Retain(1, AttrMap{"bold": true, "color": "red", "font": nil}),
			New().Insert("A", AttrMap{"bold": true, "color": "red"}),
		},
		{
			"insert then delete cancels",
			New().Insert("A", nil),
			New().Delete(1),
			New(),
		},
		{
			"delete then retain beyond",
			New().Delete(1).Retain(1, AttrMap{"style": "P"}),
			New().Delete(1),
			New().Delete(2),
		},
		{
			"retain past end of document trimmed",
			New().Insert("Hello", nil),
			New().Retain(10, nil),
			New().Insert("Hello", nil),
		},
		{
			"insert then insert",
			New().Insert("A", nil),
			New().Insert("B", nil),
			New().Insert("BA", nil),
		},
		{
			"retain keeps removal sentinel for later application",
			New().Retain(1, AttrMap{"bold": true}),
			New().Retain(1, AttrMap{"bold": nil}),
			New().Retain(1, AttrMap{"bold": nil}),
		},
		{
			"delete carried over past inserts",
			New().Insert("AB", nil),
			New().Delete(4),
			New().Delete(2),
		},
		{
			"retain with attrs splits insert",
			New().Insert("Hello", nil),
			New().Retain(3, AttrMap{"bold": true}),
			New().Insert("Hel", AttrMap{"bold": true}).Insert("lo", nil),
		},
		{
			"embed retained with formatting",
			New().InsertEmbed(map[string]any{"image": "a.png"}, nil),
			New().Retain(1, AttrMap{"alt": "photo"}),
			New().InsertEmbed(map[string]any{"image": "a.png"}, AttrMap{"alt": "photo"}),
		},
		{
			"delete splits embed boundary exactly",
			New().Insert("ab", nil).InsertEmbed(float64(1), nil),
			New().Retain(2, nil).Delete(1),
			New().Insert("ab", nil),
		},
		{
			"changes against a common document",
			New().Retain(3, nil).Insert("X", nil),
			New().Retain(4, nil).Delete(1),
			New().Retain(3, nil).Insert("X", nil).Delete(1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Compose(tt.b)
			if !got.Equal(tt.want) {
				t.Errorf("Compose:\n  a=%+v\n  b=%+v\n  got  %+v\n  want %+v",
					tt.a.Ops, tt.b.Ops, got.Ops, tt.want.Ops)
			}
		})
	}
}

func TestCompose_InsertDeleteOrderingEquivalence(t *testing.T) {
	// Both orderings of an insert/delete pair at one position describe the
	// same edit; canonical form makes them compose identically.
	initial := New().Insert("Hello", nil)
	want := New().Insert("HelXo", nil)

	first := New().Retain(3, nil).Insert("X", nil).Delete(1)
	second := New().Retain(3, nil).Delete(1).Insert("X", nil)

	if !first.Equal(second) {
		t.Fatalf("canonical form differs: %+v vs %+v", first.Ops, second.Ops)
	}
	for _, change := range []*Delta{first, second} {
		got := initial.Compose(change)
		if !got.Equal(want) {
			t.Errorf("compose with %+v = %+v, want %+v", change.Ops, got.Ops, want.Ops)
		}
	}
}

func TestCompose_NestedAttributeDeltas(t *testing.T) {
	a := New().Retain(1, AttrMap{"comment": New().Insert("ab", nil)})
	b := New().Retain(1, AttrMap{"comment": New().Retain(2, nil).Insert("c", nil)})
	got := a.Compose(b)

	if len(got.Ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(got.Ops))
	}
	nested, ok := got.Ops[0].Attributes["comment"].(*Delta)
	if !ok {
		t.Fatalf("comment attribute is %T, want *Delta", got.Ops[0].Attributes["comment"])
	}
	if want := New().Insert("abc", nil); !nested.Equal(want) {
		t.Errorf("nested compose = %+v, want %+v", nested.Ops, want.Ops)
	}
}

func TestCompose_Associativity(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c *Delta
	}{
		{
			"inserts and deletes",
			New().Insert("Hello", nil),
			New().Retain(2, nil).Insert("X", nil).Delete(1),
			New().Retain(1, nil).Delete(2),
		},
		{
			"formatting layers",
			New().Insert("abc", AttrMap{"bold": true}),
			New().Retain(3, AttrMap{"italic": true}),
			New().Retain(1, AttrMap{"bold": nil}).Delete(1),
		},
		{
			"embeds",
			New().InsertEmbed(float64(1), nil).Insert("ab", nil),
			New().Retain(1, AttrMap{"alt": "x"}).Delete(1),
			New().Delete(1).Insert("Z", nil),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := tt.a.Compose(tt.b).Compose(tt.c)
			right := tt.a.Compose(tt.b.Compose(tt.c))
			if !left.Equal(right) {
				t.Errorf("associativity broken:\n  (a∘b)∘c = %+v\n  a∘(b∘c) = %+v", left.Ops, right.Ops)
			}
		})
	}
}

func TestCompose_InputsUnchanged(t *testing.T) {
	a := New().Insert("Hello", nil)
	b := New().Retain(2, AttrMap{"bold": true}).Delete(3)
	a.Compose(b)
	if !a.Equal(New().Insert("Hello", nil)) {
		t.Errorf("a mutated: %+v", a.Ops)
	}
	if !b.Equal(New().Retain(2, AttrMap{"bold": true}).Delete(3)) {
		t.Errorf("b mutated: %+v", b.Ops)
	}
}
